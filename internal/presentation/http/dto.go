package httppresentation

import (
	"time"

	checkoutapp "github.com/Zhima-Mochi/pos-checkout/internal/application/checkout"
	registerapp "github.com/Zhima-Mochi/pos-checkout/internal/application/register"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/cart"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/catalog"
	domainOrder "github.com/Zhima-Mochi/pos-checkout/internal/domain/order"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/payment"
	"github.com/shopspring/decimal"
)

type openSessionRequest struct {
	RegisterID int `json:"register_id" validate:"required,gt=0"`
}

type addItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

type applyTicketRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type selectMethodRequest struct {
	MethodID string `json:"method_id" validate:"required,max=64"`
}

type productResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

type methodResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

type paymentMethodsResponse struct {
	Standard []methodResponse `json:"standard,omitempty"`
	Optional []methodResponse `json:"optional,omitempty"`
}

type lineResponse struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type ticketResponse struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

type sessionResponse struct {
	ID            string          `json:"id"`
	RegisterID    int             `json:"register_id"`
	State         string          `json:"state"`
	Lines         []lineResponse  `json:"lines"`
	ItemCount     int             `json:"item_count"`
	Subtotal      string          `json:"subtotal"`
	Discount      string          `json:"discount"`
	Total         string          `json:"total"`
	Ticket        *ticketResponse `json:"ticket,omitempty"`
	PaymentMethod *methodResponse `json:"payment_method,omitempty"`
	LastOrderID   string          `json:"last_order_id,omitempty"`
}

type orderResponse struct {
	ID            string         `json:"id"`
	RegisterID    int            `json:"register_id"`
	Lines         []lineResponse `json:"lines"`
	ItemCount     int            `json:"item_count"`
	Subtotal      string         `json:"subtotal"`
	Discount      string         `json:"discount"`
	Total         string         `json:"total"`
	Ticket        string         `json:"ticket,omitempty"`
	PaymentMethod methodResponse `json:"payment_method"`
	FinalizedAt   time.Time      `json:"finalized_at"`
}

type registerResponse struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	OpeningBalance string            `json:"opening_balance"`
	Orders         int               `json:"orders"`
	Takings        string            `json:"takings"`
	ByMethod       map[string]string `json:"takings_by_method"`
	Balance        string            `json:"balance"`
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func toProducts(ps []catalog.Product) []productResponse {
	out := make([]productResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, productResponse{ID: p.ID, Name: p.Name, Price: money(p.Price), Category: p.Category})
	}
	return out
}

func toMethod(m payment.Method) methodResponse {
	return methodResponse{ID: m.ID, Name: m.Name, Group: m.Group.String()}
}

func toMethods(ms []payment.Method) []methodResponse {
	out := make([]methodResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMethod(m))
	}
	return out
}

func toLines(ls []cart.Line) []lineResponse {
	out := make([]lineResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, lineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: money(l.UnitPrice),
			Quantity:  l.Quantity,
			LineTotal: money(l.LineTotal()),
		})
	}
	return out
}

func toSession(v checkoutapp.View) sessionResponse {
	resp := sessionResponse{
		ID:         v.SessionID,
		RegisterID: v.RegisterID,
		State:      string(v.State),
		Lines:      toLines(v.Lines),
		ItemCount:  v.ItemCount,
		Subtotal:   money(v.Subtotal),
		Discount:   money(v.Discount),
		Total:      money(v.Total),
	}
	if v.Ticket != nil {
		resp.Ticket = &ticketResponse{Code: v.Ticket.Code, Value: money(v.Ticket.Value)}
	}
	if v.PaymentMethod != nil {
		m := toMethod(*v.PaymentMethod)
		resp.PaymentMethod = &m
	}
	if v.LastOrder != nil {
		resp.LastOrderID = v.LastOrder.ID
	}
	return resp
}

func toOrder(o *domainOrder.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		RegisterID:    o.RegisterID,
		Lines:         toLines(o.Lines),
		ItemCount:     o.ItemCount(),
		Subtotal:      money(o.Subtotal),
		Discount:      money(o.Discount),
		Total:         money(o.Total),
		Ticket:        o.TicketCode,
		PaymentMethod: toMethod(o.PaymentMethod),
		FinalizedAt:   o.FinalizedAt,
	}
}

func toOrders(os []*domainOrder.Order) []orderResponse {
	out := make([]orderResponse, 0, len(os))
	for _, o := range os {
		out = append(out, toOrder(o))
	}
	return out
}

func toRegister(v registerapp.View) registerResponse {
	byMethod := make(map[string]string, len(v.Takings.ByMethod))
	for k, amount := range v.Takings.ByMethod {
		byMethod[k] = money(amount)
	}
	return registerResponse{
		ID:             v.Register.ID,
		Name:           v.Register.Name,
		OpeningBalance: money(v.Register.OpeningBalance),
		Orders:         v.Takings.Orders,
		Takings:        money(v.Takings.Total),
		ByMethod:       byMethod,
		Balance:        money(v.Balance),
	}
}
