package checkout

import (
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/cart"
	domain "github.com/Zhima-Mochi/pos-checkout/internal/domain/order"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/payment"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/ticket"
	"github.com/shopspring/decimal"
)

// View is a read-only snapshot of a session, taken under the session lock.
type View struct {
	SessionID     string
	RegisterID    int
	State         domain.Status
	Lines         []cart.Line
	ItemCount     int
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Ticket        *ticket.Ticket
	PaymentMethod *payment.Method
	// LastOrder is set while the session sits in the finalized state.
	LastOrder *domain.Order
}

func snapshot(sessionID string, f *domain.Finalizer) View {
	v := View{
		SessionID:  sessionID,
		RegisterID: f.RegisterID(),
		State:      f.State(),
		Lines:      f.Lines(),
		ItemCount:  f.ItemCount(),
		Subtotal:   f.Subtotal(),
		Discount:   f.Discount(),
		Total:      f.Total(),
	}
	if t, ok := f.AppliedTicket(); ok {
		v.Ticket = &t
	}
	if m, ok := f.CurrentMethod(); ok {
		v.PaymentMethod = &m
	}
	if o, ok := f.LastOrder(); ok {
		v.LastOrder = o
	}
	return v
}
