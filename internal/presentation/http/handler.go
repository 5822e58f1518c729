package httppresentation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	checkoutapp "github.com/Zhima-Mochi/pos-checkout/internal/application/checkout"
	registerapp "github.com/Zhima-Mochi/pos-checkout/internal/application/register"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/catalog"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/payment"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability/logctx"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	componentHTTPHandler = "http_server"
	maxBodyBytes         = 1 << 16
)

type Handler struct {
	checkout  *checkoutapp.Service
	registers *registerapp.Service
	catalog   catalog.Catalog
	payments  payment.Registry
	validate  *validator.Validate

	log          observability.Logger
	obs          observability.Observability
	reqCounter   observability.Counter   // http_requests_total{method,route,status}
	durHistogram observability.Histogram // http_request_duration_seconds{method,route,status}
}

func NewHandler(
	checkoutSvc *checkoutapp.Service,
	registerSvc *registerapp.Service,
	cat catalog.Catalog,
	payments payment.Registry,
	obs observability.Observability,
) *Handler {
	if obs == nil {
		obs = observability.Nop()
	}
	return &Handler{
		checkout:     checkoutSvc,
		registers:    registerSvc,
		catalog:      cat,
		payments:     payments,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		log:          obs.Logger().With(observability.F("component", componentHTTPHandler)),
		obs:          obs,
		reqCounter:   obs.Metrics().Counter(observability.MHTTPRequests),
		durHistogram: obs.Metrics().Histogram(observability.MHTTPRequestDuration),
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorBody{Code: pkgerrors.CodeNotFound, Message: "route not found"}})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	// Trace → request logger → HTTP metrics → access log → handler
	h.handle(r, http.MethodGet, "/health", h.handleHealth)

	h.handle(r, http.MethodGet, "/catalog/products", h.handleListProducts)
	h.handle(r, http.MethodGet, "/catalog/categories", h.handleListCategories)
	h.handle(r, http.MethodGet, "/payment-methods", h.handleListPaymentMethods)

	h.handle(r, http.MethodGet, "/registers", h.handleListRegisters)
	h.handle(r, http.MethodGet, "/registers/{registerID}", h.handleGetRegister)
	h.handle(r, http.MethodGet, "/registers/{registerID}/orders", h.handleListRegisterOrders)

	h.handle(r, http.MethodPost, "/sessions", h.handleOpenSession)
	h.handle(r, http.MethodGet, "/sessions/{sessionID}", h.handleGetSession)
	h.handle(r, http.MethodDelete, "/sessions/{sessionID}", h.handleCloseSession)
	h.handle(r, http.MethodPost, "/sessions/{sessionID}/items", h.handleAddItem)
	h.handle(r, http.MethodPut, "/sessions/{sessionID}/items/{productID}", h.handleSetQuantity)
	h.handle(r, http.MethodDelete, "/sessions/{sessionID}/items/{productID}", h.handleRemoveItem)
	h.handle(r, http.MethodPut, "/sessions/{sessionID}/ticket", h.handleApplyTicket)
	h.handle(r, http.MethodDelete, "/sessions/{sessionID}/ticket", h.handleRemoveTicket)
	h.handle(r, http.MethodPut, "/sessions/{sessionID}/payment-method", h.handleSelectPaymentMethod)
	h.handle(r, http.MethodPost, "/sessions/{sessionID}/finalize", h.handleFinalize)
	h.handle(r, http.MethodPost, "/sessions/{sessionID}/reset", h.handleReset)

	h.handle(r, http.MethodGet, "/orders/{orderID}", h.handleGetOrder)

	return r
}

func (h *Handler) handle(r chi.Router, method, pattern string, handler http.HandlerFunc) {
	route := method + " " + pattern
	wrapped := h.withTrace(
		ObservabilityMiddleware(
			h.log,
			func(r *http.Request) string { return r.Header.Get(headerRequestID) },
			func(r *http.Request) string { return r.Header.Get(headerTerminalID) },
			h.obs,
		)(
			h.withHTTPMetrics(
				h.withAccessLog(handler),
			),
		),
	)
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		wrapped.ServeHTTP(w, req.WithContext(contextWithRoute(req.Context(), route)))
	}))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.ListByCategory(r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, toProducts(products))
}

func (h *Handler) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.ListCategories())
}

// handleListPaymentMethods lists both groups, or only the one named by ?group=.
func (h *Handler) handleListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("group")
	if raw == "" {
		writeJSON(w, http.StatusOK, paymentMethodsResponse{
			Standard: toMethods(h.payments.ListStandardMethods()),
			Optional: toMethods(h.payments.ListOptionalMethods()),
		})
		return
	}

	group, err := payment.ParseGroup(raw)
	if err != nil {
		h.writeDomainError(w, r, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method group").
			WithDetails(map[string]string{"group": raw}))
		return
	}
	var resp paymentMethodsResponse
	switch group {
	case payment.GroupStandard:
		resp.Standard = toMethods(h.payments.ListStandardMethods())
	case payment.GroupOptional:
		resp.Optional = toMethods(h.payments.ListOptionalMethods())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListRegisters(w http.ResponseWriter, r *http.Request) {
	regs := h.registers.ListRegisters()
	out := make([]registerResponse, 0, len(regs))
	for _, reg := range regs {
		view, err := h.registers.GetRegister(r.Context(), reg.ID)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		out = append(out, toRegister(view))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetRegister(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "registerID")
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	view, err := h.registers.GetRegister(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegister(view))
}

func (h *Handler) handleListRegisterOrders(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "registerID")
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if _, err := h.registers.GetRegister(r.Context(), id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	orders, err := h.checkout.ListOrders(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrders(orders))
}

func (h *Handler) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := h.decode(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	view, err := h.checkout.OpenSession(r.Context(), req.RegisterID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSession(view))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkout.View(r.Context(), chi.URLParam(r, "sessionID"))
	h.writeSession(w, r, view, err)
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.checkout.CloseSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := h.decode(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	view, err := h.checkout.AddItem(r.Context(), chi.URLParam(r, "sessionID"), req.ProductID)
	h.writeSession(w, r, view, err)
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := intParam(r, "productID")
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	var req setQuantityRequest
	if err := h.decode(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	view, err := h.checkout.SetQuantity(r.Context(), chi.URLParam(r, "sessionID"), productID, *req.Quantity)
	h.writeSession(w, r, view, err)
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := intParam(r, "productID")
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	view, err := h.checkout.RemoveItem(r.Context(), chi.URLParam(r, "sessionID"), productID)
	h.writeSession(w, r, view, err)
}

func (h *Handler) handleApplyTicket(w http.ResponseWriter, r *http.Request) {
	var req applyTicketRequest
	if err := h.decode(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	view, err := h.checkout.ApplyTicket(r.Context(), chi.URLParam(r, "sessionID"), req.Code)
	h.writeSession(w, r, view, err)
}

func (h *Handler) handleRemoveTicket(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkout.RemoveTicket(r.Context(), chi.URLParam(r, "sessionID"))
	h.writeSession(w, r, view, err)
}

func (h *Handler) handleSelectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req selectMethodRequest
	if err := h.decode(r, &req); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	view, err := h.checkout.SelectPaymentMethod(r.Context(), chi.URLParam(r, "sessionID"), req.MethodID)
	h.writeSession(w, r, view, err)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkout.Finalize(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	logctx.FromOr(r.Context(), h.log).Info("order_finalized",
		observability.F("order_id", order.ID),
		observability.F("total", money(order.Total)),
	)
	writeJSON(w, http.StatusCreated, toOrder(order))
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkout.Reset(r.Context(), chi.URLParam(r, "sessionID"))
	h.writeSession(w, r, view, err)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkout.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrder(order))
}

func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, view checkoutapp.View, err error) {
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSession(view))
}

// decode reads a JSON body into dst, rejecting unknown fields, and validates it.
func (h *Handler) decode(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
		}
		return validationError(err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" must be an integer").
			WithDetails(map[string]string{name: raw})
	}
	return v, nil
}
