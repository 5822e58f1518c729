package httppresentation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	checkoutapp "github.com/Zhima-Mochi/pos-checkout/internal/application/checkout"
	registerapp "github.com/Zhima-Mochi/pos-checkout/internal/application/register"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/id"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/memory"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat := memory.NewCatalog()
	payments := memory.NewPaymentMethodRegistry()
	registers := memory.NewRegisterRegistry()

	checkoutSvc := checkoutapp.NewService(checkoutapp.Dependencies{
		Catalog:   cat,
		Tickets:   memory.NewTicketRegistry(),
		Payments:  payments,
		Registers: registers,
		Orders:    memory.NewOrderRepository(),
		IDs:       id.NewUUIDGenerator(),
	})
	registerSvc := registerapp.NewService(registers, memory.NewTakingsRepository())

	srv := httptest.NewServer(NewHandler(checkoutSvc, registerSvc, cat, payments, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any, out any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newServer(t)

	var products []productResponse
	resp := call(t, srv, http.MethodGet, "/catalog/products?category=Doces", nil, &products)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, products, 2)
	assert.Equal(t, "6.50", products[0].Price)

	call(t, srv, http.MethodGet, "/catalog/products?category=Todos", nil, &products)
	assert.Len(t, products, 14)

	var categories []string
	call(t, srv, http.MethodGet, "/catalog/categories", nil, &categories)
	assert.Contains(t, categories, "Combos")

	var methods paymentMethodsResponse
	call(t, srv, http.MethodGet, "/payment-methods", nil, &methods)
	assert.Len(t, methods.Standard, 4)
	assert.Len(t, methods.Optional, 3)

	var optional paymentMethodsResponse
	resp = call(t, srv, http.MethodGet, "/payment-methods?group=optional", nil, &optional)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, optional.Standard)
	require.Len(t, optional.Optional, 3)
	assert.Equal(t, "optional", optional.Optional[0].Group)

	var errResp errorResponse
	resp = call(t, srv, http.MethodGet, "/payment-methods?group=premium", nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, pkgerrors.CodeValidation, errResp.Error.Code)
}

func TestCheckoutOverHTTP(t *testing.T) {
	srv := newServer(t)

	var session sessionResponse
	resp := call(t, srv, http.MethodPost, "/sessions", map[string]int{"register_id": 1}, &session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(headerRequestID))
	base := "/sessions/" + session.ID

	call(t, srv, http.MethodPost, base+"/items", map[string]int{"product_id": 12}, &session)
	call(t, srv, http.MethodPut, base+"/items/12", map[string]int{"quantity": 3}, &session)
	assert.Equal(t, "21.00", session.Subtotal)

	call(t, srv, http.MethodDelete, base+"/items/12", nil, &session)
	assert.Equal(t, 2, session.ItemCount)

	call(t, srv, http.MethodPut, base+"/ticket", map[string]string{"code": "desconto10"}, &session)
	assert.Equal(t, "4.00", session.Total)

	call(t, srv, http.MethodPut, base+"/payment-method", map[string]string{"method_id": "cash"}, &session)
	assert.Equal(t, "awaiting_payment", session.State)

	var order orderResponse
	resp = call(t, srv, http.MethodPost, base+"/finalize", nil, &order)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "14.00", order.Subtotal)
	assert.Equal(t, "10.00", order.Discount)
	assert.Equal(t, "4.00", order.Total)
	assert.Equal(t, "DESCONTO10", order.Ticket)

	var errResp errorResponse
	resp = call(t, srv, http.MethodPost, base+"/finalize", nil, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, pkgerrors.CodeAlreadyFinalized, errResp.Error.Code)

	var fetched orderResponse
	resp = call(t, srv, http.MethodGet, "/orders/"+order.ID, nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, order.ID, fetched.ID)

	var orders []orderResponse
	call(t, srv, http.MethodGet, "/registers/1/orders", nil, &orders)
	assert.Len(t, orders, 1)

	call(t, srv, http.MethodPost, base+"/reset", nil, &session)
	assert.Equal(t, "building", session.State)

	resp = call(t, srv, http.MethodDelete, base, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	srv := newServer(t)

	var errResp errorResponse
	resp := call(t, srv, http.MethodPost, "/sessions", map[string]int{"register_id": 99}, &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, pkgerrors.CodeNotFound, errResp.Error.Code)

	resp = call(t, srv, http.MethodPost, "/sessions", map[string]any{"register_id": 1, "cashier": "ana"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, pkgerrors.CodeValidation, errResp.Error.Code)

	var session sessionResponse
	call(t, srv, http.MethodPost, "/sessions", map[string]int{"register_id": 2}, &session)
	base := "/sessions/" + session.ID

	resp = call(t, srv, http.MethodPut, base+"/items/1", map[string]int{"quantity": -1}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, srv, http.MethodPut, base+"/items/abc", map[string]int{"quantity": 1}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, srv, http.MethodPost, base+"/items", map[string]int{"product_id": 500}, &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, srv, http.MethodPut, base+"/ticket", map[string]string{"code": "FAKE"}, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, pkgerrors.CodeInvalidTicket, errResp.Error.Code)

	resp = call(t, srv, http.MethodPost, base+"/finalize", nil, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, pkgerrors.CodeStateError, errResp.Error.Code)

	resp = call(t, srv, http.MethodGet, "/orders/nope", nil, &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, srv, http.MethodGet, "/sessions/nope", nil, &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterEndpoint(t *testing.T) {
	srv := newServer(t)

	var reg registerResponse
	resp := call(t, srv, http.MethodGet, "/registers/3", nil, &reg)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Caixa 3", reg.Name)
	assert.Equal(t, "2000.00", reg.Balance)

	var regs []registerResponse
	call(t, srv, http.MethodGet, "/registers", nil, &regs)
	assert.Len(t, regs, 12)
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	resp := call(t, srv, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
