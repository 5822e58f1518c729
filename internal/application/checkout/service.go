package checkout

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Zhima-Mochi/pos-checkout/internal/domain/cart"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/catalog"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/discount"
	domain "github.com/Zhima-Mochi/pos-checkout/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/pos-checkout/internal/domain/outbox"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/payment"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/register"
	"github.com/Zhima-Mochi/pos-checkout/internal/domain/ticket"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"

	"go.opentelemetry.io/otel/attribute"
)

const (
	useCaseOpen         = "checkout.open_session"
	useCaseClose        = "checkout.close_session"
	useCaseAddItem      = "checkout.add_item"
	useCaseSetQuantity  = "checkout.set_quantity"
	useCaseRemoveItem   = "checkout.remove_item"
	useCaseApplyTicket  = "checkout.apply_ticket"
	useCaseRemoveTicket = "checkout.remove_ticket"
	useCaseSelectMethod = "checkout.select_payment_method"
	useCaseReset        = "checkout.reset"
)

// Dependencies groups the registries and adapters a Service is built from.
type Dependencies struct {
	Catalog   catalog.Catalog
	Tickets   ticket.Registry
	Payments  payment.Registry
	Registers register.Registry
	Orders    domain.Repository
	IDs       IDGenerator
	Publisher domoutbox.Publisher
	Obs       observability.Observability
	Clock     Clock
}

// Service runs the POS screens' operations against terminal sessions.
type Service struct {
	deps     Dependencies
	sessions *SessionStore
	finalize *FinalizeOrderUseCase
	in       instrumentation

	sessionsCounter observability.Counter // sessions_opened_total{register}
}

func NewService(deps Dependencies) *Service {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	sessions := NewSessionStore()
	in := newInstrumentation(deps.Obs)
	return &Service{
		deps:            deps,
		sessions:        sessions,
		finalize:        NewFinalizeOrderUseCase(sessions, deps.Orders, deps.IDs, deps.Publisher, deps.Obs, deps.Clock),
		in:              in,
		sessionsCounter: in.obs.Metrics().Counter(observability.MSessionsOpen),
	}
}

// OpenSession starts an empty order on the given register.
func (s *Service) OpenSession(ctx context.Context, registerID int) (_ View, err error) {
	_, logger, done := s.in.start(ctx, useCaseOpen, "OpenSession", attribute.Int("register.id", registerID))
	defer func() { done(err) }()

	if _, err := s.deps.Registers.GetRegister(registerID); err != nil {
		if errors.Is(err, register.ErrNotFound) {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "register not found").
				WithDetails(map[string]int{"register_id": registerID})
		}
		return View{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load register")
	}

	f := domain.NewFinalizer(registerID,
		cart.New(s.deps.Catalog),
		discount.NewEngine(s.deps.Tickets),
		payment.NewSelector(s.deps.Payments),
	)
	sess := s.sessions.Open(s.deps.IDs.NewID(), f, s.deps.Clock())
	s.sessionsCounter.Add(1, observability.L("register", strconv.Itoa(registerID)))
	logger.Debug("session_opened", observability.F("session_id", sess.ID))

	var v View
	_ = sess.Do(func(f *domain.Finalizer) error {
		v = snapshot(sess.ID, f)
		return nil
	})
	return v, nil
}

// CloseSession discards the session. An order left with items is announced as
// cancelled.
func (s *Service) CloseSession(ctx context.Context, sessionID string) (err error) {
	ctx, logger, done := s.in.start(ctx, useCaseClose, "CloseSession", attribute.String("session.id", sessionID))
	defer func() { done(err) }()

	sess, err := s.sessions.Remove(sessionID)
	if err != nil {
		return err
	}

	var abandoned *domain.OrderCancelledEvent
	_ = sess.Do(func(f *domain.Finalizer) error {
		if f.State() != domain.StatusFinalized && f.ItemCount() > 0 {
			evt := domain.NewOrderCancelledEvent(sessionID, f.RegisterID(), f.ItemCount())
			abandoned = &evt
		}
		f.Reset()
		return nil
	})

	if abandoned != nil {
		if perr := s.in.publish(ctx, s.deps.Publisher, *abandoned); perr != nil {
			logger.Warn("order_cancelled_publish_failed", observability.F("error", perr))
		}
	}
	return nil
}

func (s *Service) View(ctx context.Context, sessionID string) (View, error) {
	_ = ctx
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return View{}, err
	}
	var v View
	_ = sess.Do(func(f *domain.Finalizer) error {
		v = snapshot(sess.ID, f)
		return nil
	})
	return v, nil
}

func (s *Service) AddItem(ctx context.Context, sessionID string, productID int) (View, error) {
	return s.mutate(ctx, useCaseAddItem, "AddItem", sessionID, func(f *domain.Finalizer) error {
		return f.AddItem(productID)
	}, attribute.Int("product.id", productID))
}

func (s *Service) SetQuantity(ctx context.Context, sessionID string, productID, quantity int) (View, error) {
	return s.mutate(ctx, useCaseSetQuantity, "SetQuantity", sessionID, func(f *domain.Finalizer) error {
		return f.SetQuantity(productID, quantity)
	}, attribute.Int("product.id", productID), attribute.Int("quantity", quantity))
}

func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int) (View, error) {
	return s.mutate(ctx, useCaseRemoveItem, "RemoveItem", sessionID, func(f *domain.Finalizer) error {
		return f.RemoveItem(productID)
	}, attribute.Int("product.id", productID))
}

func (s *Service) ApplyTicket(ctx context.Context, sessionID, code string) (View, error) {
	return s.mutate(ctx, useCaseApplyTicket, "ApplyTicket", sessionID, func(f *domain.Finalizer) error {
		_, err := f.ApplyTicket(code)
		return err
	})
}

func (s *Service) RemoveTicket(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, useCaseRemoveTicket, "RemoveTicket", sessionID, func(f *domain.Finalizer) error {
		return f.RemoveTicket()
	})
}

func (s *Service) SelectPaymentMethod(ctx context.Context, sessionID, methodID string) (View, error) {
	return s.mutate(ctx, useCaseSelectMethod, "SelectPaymentMethod", sessionID, func(f *domain.Finalizer) error {
		_, err := f.SelectMethod(methodID)
		return err
	}, attribute.String("payment.method", methodID))
}

// Reset starts a new order in the session from any state.
func (s *Service) Reset(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, useCaseReset, "Reset", sessionID, func(f *domain.Finalizer) error {
		f.Reset()
		return nil
	})
}

func (s *Service) Finalize(ctx context.Context, sessionID string) (*domain.Order, error) {
	return s.finalize.Execute(ctx, FinalizeOrderInput{SessionID: sessionID})
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := s.deps.Orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found").
				WithDetails(map[string]string{"order_id": orderID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context, registerID int) ([]*domain.Order, error) {
	orders, err := s.deps.Orders.ListByRegister(ctx, registerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return orders, nil
}

// OpenSessions reports how many sessions are currently open.
func (s *Service) OpenSessions() int { return s.sessions.Len() }

func (s *Service) mutate(
	ctx context.Context,
	useCase, spanName, sessionID string,
	fn func(f *domain.Finalizer) error,
	attrs ...attribute.KeyValue,
) (_ View, err error) {
	attrs = append(attrs, attribute.String("session.id", sessionID))
	_, _, done := s.in.start(ctx, useCase, spanName, attrs...)
	defer func() { done(err) }()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return View{}, err
	}

	var v View
	err = sess.Do(func(f *domain.Finalizer) error {
		if ferr := fn(f); ferr != nil {
			return ferr
		}
		v = snapshot(sess.ID, f)
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return v, nil
}
