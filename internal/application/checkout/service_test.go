package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domain "github.com/Zhima-Mochi/pos-checkout/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/pos-checkout/internal/domain/outbox"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/pos-checkout/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type sequenceIDs struct{ n atomic.Int64 }

func (s *sequenceIDs) NewID() string { return fmt.Sprintf("id-%d", s.n.Add(1)) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []domoutbox.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domoutbox.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventName())
	}
	return out
}

var fixedNow = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	orders    *memory.OrderRepository
	publisher *recordingPublisher
}

func newFixture(t *testing.T, obs observability.Observability) fixture {
	t.Helper()
	orders := memory.NewOrderRepository()
	publisher := &recordingPublisher{}
	svc := NewService(Dependencies{
		Catalog:   memory.NewCatalog(),
		Tickets:   memory.NewTicketRegistry(),
		Payments:  memory.NewPaymentMethodRegistry(),
		Registers: memory.NewRegisterRegistry(),
		Orders:    orders,
		IDs:       &sequenceIDs{},
		Publisher: publisher,
		Obs:       obs,
		Clock:     func() time.Time { return fixedNow },
	})
	return fixture{svc: svc, orders: orders, publisher: publisher}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOpenSessionUnknownRegister(t *testing.T) {
	fx := newFixture(t, nil)

	_, err := fx.svc.OpenSession(context.Background(), 42)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.Zero(t, fx.svc.OpenSessions())
}

func TestCheckoutFlowProducesOrder(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)

	view, err := fx.svc.OpenSession(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBuilding, view.State)
	id := view.SessionID

	_, err = fx.svc.AddItem(ctx, id, 5) // X-Burger 15.90
	require.NoError(t, err)
	_, err = fx.svc.AddItem(ctx, id, 2) // Refrigerante 5.00
	require.NoError(t, err)
	view, err = fx.svc.SetQuantity(ctx, id, 2, 2)
	require.NoError(t, err)
	assert.True(t, view.Subtotal.Equal(dec("25.90")))
	assert.Equal(t, 3, view.ItemCount)

	view, err = fx.svc.ApplyTicket(ctx, id, "vale5")
	require.NoError(t, err)
	require.NotNil(t, view.Ticket)
	assert.Equal(t, "VALE5", view.Ticket.Code)
	assert.True(t, view.Total.Equal(dec("20.90")))

	view, err = fx.svc.SelectPaymentMethod(ctx, id, "pix")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingPayment, view.State)

	order, err := fx.svc.Finalize(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, order.RegisterID)
	assert.Equal(t, "pix", order.PaymentMethod.ID)
	assert.Equal(t, "VALE5", order.TicketCode)
	assert.True(t, order.Subtotal.Equal(dec("25.90")))
	assert.True(t, order.Discount.Equal(dec("5")))
	assert.True(t, order.Total.Equal(dec("20.90")))
	assert.Equal(t, fixedNow, order.FinalizedAt)

	stored, err := fx.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)

	view, err = fx.svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinalized, view.State)
	assert.Zero(t, view.ItemCount)
	require.NotNil(t, view.LastOrder)
	assert.Equal(t, order.ID, view.LastOrder.ID)

	assert.Equal(t, []string{"order.finalized"}, fx.publisher.names())
}

func TestFinalizePreconditions(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)
	view, err := fx.svc.OpenSession(ctx, 1)
	require.NoError(t, err)
	id := view.SessionID

	_, err = fx.svc.Finalize(ctx, id)
	assert.Equal(t, pkgerrors.CodeStateError, pkgerrors.CodeOf(err))
	assert.True(t, errors.Is(err, domain.ErrEmptyCart))

	_, err = fx.svc.AddItem(ctx, id, 1)
	require.NoError(t, err)
	_, err = fx.svc.Finalize(ctx, id)
	assert.Equal(t, pkgerrors.CodeStateError, pkgerrors.CodeOf(err))
	assert.True(t, errors.Is(err, domain.ErrNoPaymentMethod))

	_, err = fx.svc.Finalize(ctx, "")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = fx.svc.Finalize(ctx, "missing")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	assert.Empty(t, fx.publisher.names())
}

func TestConcurrentFinalizeYieldsOneOrder(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)
	view, err := fx.svc.OpenSession(ctx, 7)
	require.NoError(t, err)
	id := view.SessionID
	_, err = fx.svc.AddItem(ctx, id, 13)
	require.NoError(t, err)
	_, err = fx.svc.SelectPaymentMethod(ctx, id, "cash")
	require.NoError(t, err)

	const taps = 16
	var wg sync.WaitGroup
	var ok, already atomic.Int32
	for i := 0; i < taps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.svc.Finalize(ctx, id)
			switch {
			case err == nil:
				ok.Add(1)
			case pkgerrors.CodeOf(err) == pkgerrors.CodeAlreadyFinalized:
				already.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, taps-1, already.Load())

	orders, err := fx.svc.ListOrders(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestMutationsAfterFinalizeNeedReset(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)
	view, err := fx.svc.OpenSession(ctx, 1)
	require.NoError(t, err)
	id := view.SessionID
	_, err = fx.svc.AddItem(ctx, id, 9)
	require.NoError(t, err)
	_, err = fx.svc.SelectPaymentMethod(ctx, id, "debit")
	require.NoError(t, err)
	_, err = fx.svc.Finalize(ctx, id)
	require.NoError(t, err)

	_, err = fx.svc.AddItem(ctx, id, 9)
	assert.Equal(t, pkgerrors.CodeStateError, pkgerrors.CodeOf(err))
	assert.True(t, errors.Is(err, domain.ErrOrderFinalized))

	view, err = fx.svc.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBuilding, view.State)
	assert.Nil(t, view.LastOrder)

	_, err = fx.svc.AddItem(ctx, id, 9)
	assert.NoError(t, err)
}

func TestInvalidTicketKeepsPreviousDiscount(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)
	view, err := fx.svc.OpenSession(ctx, 1)
	require.NoError(t, err)
	id := view.SessionID
	_, err = fx.svc.SetQuantity(ctx, id, 7, 3) // Cachorro Quente 10.00
	require.NoError(t, err)
	_, err = fx.svc.ApplyTicket(ctx, id, "PROMO20")
	require.NoError(t, err)

	_, err = fx.svc.ApplyTicket(ctx, id, "EXPIRED")
	assert.Equal(t, pkgerrors.CodeInvalidTicket, pkgerrors.CodeOf(err))

	view, err = fx.svc.View(ctx, id)
	require.NoError(t, err)
	assert.True(t, view.Discount.Equal(dec("20")))
	assert.True(t, view.Total.Equal(dec("10")))

	view, err = fx.svc.RemoveTicket(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, view.Ticket)
	assert.True(t, view.Total.Equal(dec("30")))
}

func TestCloseSessionAnnouncesAbandonedOrder(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)

	empty, err := fx.svc.OpenSession(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, fx.svc.CloseSession(ctx, empty.SessionID))
	assert.Empty(t, fx.publisher.names())

	busy, err := fx.svc.OpenSession(ctx, 1)
	require.NoError(t, err)
	_, err = fx.svc.AddItem(ctx, busy.SessionID, 10)
	require.NoError(t, err)
	require.NoError(t, fx.svc.CloseSession(ctx, busy.SessionID))
	assert.Equal(t, []string{"order.cancelled"}, fx.publisher.names())

	err = fx.svc.CloseSession(ctx, busy.SessionID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	_, err = fx.svc.AddItem(ctx, busy.SessionID, 10)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestPublishFailureDoesNotFailFinalize(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)
	fx.publisher.err = errors.New("bus stopped")

	view, err := fx.svc.OpenSession(ctx, 1)
	require.NoError(t, err)
	_, err = fx.svc.AddItem(ctx, view.SessionID, 4)
	require.NoError(t, err)
	_, err = fx.svc.SelectPaymentMethod(ctx, view.SessionID, "credit")
	require.NoError(t, err)

	order, err := fx.svc.Finalize(ctx, view.SessionID)
	require.NoError(t, err)
	_, err = fx.orders.Get(ctx, order.ID)
	assert.NoError(t, err)
}

func TestUseCaseLogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := infraobs.New(nil, zaplogger.New(zap.New(core)), nil, nil)
	fx := newFixture(t, obs)

	_, err := fx.svc.OpenSession(context.Background(), 99)
	require.Error(t, err)

	done := logs.FilterMessage("use_case_done").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.Equal(t, useCaseOpen, fields["use_case"])
	assert.Equal(t, "error", fields["outcome"])
	assert.Equal(t, string(pkgerrors.CodeNotFound), fields["status"])
	assert.Equal(t, checkoutService, fields["service"])
}
