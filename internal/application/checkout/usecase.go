package checkout

import (
	"context"
	"time"

	"github.com/Zhima-Mochi/pos-checkout/internal/application"
	domain "github.com/Zhima-Mochi/pos-checkout/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/pos-checkout/internal/domain/outbox"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const useCaseFinalize = "checkout.finalize"

var _ application.UseCase[FinalizeOrderInput, *domain.Order] = (*FinalizeOrderUseCase)(nil)

type FinalizeOrderInput struct {
	SessionID string
}

// FinalizeOrderUseCase freezes a session's order, stores it and announces it to the
// register worker.
type FinalizeOrderUseCase struct {
	sessions  *SessionStore
	repo      domain.Repository
	ids       IDGenerator
	publisher domoutbox.Publisher
	now       Clock

	in             instrumentation
	ordersCounter  observability.Counter   // orders_finalized_total{payment_method}
	valueHistogram observability.Histogram // order_value{payment_method}
}

func NewFinalizeOrderUseCase(
	sessions *SessionStore,
	repo domain.Repository,
	ids IDGenerator,
	publisher domoutbox.Publisher,
	obs observability.Observability,
	now Clock,
) *FinalizeOrderUseCase {
	if now == nil {
		now = time.Now
	}
	in := newInstrumentation(obs)
	return &FinalizeOrderUseCase{
		sessions:       sessions,
		repo:           repo,
		ids:            ids,
		publisher:      publisher,
		now:            now,
		in:             in,
		ordersCounter:  in.obs.Metrics().Counter(observability.MOrdersFinalized),
		valueHistogram: in.obs.Metrics().Histogram(observability.MOrderValue),
	}
}

// Execute finalizes the session's order. Concurrent calls for the same session are
// serialised by the session lock, so exactly one of them produces an Order and the
// others fail with ALREADY_FINALIZED.
func (uc *FinalizeOrderUseCase) Execute(ctx context.Context, cmd FinalizeOrderInput) (_ *domain.Order, err error) {
	ctx, logger, done := uc.in.start(ctx, useCaseFinalize, "FinalizeOrder",
		attribute.String("session.id", cmd.SessionID),
	)
	var publishErr error
	defer func() {
		var extra []observability.Field
		if publishErr != nil {
			extra = append(extra, observability.F("event_publish_error", publishErr.Error()))
		}
		done(err, extra...)
	}()

	if cmd.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "request canceled")
	}

	sess, err := uc.sessions.Get(cmd.SessionID)
	if err != nil {
		return nil, err
	}

	var order *domain.Order
	err = sess.Do(func(f *domain.Finalizer) error {
		o, ferr := f.Finalize(uc.ids.NewID(), uc.now())
		if ferr != nil {
			return ferr
		}
		if ierr := uc.repo.Insert(ctx, o); ierr != nil {
			logger.Error("order_store_failed",
				observability.F("order_id", o.ID),
				observability.F("error", ierr),
			)
			return pkgerrors.Wrap(pkgerrors.CodeInternal, ierr, "store finalized order")
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	method := order.PaymentMethod.ID
	uc.ordersCounter.Add(1, observability.L("payment_method", method))
	uc.valueHistogram.Observe(order.Total.InexactFloat64(), observability.L("payment_method", method))

	publishErr = uc.in.publish(ctx, uc.publisher, domain.NewOrderFinalizedEvent(order))

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.total", order.Total.StringFixed(2)),
		attribute.String("order.payment_method", method),
	)
	span.AddEvent("order.finalized")

	return order, nil
}
