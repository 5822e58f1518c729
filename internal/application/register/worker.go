package register

import (
	"context"
	"fmt"
	"strconv"
	"time"

	domorder "github.com/Zhima-Mochi/pos-checkout/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/pos-checkout/internal/domain/outbox"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	workerService         = "register-worker"
	spanPrefix            = "UC."
	useCaseCreditTakings  = "register.worker.credit_takings"
	useCaseCancelledOrder = "register.worker.order_cancelled"
)

// Worker keeps register takings in step with finalized orders.
type Worker struct {
	svc        *Service
	subscriber domoutbox.Subscriber
	obs        observability.Observability

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

func NewWorker(svc *Service, subscriber domoutbox.Subscriber, obs observability.Observability) *Worker {
	if obs == nil {
		obs = observability.Nop()
	}
	return &Worker{
		svc:          svc,
		subscriber:   subscriber,
		obs:          obs,
		log:          obs.Logger().With(observability.F("service", workerService)),
		reqCounter:   obs.Metrics().Counter(observability.MUsecaseRequests),
		durHistogram: obs.Metrics().Histogram(observability.MUsecaseDuration),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil || w.svc == nil {
		return
	}
	w.subscriber.Subscribe(domorder.OrderFinalizedEvent{}.EventName(), w.handleOrderFinalized)
	w.subscriber.Subscribe(domorder.OrderCancelledEvent{}.EventName(), w.handleOrderCancelled)
}

func (w *Worker) handleOrderFinalized(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(domorder.OrderFinalizedEvent)
	if !ok {
		w.count(useCaseCreditTakings, "ignored")
		return nil
	}

	ctx, span := w.obs.Tracer().Start(ctx, spanPrefix+"CreditTakings",
		attribute.String("use_case", useCaseCreditTakings),
		attribute.String("event", e.EventName()),
		attribute.String("order.id", evt.OrderID),
		attribute.Int("register.id", evt.RegisterID),
	)
	start := time.Now()
	outcome, status := "success", "OK"

	logger := w.eventLogger(ctx, useCaseCreditTakings, e)
	ctx = logctx.With(ctx, logger)

	defer func() {
		lat := time.Since(start).Seconds()
		w.observe(useCaseCreditTakings, outcome, lat)

		logger.Info("use_case_done",
			observability.F("outcome", outcome),
			observability.F("status", status),
			observability.F("latency_seconds", lat),
			observability.F("order_id", evt.OrderID),
			observability.F("register_id", strconv.Itoa(evt.RegisterID)),
		)

		if outcome == "error" {
			span.SetStatus(codes.Error, status)
		} else {
			span.SetStatus(codes.Ok, status)
		}
		span.End()
	}()

	credited, err := w.svc.RecordOrder(ctx, evt)
	if err != nil {
		outcome, status = "error", "TAKINGS_UPDATE_FAILED"
		span.RecordError(err)
		return fmt.Errorf("register worker: credit takings: %w", err)
	}
	if !credited {
		status = "DUPLICATE_EVENT"
	}
	return nil
}

// handleOrderCancelled only records the abandoned order; takings are untouched.
func (w *Worker) handleOrderCancelled(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(domorder.OrderCancelledEvent)
	if !ok {
		w.count(useCaseCancelledOrder, "ignored")
		return nil
	}
	start := time.Now()
	w.eventLogger(ctx, useCaseCancelledOrder, e).Info("order_abandoned",
		observability.F("session_id", evt.SessionID),
		observability.F("register_id", strconv.Itoa(evt.RegisterID)),
		observability.F("item_count", evt.ItemCount),
	)
	w.observe(useCaseCancelledOrder, "success", time.Since(start).Seconds())
	return nil
}

func (w *Worker) eventLogger(ctx context.Context, useCase string, e domoutbox.Event) observability.Logger {
	logger := logctx.FromOr(ctx, w.log).With(
		observability.F("use_case", useCase),
		observability.F("event", e.EventName()),
	)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logger = logger.With(
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	return logger
}

func (w *Worker) observe(useCase, outcome string, latency float64) {
	w.reqCounter.Add(1,
		observability.L("use_case", useCase),
		observability.L("outcome", outcome),
	)
	w.durHistogram.Observe(latency, observability.L("use_case", useCase))
}

func (w *Worker) count(useCase, outcome string) {
	w.reqCounter.Add(1,
		observability.L("use_case", useCase),
		observability.L("outcome", outcome),
	)
}
