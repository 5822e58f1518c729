package checkout

import (
	"context"
	"time"

	domoutbox "github.com/Zhima-Mochi/pos-checkout/internal/domain/outbox"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability/logctx"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// instrumentation carries the RED instruments shared by the session operations.
type instrumentation struct {
	obs observability.Observability
	log observability.Logger

	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

func newInstrumentation(obs observability.Observability) instrumentation {
	if obs == nil {
		obs = observability.Nop()
	}
	metrics := obs.Metrics()
	return instrumentation{
		obs:          obs,
		log:          obs.Logger().With(observability.F("service", checkoutService)),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
}

// start opens the use case span and returns the completion hook that records the span
// status, RED metrics and the use_case_done log line.
func (in instrumentation) start(ctx context.Context, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, observability.Logger, func(err error, extra ...observability.Field)) {
	logger := logctx.FromOr(ctx, in.log).With(observability.F("use_case", useCase))
	attrs = append(attrs, attribute.String("use_case", useCase))
	ctx, span := in.obs.Tracer().Start(ctx, spanPrefix+spanName, attrs...)
	begin := time.Now()

	return ctx, logger, func(err error, extra ...observability.Field) {
		lat := time.Since(begin).Seconds()
		outcome, statusText := "success", "OK"
		if err != nil {
			outcome, statusText = "error", string(pkgerrors.CodeOf(err))
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, statusText)
		} else {
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()

		in.reqCounter.Add(1,
			observability.L("use_case", useCase),
			observability.L("outcome", outcome),
		)
		in.durHistogram.Observe(lat,
			observability.L("use_case", useCase),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		fields = append(fields, extra...)
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}
}

// publish hands an event to the outbox with a bounded wait and records it as an
// external call. A failure is returned for logging only; the caller's result stands.
func (in instrumentation) publish(ctx context.Context, publisher domoutbox.Publisher, e domoutbox.Event) error {
	if publisher == nil {
		return nil
	}
	endpoint := e.EventName()
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	pubStart := time.Now()
	pubOutcome := "success"
	err := publisher.Publish(pubCtx, e)
	if err != nil {
		pubOutcome = "error"
		if pubCtx.Err() != nil {
			pubOutcome = "canceled"
		}
	}

	in.extCounter.Add(1,
		observability.L("peer", publishPeer),
		observability.L("endpoint", endpoint),
		observability.L("outcome", pubOutcome),
	)
	in.extHistogram.Observe(time.Since(pubStart).Seconds(),
		observability.L("peer", publishPeer),
		observability.L("endpoint", endpoint),
	)
	return err
}
