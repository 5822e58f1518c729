package workerpresentation

import (
	"context"

	domoutbox "github.com/Zhima-Mochi/pos-checkout/internal/domain/outbox"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability/logctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// WithEventContext injects an event-scoped logger for background/worker executions.
// Dynamic fields only: trace_id/span_id (if valid), event_id (generated if empty),
// plus caller-provided low-cardinality attributes (e.g. "event", "register_id").
func WithEventContext(
	ctx context.Context,
	base observability.Logger,
	obs observability.Observability,
	traceID trace.TraceID,
	spanID trace.SpanID,
	attrs map[string]string,
) context.Context {
	if base == nil && obs != nil {
		base = obs.Logger()
	}
	if base == nil {
		base = observability.NopLogger()
	}

	fields := make([]observability.Field, 0, len(attrs)+3)

	evtID := attrs["event_id"]
	if evtID == "" {
		evtID = uuid.NewString()
	}
	fields = append(fields, observability.F("event_id", evtID))

	if traceID.IsValid() {
		fields = append(fields, observability.F("trace_id", traceID.String()))
	}
	if spanID.IsValid() {
		fields = append(fields, observability.F("span_id", spanID.String()))
	}

	for k, v := range attrs {
		if k == "event_id" || v == "" {
			continue
		}
		fields = append(fields, observability.F(k, v))
	}

	return logctx.With(ctx, base.With(fields...))
}

// subscriber decorates every handler it registers with an event-scoped logger.
type subscriber struct {
	inner domoutbox.Subscriber
	base  observability.Logger
	obs   observability.Observability
}

// NewSubscriber wraps inner so handlers find a logger carrying event_id and the
// event name in their context.
func NewSubscriber(inner domoutbox.Subscriber, base observability.Logger, obs observability.Observability) domoutbox.Subscriber {
	return &subscriber{inner: inner, base: base, obs: obs}
}

func (s *subscriber) Subscribe(eventName string, h domoutbox.Handler) {
	s.inner.Subscribe(eventName, func(ctx context.Context, e domoutbox.Event) error {
		sc := trace.SpanContextFromContext(ctx)
		attrs := map[string]string{"event": e.EventName()}
		if keyed, ok := e.(interface{ EventKey() string }); ok {
			attrs["event_id"] = keyed.EventKey()
		}
		ctx = WithEventContext(ctx, s.base, s.obs, sc.TraceID(), sc.SpanID(), attrs)
		return h(ctx, e)
	})
}
