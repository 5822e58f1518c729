package oteltrace

import (
	"context"

	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultName is the instrumentation scope used when none is given.
const DefaultName = "pos-checkout"

type tracer struct{ t trace.Tracer }

// New returns a tracer from the global provider. Without an SDK provider registered
// via otel.SetTracerProvider the spans are non-recording.
func New(name string) observability.Tracer {
	if name == "" {
		name = DefaultName
	}
	return &tracer{t: otel.Tracer(name)}
}

// NewFromProvider binds the tracer to an explicit provider.
func NewFromProvider(tp trace.TracerProvider, name string) observability.Tracer {
	if name == "" {
		name = DefaultName
	}
	return &tracer{t: tp.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
