package browser

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wayfarer-dev/wayfarer/pkg/route"
)

const tracerName = "wayfarer"

// tracer wraps the global OpenTelemetry tracer for navigation spans.
// Configure the provider in main() with otel.SetTracerProvider; the
// default no-op provider makes tracing free when unset.
type tracer struct {
	t trace.Tracer
}

func newTracer() *tracer {
	return &tracer{t: otel.Tracer(tracerName)}
}

// navSpan is one navigation operation's span.
type navSpan struct {
	span trace.Span
}

// start opens a span named after the operation, tagged with the action
// being navigated to.
func (tr *tracer) start(ctx context.Context, op string, a route.Action) (context.Context, navSpan) {
	ctx, span := tr.t.Start(ctx, "wayfarer."+op,
		trace.WithAttributes(
			attribute.String("wayfarer.op", op),
			attribute.String("wayfarer.action_type", a.Type),
		),
	)
	return ctx, navSpan{span: span}
}

// fail records err on the span and returns it unchanged, so callers
// can write `return span.fail(err)`.
func (s navSpan) fail(err error) error {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s navSpan) End() {
	s.span.End()
}
