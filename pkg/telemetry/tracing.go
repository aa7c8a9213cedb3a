package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/groupkit/pkg/group"
)

const defaultTracerName = "groupkit"

// TraceConfig configures the group tracer.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "groupkit").
	TracerName string

	// Provider is the tracer provider. Default: the global provider.
	Provider trace.TracerProvider
}

// TraceOption configures the group tracer.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TraceOption {
	return func(c *TraceConfig) {
		c.Provider = tp
	}
}

// Tracer starts one span per group operation.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer resolves a tracer from the configured provider.
// Configure the global provider in main() before serving:
//
//	otel.SetTracerProvider(tp)
func NewTracer(opts ...TraceOption) *Tracer {
	config := TraceConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracer{tracer: config.Provider.Tracer(config.TracerName)}
}

// Trace runs fn inside a span named "groupkit.<op>" and records its outcome.
func (t *Tracer) Trace(ctx context.Context, groupName string, op group.Op, fn func(context.Context) (group.Outcome, error)) (group.Outcome, error) {
	spanCtx, span := t.tracer.Start(ctx, "groupkit."+string(op),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("groupkit.group", groupName),
			attribute.String("groupkit.op", string(op)),
		),
	)
	defer span.End()

	outcome, err := fn(spanCtx)

	span.SetAttributes(attribute.String("groupkit.outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return outcome, err
}
