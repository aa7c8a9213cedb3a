package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/groupkit/pkg/group"
)

func TestTracerRunsFunction(t *testing.T) {
	tracer := NewTracer(WithTracerName("test"), WithTracerProvider(noop.NewTracerProvider()))

	var sawSpan bool
	outcome, err := tracer.Trace(context.Background(), "tabs", group.OpToggle,
		func(ctx context.Context) (group.Outcome, error) {
			sawSpan = trace.SpanFromContext(ctx) != nil
			return group.OutcomeApplied, nil
		})

	if err != nil || outcome != group.OutcomeApplied {
		t.Fatalf("Trace = %v, %v", outcome, err)
	}
	if !sawSpan {
		t.Error("fn should receive a span context")
	}
}

func TestTracerPropagatesError(t *testing.T) {
	tracer := NewTracer()
	boom := errors.New("boom")

	_, err := tracer.Trace(context.Background(), "tabs", group.OpNext,
		func(context.Context) (group.Outcome, error) {
			return group.OutcomeRefused, boom
		})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}
