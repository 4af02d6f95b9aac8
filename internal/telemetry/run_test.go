package telemetry

import (
	"context"
	"errors"
	"testing"
)

func TestRunSpanNoop(t *testing.T) {
	span := StartRun(context.Background(), nil, "stack", 42)
	if span.Recording() {
		t.Error("Recording() = true for noop tracer, expected false")
	}
	span.Placed("perfect", 1, 1, 0)
	span.End(1, 1, 60, errors.New("journal unavailable"))

	var nilSpan *RunSpan
	nilSpan.Placed("missed", 0, 0, 4)
	nilSpan.End(0, 0, 0, nil)
	if nilSpan.Recording() {
		t.Error("Recording() = true for nil span, expected false")
	}
}

func TestTracerDefaultsToGlobalProvider(t *testing.T) {
	if Tracer("play") == nil {
		t.Error("Tracer() = nil")
	}
	if NoopTracer() == nil {
		t.Error("NoopTracer() = nil")
	}
}
