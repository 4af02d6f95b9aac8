package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RunSpan traces one run from its first tick to game over.
type RunSpan struct {
	span trace.Span
}

// StartRun opens a "stack.run" span.
func StartRun(ctx context.Context, tracer trace.Tracer, gameID string, seed int64) *RunSpan {
	if tracer == nil {
		tracer = NoopTracer()
	}
	_, span := tracer.Start(ctx, "stack.run",
		trace.WithAttributes(
			attribute.String("game.id", gameID),
			attribute.Int64("game.seed", seed),
		),
	)
	return &RunSpan{span: span}
}

// Placed records a placement event.
func (r *RunSpan) Placed(outcome string, score, combo int, delta float64) {
	if r == nil {
		return
	}
	r.span.AddEvent("placement", trace.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.Int("score", score),
		attribute.Int("combo", combo),
		attribute.Float64("delta", delta),
	))
}

// End closes the span with the final result. runErr, if set, marks the
// span failed (for example a journal write error).
func (r *RunSpan) End(score, maxCombo, ticks int, runErr error) {
	if r == nil {
		return
	}
	r.span.SetAttributes(
		attribute.Int("run.score", score),
		attribute.Int("run.max_combo", maxCombo),
		attribute.Int("run.ticks", ticks),
	)
	if runErr != nil {
		r.span.RecordError(runErr)
		r.span.SetStatus(codes.Error, runErr.Error())
	}
	r.span.End()
}

// Recording reports whether the span is sampled and exported.
func (r *RunSpan) Recording() bool {
	return r != nil && r.span.IsRecording()
}
