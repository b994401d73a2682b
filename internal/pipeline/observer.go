// Package pipeline holds the shared observer contract for the background
// maintenance jobs (sentence material manager, future enrichment jobs),
// mirroring kairos's internal/service.UseCaseObserver: one event type per
// phase, a no-op default, and a plain io.Writer logger toggled by an env
// var rather than a logging dependency.
package pipeline

import (
	"fmt"
	"io"
	"time"
)

// PhaseEvent records one completed stage of a periodic pipeline run.
type PhaseEvent struct {
	Phase      string
	DurationMs int64
	ItemCount  int
}

// ItemSkippedEvent records one item a pipeline stage failed to process and
// skipped rather than aborting the run (spec §7: "errors inside the
// periodic pipeline are logged and skipped per-item").
type ItemSkippedEvent struct {
	Phase  string
	ItemID string
	Reason string
}

// Observer receives pipeline lifecycle events for logging and metrics.
type Observer interface {
	OnPhaseComplete(event PhaseEvent)
	OnItemSkipped(event ItemSkippedEvent)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnPhaseComplete(PhaseEvent)     {}
func (NoopObserver) OnItemSkipped(ItemSkippedEvent) {}

// LogObserver writes pipeline events to w as plain lines, enabled by
// ALIF_LOG_PIPELINE=1, exactly as kairos's service.UseCaseObserver gates on
// an env var rather than a structured logging library.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver builds an Observer that logs to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnPhaseComplete(event PhaseEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	fmt.Fprintf(o.w, "[%s] pipeline_phase phase=%s items=%d duration_ms=%d\n",
		ts, event.Phase, event.ItemCount, event.DurationMs)
}

func (o *LogObserver) OnItemSkipped(event ItemSkippedEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	fmt.Fprintf(o.w, "[%s] pipeline_item_skipped phase=%s item=%s reason=%s\n",
		ts, event.Phase, event.ItemID, event.Reason)
}
