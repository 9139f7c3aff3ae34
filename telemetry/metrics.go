// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	PollCycles    prometheus.Counter
	FetchFailures prometheus.Counter
	MessagesSent  prometheus.Counter
	MessageEdits  prometheus.Counter
	EditFailures  prometheus.Counter
	OverlayFrames prometheus.Counter

	// Histograms (seconds)
	FetchDuration prometheus.Observer

	// Gauges
	ActiveTrackersGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		PollCycles = promauto.NewCounter(prometheus.CounterOpts{Name: "tracker_poll_cycles_total", Help: "Number of tracking poll cycles executed"})
		FetchFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "tracker_fetch_failures_total", Help: "Number of status fetches that failed or returned success=false"})
		MessagesSent = promauto.NewCounter(prometheus.CounterOpts{Name: "tracker_messages_sent_total", Help: "Number of new status messages sent"})
		MessageEdits = promauto.NewCounter(prometheus.CounterOpts{Name: "tracker_message_edits_total", Help: "Number of status message edits applied"})
		EditFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "tracker_edit_failures_total", Help: "Number of message edits that failed transiently"})
		OverlayFrames = promauto.NewCounter(prometheus.CounterOpts{Name: "tracker_overlay_frames_total", Help: "Number of animation overlay frames rendered"})
		FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "tracker_fetch_duration_seconds", Help: "Train status fetch duration seconds", Buckets: prometheus.DefBuckets})
		ActiveTrackersGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "tracker_active_chats", Help: "Number of chats with an active tracking task"})
	})
}

// SetActiveTrackers records the current number of active tracking tasks.
func SetActiveTrackers(n int) {
	if ActiveTrackersGauge != nil {
		ActiveTrackersGauge.Set(float64(n))
	}
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns the correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with a corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
