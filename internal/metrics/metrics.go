package metrics

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	// FetchTotal counts terminal fetch outcomes by status
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yt_transcripts_fetch_total",
		Help: "Transcript fetch outcomes by terminal status.",
	}, []string{"status"})

	// FetchRetries counts backoff retries inside the fetch loop
	FetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yt_transcripts_fetch_retries_total",
		Help: "Backoff retries performed while fetching transcripts.",
	})

	// RunDuration records the wall clock duration of the last run
	RunDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yt_transcripts_last_run_duration_seconds",
		Help: "Duration of the most recent transcript run.",
	})

	// RunItems records how many videos the last run processed
	RunItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yt_transcripts_last_run_items",
		Help: "Number of videos processed in the most recent run.",
	})
)

// Push delivers current metric values to a Pushgateway. A push failure is
// logged and swallowed; the run's database effects are already durable.
func Push(url string) {
	if url == "" {
		return
	}
	if err := push.New(url, "yt_transcripts").Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		slog.Warn("failed to push metrics", "error", err)
	}
}
