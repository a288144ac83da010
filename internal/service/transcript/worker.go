package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/captionworks/yt-transcripts/internal/metrics"
	"github.com/captionworks/yt-transcripts/internal/model"
)

// RunStats tracks fetch outcomes for a single run
type RunStats struct {
	counts map[model.FetchStatus]int
}

// NewRunStats creates an empty stats accumulator
func NewRunStats() *RunStats {
	return &RunStats{counts: make(map[model.FetchStatus]int)}
}

// Record counts one terminal status
func (s *RunStats) Record(status model.FetchStatus) {
	s.counts[status]++
}

// Count returns how many videos ended in the given status
func (s *RunStats) Count(status model.FetchStatus) int {
	return s.counts[status]
}

// Total returns the number of videos processed
func (s *RunStats) Total() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Worker runs one batch of transcript fetches end to end
type Worker interface {
	Run(ctx context.Context) (*RunStats, error)
}

// worker implements Worker
type worker struct {
	selector       Selector
	engine         Engine
	transcriptRepo TranscriptRepository
	batchLimit     int
}

// NewWorker creates a new worker
func NewWorker(selector Selector, engine Engine, transcriptRepo TranscriptRepository, batchLimit int) Worker {
	return &worker{
		selector:       selector,
		engine:         engine,
		transcriptRepo: transcriptRepo,
		batchLimit:     batchLimit,
	}
}

// Run selects a batch and processes it sequentially. Each video's outcome
// is committed before the next one starts, so an interrupted run loses at
// most the item in flight. A store failure aborts the run; the stats
// accumulated so far are still returned.
func (w *worker) Run(ctx context.Context) (*RunStats, error) {
	runID := uuid.New().String()
	start := time.Now()
	stats := NewRunStats()

	batch, err := w.selector.SelectBatch(ctx, w.batchLimit)
	if err != nil {
		return stats, err
	}
	if len(batch) == 0 {
		slog.Info("no videos need transcripts", "run_id", runID)
		return stats, nil
	}

	slog.Info("starting transcript run", "run_id", runID, "videos", len(batch))

	for i, videoID := range batch {
		slog.Info("fetching transcript",
			"run_id", runID,
			"video_id", videoID,
			"progress", fmt.Sprintf("%d/%d", i+1, len(batch)),
		)

		result := w.engine.FetchOne(ctx, videoID)
		stats.Record(result.Status)
		metrics.FetchTotal.WithLabelValues(string(result.Status)).Inc()

		if err := w.transcriptRepo.Upsert(ctx, result, 1); err != nil {
			slog.Error("failed to store transcript result",
				"run_id", runID,
				"video_id", videoID,
				"error", err,
			)
			return stats, err
		}

		if result.Status == model.StatusSuccess {
			slog.Info("transcript stored",
				"run_id", runID,
				"video_id", videoID,
				"language", result.Language,
				"chars", len(model.SegmentsText(result.Segments)),
			)
		} else {
			slog.Warn("transcript not obtained",
				"run_id", runID,
				"video_id", videoID,
				"status", result.Status,
				"error", result.ErrorMessage,
			)
		}
	}

	duration := time.Since(start)
	metrics.RunDuration.Set(duration.Seconds())
	metrics.RunItems.Set(float64(stats.Total()))

	slog.Info("transcript run finished",
		"run_id", runID,
		"videos", stats.Total(),
		"success", stats.Count(model.StatusSuccess),
		"duration", duration.Round(time.Millisecond),
	)

	return stats, nil
}
