package transcript

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/captionworks/yt-transcripts/internal/metrics"
	"github.com/captionworks/yt-transcripts/internal/model"
)

// Engine fetches one video's captions with bounded retries. It never
// returns an error: every outcome is encoded as a FetchResult status so
// the caller can persist it.
type Engine interface {
	FetchOne(ctx context.Context, videoID string) *model.FetchResult
}

// engine implements Engine
type engine struct {
	provider   Provider
	languages  []string
	maxRetries int
	retryDelay time.Duration
	pause      time.Duration
	sleep      func(time.Duration)
}

// NewEngine creates an engine with the default blocking sleep.
// pause is the pacing delay after each successful fetch; retryDelay is
// the base backoff, doubled on every extra attempt.
func NewEngine(provider Provider, languages []string, maxRetries int, retryDelay, pause time.Duration) Engine {
	return NewEngineWithSleep(provider, languages, maxRetries, retryDelay, pause, time.Sleep)
}

// NewEngineWithSleep creates an engine with a custom sleep function (for testing)
func NewEngineWithSleep(provider Provider, languages []string, maxRetries int, retryDelay, pause time.Duration, sleep func(time.Duration)) Engine {
	return &engine{
		provider:   provider,
		languages:  languages,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		pause:      pause,
		sleep:      sleep,
	}
}

// FetchOne runs the bounded fetch loop for a single video
func (e *engine) FetchOne(ctx context.Context, videoID string) *model.FetchResult {
	fail := func(status model.FetchStatus, err error) *model.FetchResult {
		return &model.FetchResult{
			VideoID:      videoID,
			Status:       status,
			ErrorMessage: err.Error(),
		}
	}

	for attempt := 0; attempt < e.maxRetries; attempt++ {
		transcript, err := e.provider.Fetch(ctx, videoID, e.languages)
		if err == nil {
			e.sleep(e.pause)
			return &model.FetchResult{
				VideoID:  videoID,
				Status:   model.StatusSuccess,
				Language: transcript.Language,
				Segments: transcript.Segments,
			}
		}

		var provErr *ProviderError
		if errors.As(err, &provErr) {
			switch provErr.Reason {
			case ReasonDisabled:
				return fail(model.StatusDisabled, err)
			case ReasonNotFound:
				return fail(model.StatusNotFound, err)
			case ReasonUnavailable:
				return fail(model.StatusUnavailable, err)
			case ReasonRateLimited:
				if attempt < e.maxRetries-1 {
					e.backoff(videoID, attempt, "rate limited")
					continue
				}
				return fail(model.StatusRateLimited, err)
			}
		}

		// Anything unclassified gets the same retry treatment as throttling
		if attempt < e.maxRetries-1 {
			e.backoff(videoID, attempt, err.Error())
			continue
		}
		return fail(model.StatusError, err)
	}

	return &model.FetchResult{
		VideoID:      videoID,
		Status:       model.StatusError,
		ErrorMessage: "Unknown error after retries",
	}
}

// backoff waits retryDelay * 2^attempt before the next try
func (e *engine) backoff(videoID string, attempt int, cause string) {
	wait := e.retryDelay * time.Duration(1<<attempt)
	slog.Warn("transcript fetch failed, retrying",
		"video_id", videoID,
		"attempt", attempt+1,
		"wait", wait,
		"cause", cause,
	)
	metrics.FetchRetries.Inc()
	e.sleep(wait)
}
