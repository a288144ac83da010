package transcript

import (
	"context"

	"github.com/captionworks/yt-transcripts/internal/model"
)

// VideoRepository interface for reading the video catalog backlog
type VideoRepository interface {
	ListWithoutTranscript(ctx context.Context, limit int) ([]string, error)
}

// TranscriptRepository interface for the transcript store
type TranscriptRepository interface {
	Upsert(ctx context.Context, result *model.FetchResult, attemptCount int) error
	ListRetryable(ctx context.Context, limit, maxAttempts int) ([]string, error)
}

// Selector assembles the batch of video IDs one run will process
type Selector interface {
	SelectBatch(ctx context.Context, limit int) ([]string, error)
}

// selector implements Selector
type selector struct {
	videoRepo      VideoRepository
	transcriptRepo TranscriptRepository
	maxAttempts    int
}

// NewSelector creates a new batch selector
func NewSelector(videoRepo VideoRepository, transcriptRepo TranscriptRepository, maxAttempts int) Selector {
	return &selector{
		videoRepo:      videoRepo,
		transcriptRepo: transcriptRepo,
		maxAttempts:    maxAttempts,
	}
}

// SelectBatch returns up to limit video IDs: never-fetched videos first,
// newest discoveries leading, then failed fetches still under the attempt
// ceiling, oldest attempt first. Recorded permanent failures never
// reappear here.
func (s *selector) SelectBatch(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	pending, err := s.videoRepo.ListWithoutTranscript(ctx, limit)
	if err != nil {
		return nil, err
	}

	batch := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, id := range pending {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		batch = append(batch, id)
	}

	remaining := limit - len(batch)
	if remaining <= 0 {
		return batch, nil
	}

	retryable, err := s.transcriptRepo.ListRetryable(ctx, remaining, s.maxAttempts)
	if err != nil {
		return nil, err
	}
	for _, id := range retryable {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		batch = append(batch, id)
	}

	return batch, nil
}
