package repository

import (
	"context"

	"github.com/captionworks/yt-transcripts/internal/model"
)

// TranscriptRepository defines the interface for transcript data access
type TranscriptRepository interface {
	// Upsert persists a fetch result, creating the record or merging it
	// into an existing one without ever discarding stored caption data
	Upsert(ctx context.Context, result *model.FetchResult, attemptCount int) error

	// ListRetryable returns IDs of failed fetches eligible for another
	// attempt, oldest attempt first
	ListRetryable(ctx context.Context, limit, maxAttempts int) ([]string, error)

	// GetByVideoID retrieves the transcript record for a single video
	GetByVideoID(ctx context.Context, videoID string) (*model.TranscriptRecord, error)

	// CountByStatus returns the number of transcript records per fetch status
	CountByStatus(ctx context.Context) (map[model.FetchStatus]int64, error)
}
