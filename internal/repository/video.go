package repository

import (
	"context"
)

// VideoRepository defines read access to the video catalog.
// The catalog is populated by the upstream collector; this worker never
// writes to it.
type VideoRepository interface {
	// ListWithoutTranscript returns IDs of catalog videos that have no
	// transcript record yet, most recently discovered first
	ListWithoutTranscript(ctx context.Context, limit int) ([]string, error)

	// CountWithoutTranscript returns the size of the pending backlog
	CountWithoutTranscript(ctx context.Context) (int64, error)
}
