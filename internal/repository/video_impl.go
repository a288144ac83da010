package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pool interface for abstracting pgx connection pool
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// videoRepository implements VideoRepository using PostgreSQL
type videoRepository struct {
	pool Pool
}

// NewVideoRepository creates a new instance of VideoRepository
func NewVideoRepository(pool Pool) VideoRepository {
	return &videoRepository{
		pool: pool,
	}
}

// ListWithoutTranscript retrieves catalog video IDs that have no transcript record
func (r *videoRepository) ListWithoutTranscript(ctx context.Context, limit int) ([]string, error) {
	sql := `
		SELECT v.video_id
		FROM youtube_videos v
		LEFT JOIN youtube_transcripts t ON v.video_id = t.video_id
		WHERE t.video_id IS NULL
		ORDER BY v.scraped_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list videos without transcript")
	}
	defer rows.Close()

	var videoIDs []string
	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan video ID")
		}
		videoIDs = append(videoIDs, videoID)
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgreSQLError(err, "failed to iterate video IDs")
	}

	return videoIDs, nil
}

// CountWithoutTranscript returns the size of the pending backlog
func (r *videoRepository) CountWithoutTranscript(ctx context.Context) (int64, error) {
	sql := `
		SELECT COUNT(*)
		FROM youtube_videos v
		LEFT JOIN youtube_transcripts t ON v.video_id = t.video_id
		WHERE t.video_id IS NULL`

	var count int64
	if err := r.pool.QueryRow(ctx, sql).Scan(&count); err != nil {
		return 0, handlePostgreSQLError(err, "failed to count videos without transcript")
	}

	return count, nil
}
