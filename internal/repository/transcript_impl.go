package repository

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "github.com/captionworks/yt-transcripts/internal/errors"
	"github.com/captionworks/yt-transcripts/internal/model"
	"github.com/jackc/pgx/v5"
)

// transcriptRepository implements TranscriptRepository using PostgreSQL
type transcriptRepository struct {
	pool Pool
}

// NewTranscriptRepository creates a new instance of TranscriptRepository
func NewTranscriptRepository(pool Pool) TranscriptRepository {
	return &transcriptRepository{
		pool: pool,
	}
}

// Upsert persists a fetch result in a single statement. COALESCE keeps
// previously stored caption data when a later attempt failed, and the
// attempt counter only ever grows.
func (r *transcriptRepository) Upsert(ctx context.Context, result *model.FetchResult, attemptCount int) error {
	sql := `
		INSERT INTO youtube_transcripts
			(video_id, language, transcript_text, transcript_json, fetch_status, error_message, fetch_attempts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (video_id) DO UPDATE SET
			language = EXCLUDED.language,
			transcript_text = COALESCE(EXCLUDED.transcript_text, youtube_transcripts.transcript_text),
			transcript_json = COALESCE(EXCLUDED.transcript_json, youtube_transcripts.transcript_json),
			fetch_status = EXCLUDED.fetch_status,
			error_message = EXCLUDED.error_message,
			fetch_attempts = youtube_transcripts.fetch_attempts + 1,
			fetched_at = NOW()`

	// Untyped nils become SQL NULLs so the COALESCE merge sees absence,
	// not empty strings or empty JSON arrays.
	var language, text, segments, errorMessage any
	if result.Language != "" {
		language = result.Language
	}
	if len(result.Segments) > 0 {
		text = model.SegmentsText(result.Segments)
		segments = result.Segments
	}
	if result.ErrorMessage != "" {
		errorMessage = result.ErrorMessage
	}

	_, err := r.pool.Exec(ctx, sql,
		result.VideoID, language, text, segments, string(result.Status), errorMessage, attemptCount)
	if err != nil {
		return handlePostgreSQLError(err, "failed to upsert transcript")
	}

	return nil
}

// ListRetryable retrieves IDs of failed fetches still worth another attempt
func (r *transcriptRepository) ListRetryable(ctx context.Context, limit, maxAttempts int) ([]string, error) {
	sql := `
		SELECT video_id
		FROM youtube_transcripts
		WHERE transcript_text IS NULL
		  AND fetch_status NOT IN ('disabled', 'unavailable')
		  AND fetch_attempts < $1
		ORDER BY fetched_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, sql, maxAttempts, limit)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list retryable transcripts")
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
		return nil, handlePostgreSQLError(err, "failed to iterate retryable transcripts")
	}

	return videoIDs, nil
}

// GetByVideoID retrieves the transcript record for a single video
func (r *transcriptRepository) GetByVideoID(ctx context.Context, videoID string) (*model.TranscriptRecord, error) {
	sql := `
		SELECT video_id, language, transcript_text, transcript_json,
			fetch_status, error_message, fetch_attempts, fetched_at
		FROM youtube_transcripts
		WHERE video_id = $1`

	var (
		record  model.TranscriptRecord
		status  string
		rawJSON []byte
	)
	err := r.pool.QueryRow(ctx, sql, videoID).Scan(
		&record.VideoID, &record.Language, &record.TranscriptText, &rawJSON,
		&status, &record.ErrorMessage, &record.FetchAttempts, &record.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "transcript not found")
		}
		return nil, handlePostgreSQLError(err, "failed to get transcript")
	}

	record.FetchStatus = model.FetchStatus(status)
	if len(rawJSON) > 0 {
		if err := json.Unmarshal(rawJSON, &record.TranscriptJSON); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to decode stored segments")
		}
	}

	return &record, nil
}

// CountByStatus returns the number of transcript records per fetch status
func (r *transcriptRepository) CountByStatus(ctx context.Context) (map[model.FetchStatus]int64, error) {
	sql := `
		SELECT fetch_status, COUNT(*)
		FROM youtube_transcripts
		GROUP BY fetch_status`

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to count transcripts by status")
	}
	defer rows.Close()

	counts := make(map[model.FetchStatus]int64)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan status count")
		}
		counts[model.FetchStatus(status)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgreSQLError(err, "failed to iterate status counts")
	}

	return counts, nil
}
