//go:build integration

package transcript

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/captionworks/yt-transcripts/internal/model"
	"github.com/captionworks/yt-transcripts/internal/repository"
	"github.com/captionworks/yt-transcripts/internal/repository/common"
)

// scriptedProvider returns canned outcomes per video ID
type scriptedProvider struct {
	outcomes map[string]func() (*model.Transcript, error)
}

func (p *scriptedProvider) Fetch(ctx context.Context, videoID string, languages []string) (*model.Transcript, error) {
	if f, ok := p.outcomes[videoID]; ok {
		return f()
	}
	return nil, errors.New("no outcome scripted for video " + videoID)
}

func TestWorker_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Start PostgreSQL container
	ctx := context.Background()
	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("transcripts_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("Failed to terminate container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dbPool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer dbPool.Close()

	// Run migrations
	err = common.RunMigrations(connStr)
	require.NoError(t, err)

	// Seed the catalog the collector normally fills
	for _, id := range []string{"vid-1", "vid-2"} {
		_, err := dbPool.Exec(ctx,
			"INSERT INTO youtube_videos (video_id, title) VALUES ($1, $2)", id, "Video "+id)
		require.NoError(t, err)
	}

	videoRepo := repository.NewVideoRepository(dbPool)
	transcriptRepo := repository.NewTranscriptRepository(dbPool)

	provider := &scriptedProvider{outcomes: map[string]func() (*model.Transcript, error){
		"vid-1": func() (*model.Transcript, error) {
			return &model.Transcript{Language: "en", Segments: []model.Segment{
				{Start: 0, Duration: 2, Text: "hello"},
				{Start: 2, Duration: 2, Text: "world"},
			}}, nil
		},
		"vid-2": func() (*model.Transcript, error) {
			return nil, errors.New("connection reset by peer")
		},
	}}

	noSleep := func(time.Duration) {}
	eng := NewEngineWithSleep(provider, []string{"en"}, 2, time.Millisecond, time.Millisecond, noSleep)
	sel := NewSelector(videoRepo, transcriptRepo, 3)
	w := NewWorker(sel, eng, transcriptRepo, 10)

	// First run: one success, one transient failure
	stats, err := w.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total())
	assert.Equal(t, 1, stats.Count(model.StatusSuccess))
	assert.Equal(t, 1, stats.Count(model.StatusError))

	record, err := transcriptRepo.GetByVideoID(ctx, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, record.FetchStatus)
	require.NotNil(t, record.TranscriptText)
	assert.Equal(t, "hello world", *record.TranscriptText)
	assert.Nil(t, record.ErrorMessage)
	assert.Equal(t, 1, record.FetchAttempts)

	record, err = transcriptRepo.GetByVideoID(ctx, "vid-2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, record.FetchStatus)
	assert.Nil(t, record.TranscriptText)
	require.NotNil(t, record.ErrorMessage)
	assert.Contains(t, *record.ErrorMessage, "connection reset")
	assert.Equal(t, 1, record.FetchAttempts)

	// Second run: only the failed video is retried, and now succeeds
	provider.outcomes["vid-2"] = func() (*model.Transcript, error) {
		return &model.Transcript{Language: "ja", Segments: []model.Segment{
			{Start: 0, Duration: 1.5, Text: "こんにちは"},
		}}, nil
	}

	stats, err = w.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total())
	assert.Equal(t, 1, stats.Count(model.StatusSuccess))

	record, err = transcriptRepo.GetByVideoID(ctx, "vid-2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, record.FetchStatus)
	require.NotNil(t, record.TranscriptText)
	assert.Equal(t, "こんにちは", *record.TranscriptText)
	assert.Nil(t, record.ErrorMessage)
	assert.Equal(t, 2, record.FetchAttempts)

	// Third run: nothing left to do
	stats, err = w.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total())
}
