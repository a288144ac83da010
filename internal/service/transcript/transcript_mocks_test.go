package transcript

import (
	"context"

	"github.com/captionworks/yt-transcripts/internal/model"
)

// Mock collaborators for testing

// mockProvider mocks Provider
type mockProvider struct {
	FetchFunc func(ctx context.Context, videoID string, languages []string) (*model.Transcript, error)
	calls     int
}

func (m *mockProvider) Fetch(ctx context.Context, videoID string, languages []string) (*model.Transcript, error) {
	m.calls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, videoID, languages)
	}
	return nil, nil
}

// mockVideoRepo mocks VideoRepository
type mockVideoRepo struct {
	ListWithoutTranscriptFunc func(ctx context.Context, limit int) ([]string, error)
}

func (m *mockVideoRepo) ListWithoutTranscript(ctx context.Context, limit int) ([]string, error) {
	if m.ListWithoutTranscriptFunc != nil {
		return m.ListWithoutTranscriptFunc(ctx, limit)
	}
	return nil, nil
}

// mockTranscriptRepo mocks TranscriptRepository
type mockTranscriptRepo struct {
	UpsertFunc        func(ctx context.Context, result *model.FetchResult, attemptCount int) error
	ListRetryableFunc func(ctx context.Context, limit, maxAttempts int) ([]string, error)
}

func (m *mockTranscriptRepo) Upsert(ctx context.Context, result *model.FetchResult, attemptCount int) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, result, attemptCount)
	}
	return nil
}

func (m *mockTranscriptRepo) ListRetryable(ctx context.Context, limit, maxAttempts int) ([]string, error) {
	if m.ListRetryableFunc != nil {
		return m.ListRetryableFunc(ctx, limit, maxAttempts)
	}
	return nil, nil
}

// mockSelector mocks Selector
type mockSelector struct {
	SelectBatchFunc func(ctx context.Context, limit int) ([]string, error)
}

func (m *mockSelector) SelectBatch(ctx context.Context, limit int) ([]string, error) {
	if m.SelectBatchFunc != nil {
		return m.SelectBatchFunc(ctx, limit)
	}
	return nil, nil
}

// mockEngine mocks Engine
type mockEngine struct {
	FetchOneFunc func(ctx context.Context, videoID string) *model.FetchResult
}

func (m *mockEngine) FetchOne(ctx context.Context, videoID string) *model.FetchResult {
	if m.FetchOneFunc != nil {
		return m.FetchOneFunc(ctx, videoID)
	}
	return &model.FetchResult{VideoID: videoID, Status: model.StatusSuccess}
}
