package transcript

import (
	"context"
	"fmt"

	"github.com/captionworks/yt-transcripts/internal/model"
)

// FailReason classifies provider failures so the engine can decide
// between giving up and retrying
type FailReason string

const (
	ReasonDisabled    FailReason = "disabled"     // captions turned off by the uploader
	ReasonNotFound    FailReason = "not_found"    // no track in any requested language
	ReasonUnavailable FailReason = "unavailable"  // video removed, private or blocked
	ReasonRateLimited FailReason = "rate_limited" // YouTube is throttling us
)

// Provider fetches time-coded captions for a single video
type Provider interface {
	Fetch(ctx context.Context, videoID string, languages []string) (*model.Transcript, error)
}

// ProviderError is a classified fetch failure. The engine matches on
// Reason via errors.As, never on the provider's concrete error types.
type ProviderError struct {
	Reason  FailReason
	VideoID string
	Msg     string
	Err     error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Reason)
	}
	if e.VideoID != "" {
		msg = fmt.Sprintf("%s (video %s)", msg, e.VideoID)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *ProviderError) Unwrap() error {
	return e.Err
}
