package model

import (
	"strings"
	"time"
)

// FetchStatus is the terminal outcome of a transcript fetch for one video.
// Values are stored as-is in youtube_transcripts.fetch_status.
type FetchStatus string

const (
	StatusSuccess     FetchStatus = "success"
	StatusDisabled    FetchStatus = "disabled"
	StatusNotFound    FetchStatus = "not_found"
	StatusUnavailable FetchStatus = "unavailable"
	StatusRateLimited FetchStatus = "rate_limited"
	StatusError       FetchStatus = "error"
)

// AllStatuses lists every FetchStatus in display order.
var AllStatuses = []FetchStatus{
	StatusSuccess,
	StatusDisabled,
	StatusNotFound,
	StatusUnavailable,
	StatusRateLimited,
	StatusError,
}

// Valid reports whether s is one of the known fetch statuses.
func (s FetchStatus) Valid() bool {
	switch s {
	case StatusSuccess, StatusDisabled, StatusNotFound, StatusUnavailable, StatusRateLimited, StatusError:
		return true
	}
	return false
}

// Permanent reports whether s is a structural outcome that will not change
// on retry. Permanent outcomes are never re-attempted by the fetch engine.
func (s FetchStatus) Permanent() bool {
	switch s {
	case StatusDisabled, StatusNotFound, StatusUnavailable:
		return true
	}
	return false
}

// Segment is one timed unit of caption text
type Segment struct {
	Start    float64 `json:"start" db:"start"`       // offset from video start in seconds
	Duration float64 `json:"duration" db:"duration"` // duration in seconds
	Text     string  `json:"text" db:"text"`
}

// Transcript is the caption track returned by a provider: the language
// actually obtained plus the ordered timed segments
type Transcript struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// PlainText flattens the transcript segments into a single plain-text string
func (t *Transcript) PlainText() string {
	return SegmentsText(t.Segments)
}

// SegmentsText joins segment texts with single spaces and trims the result
func SegmentsText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// FetchResult is the outcome of one fetch-engine call for one video.
// Language, Segments and ErrorMessage are zero-valued when not applicable
// and persist as NULL.
type FetchResult struct {
	VideoID      string      `json:"video_id"`
	Status       FetchStatus `json:"status"`
	Language     string      `json:"language"`
	Segments     []Segment   `json:"segments"`
	ErrorMessage string      `json:"error_message"`
}

// TranscriptRecord represents a stored row of youtube_transcripts
type TranscriptRecord struct {
	VideoID        string      `json:"video_id" db:"video_id"`
	Language       *string     `json:"language" db:"language"`
	TranscriptText *string     `json:"transcript_text" db:"transcript_text"`
	TranscriptJSON []Segment   `json:"transcript_json" db:"transcript_json"`
	FetchStatus    FetchStatus `json:"fetch_status" db:"fetch_status"`
	ErrorMessage   *string     `json:"error_message" db:"error_message"`
	FetchAttempts  int         `json:"fetch_attempts" db:"fetch_attempts"`
	FetchedAt      time.Time   `json:"fetched_at" db:"fetched_at"`
}
