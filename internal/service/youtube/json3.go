package youtube

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/captionworks/yt-transcripts/internal/model"
)

// json3Root mirrors YouTube's json3 caption wire format
type json3Root struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	TStartMs    int64      `json:"tStartMs"`
	DDurationMs int64      `json:"dDurationMs"`
	Segs        []json3Seg `json:"segs,omitempty"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// decodeJSON3 converts a json3 stream into caption segments. Events
// without text (window styling, bare newlines) are dropped.
func decodeJSON3(r io.Reader) ([]model.Segment, error) {
	var root json3Root
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to decode json3 captions: %w", err)
	}

	var segments []model.Segment
	for _, event := range root.Events {
		text := eventText(event)
		if text == "" {
			continue
		}
		segments = append(segments, model.Segment{
			Start:    float64(event.TStartMs) / 1000,
			Duration: float64(event.DDurationMs) / 1000,
			Text:     text,
		})
	}

	return segments, nil
}

// eventText joins an event's seg runs into one string
func eventText(event json3Event) string {
	var b strings.Builder
	for _, seg := range event.Segs {
		b.WriteString(seg.UTF8)
	}
	return strings.TrimSpace(b.String())
}
