package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/captionworks/yt-transcripts/internal/errors"
	"github.com/captionworks/yt-transcripts/internal/model"
	"github.com/captionworks/yt-transcripts/internal/service/transcript"
)

const (
	defaultBaseURL   = "https://www.youtube.com"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	playerResponseMarker = "var ytInitialPlayerResponse = "

	// Watch pages run a couple of MB; anything near this cap is not a
	// real watch page
	maxWatchPageBytes = 10 << 20
)

// Client fetches time-coded captions from YouTube watch pages. It
// implements the transcript provider contract.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a caption client. proxyURL optionally routes all
// requests through an HTTP proxy; empty means direct.
func NewClient(proxyURL string) (*Client, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInvalidArg, "invalid proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
	}, nil
}

// NewClientWithHTTP creates a client with a custom HTTP client and base URL (for testing)
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  defaultUserAgent,
	}
}

// playerResponse is the slice of YouTube's embedded player JSON we care about
type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// captionTrack describes one available caption track
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" marks auto-generated tracks
}

// Fetch retrieves the caption track best matching the preferred languages
func (c *Client) Fetch(ctx context.Context, videoID string, languages []string) (*model.Transcript, error) {
	page, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	player, err := extractPlayerResponse(page)
	if err != nil {
		return nil, err
	}

	switch player.PlayabilityStatus.Status {
	case "", "OK":
	default:
		msg := "video is unavailable"
		if reason := player.PlayabilityStatus.Reason; reason != "" {
			msg = fmt.Sprintf("video is unavailable: %s", reason)
		}
		return nil, &transcript.ProviderError{
			Reason:  transcript.ReasonUnavailable,
			VideoID: videoID,
			Msg:     msg,
		}
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, &transcript.ProviderError{
			Reason:  transcript.ReasonDisabled,
			VideoID: videoID,
			Msg:     "captions are disabled for this video",
		}
	}

	track, ok := selectTrack(tracks, languages)
	if !ok {
		return nil, &transcript.ProviderError{
			Reason:  transcript.ReasonNotFound,
			VideoID: videoID,
			Msg:     fmt.Sprintf("no caption track for languages %v", languages),
		}
	}

	segments, err := c.fetchTrack(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}

	return &model.Transcript{
		Language: track.LanguageCode,
		Segments: segments,
	}, nil
}

// fetchWatchPage downloads the watch page HTML for a video
func (c *Client) fetchWatchPage(ctx context.Context, videoID string) (string, error) {
	reqURL := fmt.Sprintf("%s/watch?v=%s", c.baseURL, url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &transcript.ProviderError{
			Reason:  transcript.ReasonRateLimited,
			VideoID: videoID,
			Msg:     "YouTube returned HTTP 429",
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWatchPageBytes))
	if err != nil {
		return "", err
	}

	page := string(body)
	if strings.Contains(page, `class="g-recaptcha"`) {
		return "", &transcript.ProviderError{
			Reason:  transcript.ReasonRateLimited,
			VideoID: videoID,
			Msg:     "YouTube is asking for a captcha",
		}
	}

	return page, nil
}

// extractPlayerResponse decodes the player JSON embedded in the watch
// page. The decoder stops at the end of the JSON value, so the trailing
// script text does not matter.
func extractPlayerResponse(page string) (*playerResponse, error) {
	idx := strings.Index(page, playerResponseMarker)
	if idx < 0 {
		return nil, errors.New("player response not found in watch page")
	}

	var player playerResponse
	dec := json.NewDecoder(strings.NewReader(page[idx+len(playerResponseMarker):]))
	if err := dec.Decode(&player); err != nil {
		return nil, fmt.Errorf("failed to decode player response: %w", err)
	}

	return &player, nil
}

// selectTrack picks the first preferred language that has a track,
// favoring manual tracks over auto-generated ones within each language
func selectTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	for _, lang := range languages {
		var asr *captionTrack
		for i, track := range tracks {
			if !strings.EqualFold(track.LanguageCode, lang) {
				continue
			}
			if track.Kind != "asr" {
				return track, true
			}
			if asr == nil {
				asr = &tracks[i]
			}
		}
		if asr != nil {
			return *asr, true
		}
	}
	return captionTrack{}, false
}

// fetchTrack downloads a caption track in json3 format
func (c *Client) fetchTrack(ctx context.Context, baseURL string) ([]model.Segment, error) {
	trackURL := baseURL + "?fmt=json3"
	if strings.Contains(baseURL, "?") {
		trackURL = baseURL + "&fmt=json3"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption track status %d", resp.StatusCode)
	}

	return decodeJSON3(resp.Body)
}
