package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captionworks/yt-transcripts/internal/model"
	"github.com/captionworks/yt-transcripts/internal/service/transcript"
)

// watchPage wraps player JSON in just enough page scaffolding for the marker scan
func watchPage(player string) string {
	return `<!DOCTYPE html><html><body><script>var ytInitialPlayerResponse = ` + player + `;</script></body></html>`
}

func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		switch r.URL.Path {
		case "/watch":
			assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("v"))
			player := fmt.Sprintf(`{
				"playabilityStatus": {"status": "OK"},
				"captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
					{"baseUrl": "http://%s/api/timedtext?v=dQw4w9WgXcQ&lang=en", "languageCode": "en", "kind": ""}
				]}}
			}`, r.Host)
			fmt.Fprint(w, watchPage(player))
		case "/api/timedtext":
			assert.Equal(t, "json3", r.URL.Query().Get("fmt"))
			fmt.Fprint(w, `{"events":[
				{"tStartMs":0,"dDurationMs":100,"segs":[{"utf8":"\n"}]},
				{"tStartMs":0,"dDurationMs":1500,"segs":[{"utf8":"Never gonna "},{"utf8":"give you up"}]},
				{"tStartMs":1500,"dDurationMs":2000,"segs":[{"utf8":"Never gonna let you down"}]}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)

	got, err := client.Fetch(context.Background(), "dQw4w9WgXcQ", []string{"en"})

	require.NoError(t, err)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, []model.Segment{
		{Text: "Never gonna give you up", Start: 0, Duration: 1.5},
		{Text: "Never gonna let you down", Start: 1.5, Duration: 2},
	}, got.Segments)
}

func TestClient_Fetch_CaptionsDisabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage(`{"playabilityStatus": {"status": "OK"}}`))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)

	_, err := client.Fetch(context.Background(), "abc123", []string{"en"})

	var provErr *transcript.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, transcript.ReasonDisabled, provErr.Reason)
	assert.Equal(t, "abc123", provErr.VideoID)
}

func TestClient_Fetch_NoMatchingLanguage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage(`{
			"playabilityStatus": {"status": "OK"},
			"captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
				{"baseUrl": "http://example.invalid/tt", "languageCode": "fr", "kind": ""}
			]}}
		}`))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)

	_, err := client.Fetch(context.Background(), "abc123", []string{"en"})

	var provErr *transcript.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, transcript.ReasonNotFound, provErr.Reason)
	assert.Contains(t, provErr.Error(), "en")
}

func TestClient_Fetch_VideoUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, watchPage(`{"playabilityStatus": {"status": "ERROR", "reason": "This video is private"}}`))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)

	_, err := client.Fetch(context.Background(), "abc123", []string{"en"})

	var provErr *transcript.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, transcript.ReasonUnavailable, provErr.Reason)
	assert.Contains(t, provErr.Error(), "This video is private")
}

func TestClient_Fetch_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)

	_, err := client.Fetch(context.Background(), "abc123", []string{"en"})

	var provErr *transcript.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, transcript.ReasonRateLimited, provErr.Reason)
}

func TestClient_Fetch_CaptchaPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><form><div class="g-recaptcha"></div></form></body></html>`)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)

	_, err := client.Fetch(context.Background(), "abc123", []string{"en"})

	var provErr *transcript.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, transcript.ReasonRateLimited, provErr.Reason)
	assert.Contains(t, provErr.Error(), "captcha")
}

func TestClient_Fetch_MissingPlayerResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing useful here</body></html>`)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)

	_, err := client.Fetch(context.Background(), "abc123", []string{"en"})

	require.Error(t, err)
	// Scrape failures stay unclassified so the engine treats them as transient
	var provErr *transcript.ProviderError
	assert.False(t, errors.As(err, &provErr))
	assert.Contains(t, err.Error(), "player response not found")
}

func TestClient_Fetch_TrackFetchFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			player := fmt.Sprintf(`{
				"playabilityStatus": {"status": "OK"},
				"captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
					{"baseUrl": "http://%s/api/timedtext", "languageCode": "en", "kind": ""}
				]}}
			}`, r.Host)
			fmt.Fprint(w, watchPage(player))
		default:
			http.Error(w, "gone", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)

	_, err := client.Fetch(context.Background(), "abc123", []string{"en"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "caption track status 500")
}

func TestSelectTrack(t *testing.T) {
	manualEN := captionTrack{BaseURL: "http://example.invalid/en", LanguageCode: "en"}
	asrEN := captionTrack{BaseURL: "http://example.invalid/en-asr", LanguageCode: "en", Kind: "asr"}
	manualJA := captionTrack{BaseURL: "http://example.invalid/ja", LanguageCode: "ja"}

	tests := []struct {
		name      string
		tracks    []captionTrack
		languages []string
		want      captionTrack
		wantOK    bool
	}{
		{
			name:      "manual track preferred over auto-generated",
			tracks:    []captionTrack{asrEN, manualEN},
			languages: []string{"en"},
			want:      manualEN,
			wantOK:    true,
		},
		{
			name:      "auto-generated used when no manual track exists",
			tracks:    []captionTrack{asrEN, manualJA},
			languages: []string{"en"},
			want:      asrEN,
			wantOK:    true,
		},
		{
			name:      "language preference order wins over track order",
			tracks:    []captionTrack{manualEN, manualJA},
			languages: []string{"ja", "en"},
			want:      manualJA,
			wantOK:    true,
		},
		{
			name:      "language match is case-insensitive",
			tracks:    []captionTrack{{BaseURL: "http://example.invalid/pt", LanguageCode: "pt-BR"}},
			languages: []string{"pt-br"},
			want:      captionTrack{BaseURL: "http://example.invalid/pt", LanguageCode: "pt-BR"},
			wantOK:    true,
		},
		{
			name:      "no track for any preferred language",
			tracks:    []captionTrack{manualJA},
			languages: []string{"en", "de"},
			wantOK:    false,
		},
		{
			name:      "empty language list matches nothing",
			tracks:    []captionTrack{manualEN},
			languages: nil,
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := selectTrack(tt.tracks, tt.languages)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
