package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fitqa/internal/app/errors"
	"fitqa/internal/app/model"
)

var captionTracksRegexp = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

// preferred transcript languages, in order
var preferredLanguages = []string{"en", "en-US"}

// YouTubeFetcher fetches transcripts by scraping the caption track list out of
// the watch page and downloading the referenced timedtext document.
type YouTubeFetcher struct {
	client  *http.Client
	baseURL string
}

// NewYouTubeFetcher creates a fetcher with a sane request timeout.
func NewYouTubeFetcher() *YouTubeFetcher {
	return &YouTubeFetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://www.youtube.com",
	}
}

// NewYouTubeFetcherWithBase is used by tests to point the fetcher at a local server.
func NewYouTubeFetcherWithBase(client *http.Client, baseURL string) *YouTubeFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &YouTubeFetcher{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type timedText struct {
	Texts []timedTextEntry `xml:"text"`
}

type timedTextEntry struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Body     string  `xml:",chardata"`
}

// Fetch returns the transcript entries for videoID, preferring manually
// created English tracks over auto-generated ones.
func (f *YouTubeFetcher) Fetch(ctx context.Context, videoID string) ([]model.TranscriptEntry, error) {
	tracks, err := f.listCaptionTracks(ctx, videoID)
	if err != nil {
		return nil, errors.WrapSentinel(errors.ErrTranscriptUnavailable, err)
	}

	track, ok := pickTrack(tracks)
	if !ok {
		return nil, errors.WrapSentinel(errors.ErrTranscriptUnavailable,
			fmt.Errorf("no english caption track for video %s", videoID))
	}

	entries, err := f.downloadTrack(ctx, track.BaseURL)
	if err != nil {
		return nil, errors.WrapSentinel(errors.ErrTranscriptUnavailable, err)
	}
	return entries, nil
}

func (f *YouTubeFetcher) listCaptionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	watchURL := fmt.Sprintf("%s/watch?v=%s", f.baseURL, videoID)
	body, err := f.get(ctx, watchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse watch page: %w", err)
	}

	// The player response lives in an inline script; find the script that
	// carries the caption track list and cut the JSON array out of it.
	var rawTracks string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := captionTracksRegexp.FindStringSubmatch(s.Text()); m != nil {
			rawTracks = m[1]
			return false
		}
		return true
	})
	if rawTracks == "" {
		return nil, fmt.Errorf("no caption tracks found for video %s", videoID)
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(rawTracks), &tracks); err != nil {
		return nil, fmt.Errorf("failed to decode caption tracks: %w", err)
	}
	return tracks, nil
}

func (f *YouTubeFetcher) downloadTrack(ctx context.Context, trackURL string) ([]model.TranscriptEntry, error) {
	if strings.HasPrefix(trackURL, "/") {
		trackURL = f.baseURL + trackURL
	}
	body, err := f.get(ctx, trackURL)
	if err != nil {
		return nil, err
	}

	var tt timedText
	if err := xml.Unmarshal([]byte(body), &tt); err != nil {
		return nil, fmt.Errorf("failed to parse timedtext document: %w", err)
	}

	entries := make([]model.TranscriptEntry, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Body))
		if text == "" {
			continue
		}
		entries = append(entries, model.TranscriptEntry{
			Text:     text,
			Start:    t.Start,
			Duration: t.Duration,
		})
	}
	return entries, nil
}

func (f *YouTubeFetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", "en-US")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed for %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response for %s: %w", url, err)
	}
	return string(data), nil
}

// pickTrack prefers a manual track in a preferred language, then an
// auto-generated ("asr") one, then gives up.
func pickTrack(tracks []captionTrack) (captionTrack, bool) {
	for _, lang := range preferredLanguages {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range preferredLanguages {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	return captionTrack{}, false
}
