package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// acceptedSubtitleExts are the payload formats CleanSubtitle understands
var acceptedSubtitleExts = map[string]bool{
	"json3": true,
	"srv3":  true,
	"vtt":   true,
	"srt":   true,
	"xml":   true,
}

var (
	htmlTagPattern  = regexp.MustCompile(`<[^>]+>`)
	xmlCuePattern   = regexp.MustCompile(`(?s)<(p|text)\b[^>]*>(.*?)</(p|text)>`)
	digitsOnlyRegex = regexp.MustCompile(`^\d+$`)
)

// SelectTrack merges manual and automatic tracks (manual wins per language)
// and returns the first track in language priority order with an accepted format.
func SelectTrack(tracks []SubtitleTrack, languages []string) (SubtitleTrack, bool) {
	merged := make(map[string][]SubtitleTrack)
	hasManual := make(map[string]bool)
	for _, t := range tracks {
		if !t.Automatic {
			if !hasManual[t.Language] {
				merged[t.Language] = nil
				hasManual[t.Language] = true
			}
			merged[t.Language] = append(merged[t.Language], t)
			continue
		}
		if !hasManual[t.Language] {
			merged[t.Language] = append(merged[t.Language], t)
		}
	}

	for _, lang := range languages {
		for _, t := range merged[lang] {
			if acceptedSubtitleExts[t.Ext] && t.URL != "" {
				return t, true
			}
		}
	}
	return SubtitleTrack{}, false
}

// SubtitleClient downloads raw subtitle payloads
type SubtitleClient interface {
	FetchSubtitle(ctx context.Context, track SubtitleTrack) (string, error)
}

type httpSubtitleClient struct {
	client *http.Client
}

// NewHTTPSubtitleClient creates a SubtitleClient over plain HTTP GET
func NewHTTPSubtitleClient() SubtitleClient {
	return &httpSubtitleClient{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchSubtitle downloads the payload of a subtitle track
func (c *httpSubtitleClient) FetchSubtitle(ctx context.Context, track SubtitleTrack) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build subtitle request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("subtitle request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected subtitle status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read subtitle payload: %w", err)
	}
	return string(body), nil
}

// json3Payload is the YouTube json3 caption layout
type json3Payload struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// CleanSubtitle turns a subtitle payload into plain text, one cue per line.
// Cue timings, numeric indexes and inline markup are removed.
func CleanSubtitle(payload, ext string) string {
	var lines []string
	switch ext {
	case "json3":
		lines = json3Lines(payload)
	case "srv3", "xml":
		lines = xmlLines(payload)
	default:
		lines = strings.Split(payload, "\n")
	}

	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" ||
			strings.Contains(line, "-->") ||
			digitsOnlyRegex.MatchString(line) ||
			line == "WEBVTT" ||
			strings.HasPrefix(line, "Kind:") ||
			strings.HasPrefix(line, "Language:") {
			continue
		}
		line = strings.TrimSpace(html.UnescapeString(htmlTagPattern.ReplaceAllString(line, "")))
		if line == "" {
			continue
		}
		// Rolling auto captions repeat the previous cue
		if len(out) > 0 && out[len(out)-1] == line {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func json3Lines(payload string) []string {
	var doc json3Payload
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return strings.Split(payload, "\n")
	}
	lines := make([]string, 0, len(doc.Events))
	for _, ev := range doc.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		lines = append(lines, strings.ReplaceAll(b.String(), "\n", " "))
	}
	return lines
}

func xmlLines(payload string) []string {
	matches := xmlCuePattern.FindAllStringSubmatch(payload, -1)
	if len(matches) == 0 {
		return strings.Split(payload, "\n")
	}
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, strings.ReplaceAll(m[2], "\n", " "))
	}
	return lines
}
