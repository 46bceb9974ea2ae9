package fetcher

import (
	"context"
	"encoding/json"
	"math"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/service/common"
)

// Metadata is what the fetcher needs to know about a video before choosing a path
type Metadata struct {
	Title           string
	DurationSeconds int
	Tracks          []SubtitleTrack
}

// SubtitleTrack is one downloadable subtitle rendition
type SubtitleTrack struct {
	Language  string
	Ext       string
	URL       string
	Automatic bool
}

// MetadataSource retrieves metadata for a resolved identity
type MetadataSource interface {
	FetchMetadata(ctx context.Context, identity model.VideoIdentity) (*Metadata, error)
}

// ytDlpVideoInfo represents the fields of yt-dlp --dump-json we read
type ytDlpVideoInfo struct {
	ID                string                         `json:"id"`
	Title             string                         `json:"title"`
	Duration          float64                        `json:"duration"`
	WebpageURL        string                         `json:"webpage_url"`
	Subtitles         map[string][]ytDlpSubtitleFile `json:"subtitles"`
	AutomaticCaptions map[string][]ytDlpSubtitleFile `json:"automatic_captions"`
}

type ytDlpSubtitleFile struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ytDlpMetadataSource implements MetadataSource with yt-dlp --dump-json
type ytDlpMetadataSource struct {
	cmdRunner   common.CmdRunner
	cookiesFile string
}

// NewYtDlpMetadataSource creates a MetadataSource backed by yt-dlp
func NewYtDlpMetadataSource(cmdRunner common.CmdRunner, cookiesFile string) MetadataSource {
	return &ytDlpMetadataSource{
		cmdRunner:   cmdRunner,
		cookiesFile: cookiesFile,
	}
}

// FetchMetadata runs yt-dlp once and converts its JSON into Metadata
func (s *ytDlpMetadataSource) FetchMetadata(ctx context.Context, identity model.VideoIdentity) (*Metadata, error) {
	args := []string{
		"--dump-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
	}
	if s.cookiesFile != "" {
		args = append(args, "--cookies", s.cookiesFile)
	}
	args = append(args, identity.CanonicalURL())

	output, err := s.cmdRunner.Run(ctx, "yt-dlp", args...)
	if err != nil {
		return nil, errors.Wrap(err, classifyYtDlpError(err), formatYtDlpError(err, identity.VideoID)).WithKind(ErrMetadata)
	}

	var info ytDlpVideoInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, errors.Wrap(err, errors.CodeRejected, "failed to parse yt-dlp output").WithKind(ErrMetadata)
	}

	meta := &Metadata{
		Title:           info.Title,
		DurationSeconds: int(math.Round(info.Duration)),
	}
	meta.Tracks = append(meta.Tracks, convertTracks(info.AutomaticCaptions, true)...)
	meta.Tracks = append(meta.Tracks, convertTracks(info.Subtitles, false)...)

	return meta, nil
}

func convertTracks(byLang map[string][]ytDlpSubtitleFile, automatic bool) []SubtitleTrack {
	var tracks []SubtitleTrack
	for lang, files := range byLang {
		for _, f := range files {
			tracks = append(tracks, SubtitleTrack{
				Language:  lang,
				Ext:       f.Ext,
				URL:       f.URL,
				Automatic: automatic,
			})
		}
	}
	return tracks
}
