package model

import (
	"fmt"
	"net/url"
)

// Platform identifies the hosting site of a video
type Platform string

const (
	PlatformBilibili Platform = "bilibili"
	PlatformYouTube  Platform = "youtube"
)

// VideoIdentity is the canonical identity derived from a video URL.
// VideoID is unique per processed unit: a part of a collection or a standalone video.
type VideoIdentity struct {
	Platform     Platform `json:"platform"`
	VideoID      string   `json:"video_id"`
	CollectionID string   `json:"collection_id,omitempty"`
	Part         *int     `json:"part,omitempty"`
}

// CanonicalURL returns the public watch URL for the identity
func (v VideoIdentity) CanonicalURL() string {
	switch v.Platform {
	case PlatformYouTube:
		return "https://www.youtube.com/watch?v=" + url.QueryEscape(v.VideoID)
	default:
		base := "https://www.bilibili.com/video/" + v.CollectionID
		if v.Part != nil {
			return fmt.Sprintf("%s?p=%d", base, *v.Part)
		}
		return base
	}
}

// SubtitleStatus describes how the subtitle attempt ended
type SubtitleStatus string

const (
	SubtitleFound  SubtitleStatus = "found"
	SubtitleNone   SubtitleStatus = "none"   // no track in the priority list
	SubtitleFailed SubtitleStatus = "failed" // a track existed but its payload could not be used
)

// SubtitleOutcome records the subtitle attempt. A failed attempt is a
// local fallback to the audio path, not an error.
type SubtitleOutcome struct {
	Status   SubtitleStatus `json:"status"`
	Language string         `json:"language,omitempty"`
	Ext      string         `json:"ext,omitempty"`
	Err      error          `json:"-"`
}

// FetchResult is the output of the content fetcher.
// Exactly one of TranscriptText / AudioPath is set.
type FetchResult struct {
	Identity          VideoIdentity   `json:"identity"`
	Title             string          `json:"title"`
	DurationSeconds   int             `json:"duration_seconds"`
	TranscriptText    *string         `json:"transcript_text,omitempty"`
	AudioPath         *string         `json:"audio_path,omitempty"`
	HasNativeSubtitle bool            `json:"has_native_subtitle"`
	Subtitle          SubtitleOutcome `json:"subtitle"`
}

// VideoID is a shortcut for Identity.VideoID
func (r *FetchResult) VideoID() string {
	return r.Identity.VideoID
}

// AnalysisResult is the output of the analysis engine
type AnalysisResult struct {
	SummaryText     string `json:"summary_text"`
	OutlineMarkdown string `json:"outline_markdown"`
	RawModelOutput  string `json:"raw_model_output"`
}
