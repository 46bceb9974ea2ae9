package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Stage
		want     bool
	}{
		{StageIdle, StageFetching, true},
		{StageFetching, StageFetching, true},
		{StageFetching, StageTranscribing, true},
		{StageFetching, StageAnalyzing, false},
		{StageTranscribing, StageAnalyzing, true},
		{StageAnalyzing, StageCompleted, true},
		{StageAnalyzing, StageFailed, true},
		{StageIdle, StageFailed, true},
		{StageCompleted, StageFailed, false},
		{StageFailed, StageFetching, false},
		{Stage("bogus"), StageFetching, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStage_IsTerminal(t *testing.T) {
	assert.True(t, StageCompleted.IsTerminal())
	assert.True(t, StageFailed.IsTerminal())
	assert.False(t, StageAnalyzing.IsTerminal())
	assert.True(t, StageIdle.IsKnown())
	assert.False(t, Stage("x").IsKnown())
}

func TestVideoIdentity_CanonicalURL(t *testing.T) {
	part := 3
	tests := []struct {
		name     string
		identity VideoIdentity
		want     string
	}{
		{
			name:     "bilibili collection part",
			identity: VideoIdentity{Platform: PlatformBilibili, VideoID: "BV1xx_p3", CollectionID: "BV1xx", Part: &part},
			want:     "https://www.bilibili.com/video/BV1xx?p=3",
		},
		{
			name:     "bilibili standalone",
			identity: VideoIdentity{Platform: PlatformBilibili, VideoID: "BV1xx", CollectionID: "BV1xx"},
			want:     "https://www.bilibili.com/video/BV1xx",
		},
		{
			name:     "youtube",
			identity: VideoIdentity{Platform: PlatformYouTube, VideoID: "dQw4w9WgXcQ"},
			want:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.CanonicalURL())
		})
	}
}

func TestNewHistoryRecord(t *testing.T) {
	part := 2
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	result := &ProcessingResult{
		Identity:        VideoIdentity{Platform: PlatformBilibili, VideoID: "BV1ab_p2", CollectionID: "BV1ab", Part: &part},
		Title:           "Lecture",
		DurationSeconds: 600,
		SummaryText:     "1. point",
		OutlineMarkdown: "- root",
		TerminalStatus:  StageCompleted,
		CompletedAt:     now,
	}

	record := NewHistoryRecord(result)

	assert.Equal(t, "BV1ab_p2", record.VideoID)
	assert.Equal(t, "BV1ab", record.CollectionID)
	assert.Equal(t, 2, *record.Part)
	assert.Equal(t, StageCompleted, record.Status)
	assert.Equal(t, now, record.CreatedAt)
	assert.Equal(t, result.Identity, record.Identity())
}
