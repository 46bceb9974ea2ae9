package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-notes/internal/model"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{61, "1:01"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{5025, "1:23:45"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.seconds))
		})
	}
}

func TestRenderMindmap(t *testing.T) {
	outline := "- 主题 <b>\n  - 部分 `一` ${x}\n  - \"引号\" </script>"

	html, err := RenderMindmap(outline, "Go & Rust", "zh")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<html lang="zh-CN">`)
	assert.Contains(t, html, "<title>Go &amp; Rust - 思维导图</title>")
	assert.Contains(t, html, "markmap-view@0.15.4")
	assert.Contains(t, html, "&lt;b&gt;", "fallback block is HTML escaped")
	assert.NotContains(t, html, "</script>\"", "outline must not close the script element")
	assert.Equal(t, 4, strings.Count(html, "</script>"))

	again, err := RenderMindmap(outline, "Go & Rust", "zh")
	require.NoError(t, err)
	assert.Equal(t, html, again)
}

func TestRenderMindmap_DefaultTitle(t *testing.T) {
	html, err := RenderMindmap("- a", "", "en")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Mind Map</h1>")
	assert.Contains(t, html, `<html lang="en">`)
}

func TestAssembleNotes(t *testing.T) {
	part := 3
	in := NoteInput{
		Identity:          model.VideoIdentity{Platform: model.PlatformBilibili, VideoID: "BV1xx_p3", CollectionID: "BV1xx", Part: &part},
		Title:             "Go 并发",
		DurationSeconds:   754,
		HasNativeSubtitle: true,
		Summary:           "1. goroutine\n2. channel\n",
		Outline:           "- Go 并发\n  - goroutine",
		GeneratedAt:       time.Date(2026, 1, 14, 9, 30, 0, 0, time.UTC),
		Language:          "zh",
	}

	notes := AssembleNotes(in)

	assert.True(t, strings.HasPrefix(notes, "# Go 并发\n"))
	assert.Contains(t, notes, "> - 视频 ID: `BV1xx_p3`")
	assert.Contains(t, notes, "> - 时长: 12:34")
	assert.Contains(t, notes, "> - 字幕来源: 原生字幕")
	assert.Contains(t, notes, "> - 生成时间: 2026-01-14 09:30:00")
	assert.Contains(t, notes, "https://www.bilibili.com/video/BV1xx?p=3")
	assert.Contains(t, notes, "## 内容摘要\n\n1. goroutine\n2. channel\n")
	assert.Contains(t, notes, "## 思维导图\n\n- Go 并发\n  - goroutine\n")
	assert.Equal(t, notes, AssembleNotes(in))

	in.HasNativeSubtitle = false
	in.Language = "en"
	notes = AssembleNotes(in)
	assert.Contains(t, notes, "Transcript source: speech transcription")
	assert.Contains(t, notes, "## Summary")
}

func TestRenderMermaid(t *testing.T) {
	outline := "- 主题\n  - 部分(一)\n    - \"细节\" [a]\n  -\nnot a bullet"

	want := "mindmap\n  主题\n    部分（一）\n      '细节' 【a】"
	assert.Equal(t, want, RenderMermaid(outline))
	assert.Equal(t, "mindmap", RenderMermaid(""))
}
