package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Taichi-iskw/yt-notes/internal/model"
)

type labels struct {
	htmlLang     string
	videoInfo    string
	videoID      string
	duration     string
	source       string
	generatedAt  string
	link         string
	summary      string
	mindmap      string
	mindmapTip   string
	nativeSource string
	speechSource string
	generatedBy  string
}

var labelSets = map[string]labels{
	"zh": {
		htmlLang:     "zh-CN",
		videoInfo:    "视频信息",
		videoID:      "视频 ID",
		duration:     "时长",
		source:       "字幕来源",
		generatedAt:  "生成时间",
		link:         "链接",
		summary:      "内容摘要",
		mindmap:      "思维导图",
		mindmapTip:   "提示：鼠标滚轮缩放，拖拽移动，点击节点展开/折叠",
		nativeSource: "原生字幕",
		speechSource: "AI 语音转录",
		generatedBy:  "由 yt-notes 自动生成",
	},
	"en": {
		htmlLang:     "en",
		videoInfo:    "Video info",
		videoID:      "Video ID",
		duration:     "Duration",
		source:       "Transcript source",
		generatedAt:  "Generated at",
		link:         "Link",
		summary:      "Summary",
		mindmap:      "Mind Map",
		mindmapTip:   "Tip: scroll to zoom, drag to move, click a node to fold it",
		nativeSource: "native subtitles",
		speechSource: "speech transcription",
		generatedBy:  "Generated by yt-notes",
	},
}

func labelsFor(language string) labels {
	if l, ok := labelSets[language]; ok {
		return l
	}
	return labelSets["zh"]
}

// NoteInput is everything the combined note is built from
type NoteInput struct {
	Identity          model.VideoIdentity
	Title             string
	DurationSeconds   int
	HasNativeSubtitle bool
	Summary           string
	Outline           string
	GeneratedAt       time.Time
	Language          string
}

// AssembleNotes builds the combined markdown note
func AssembleNotes(in NoteInput) string {
	l := labelsFor(in.Language)

	source := l.speechSource
	if in.HasNativeSubtitle {
		source = l.nativeSource
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("# %s\n\n", in.Title))
	output.WriteString(fmt.Sprintf("> **%s**\n", l.videoInfo))
	output.WriteString(fmt.Sprintf("> - %s: `%s`\n", l.videoID, in.Identity.VideoID))
	output.WriteString(fmt.Sprintf("> - %s: %s\n", l.duration, FormatDuration(in.DurationSeconds)))
	output.WriteString(fmt.Sprintf("> - %s: %s\n", l.source, source))
	output.WriteString(fmt.Sprintf("> - %s: %s\n", l.generatedAt, in.GeneratedAt.Format("2006-01-02 15:04:05")))
	output.WriteString(fmt.Sprintf("> - %s: %s\n", l.link, in.Identity.CanonicalURL()))
	output.WriteString("\n---\n\n")

	output.WriteString(fmt.Sprintf("## %s\n\n", l.summary))
	output.WriteString(strings.TrimSpace(in.Summary))
	output.WriteString("\n\n---\n\n")

	output.WriteString(fmt.Sprintf("## %s\n\n", l.mindmap))
	output.WriteString(strings.TrimSpace(in.Outline))
	output.WriteString("\n\n---\n\n")

	output.WriteString(fmt.Sprintf("*%s*\n", l.generatedBy))
	return output.String()
}

// FormatDuration renders seconds as H:MM:SS, or M:SS under an hour
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
