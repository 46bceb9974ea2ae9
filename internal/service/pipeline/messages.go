package pipeline

type messages struct {
	fetching      string
	fetched       string
	subtitleFound string
	transcribing  string
	transcribed   string
	analyzing     string
	analyzed      string
	completed     string
	failedPrefix  string
}

var messageSets = map[string]messages{
	"zh": {
		fetching:      "正在获取视频信息...",
		fetched:       "下载完成",
		subtitleFound: "已获取视频字幕",
		transcribing:  "正在转录音频...",
		transcribed:   "转录完成",
		analyzing:     "正在生成摘要和思维导图...",
		analyzed:      "分析完成",
		completed:     "处理完成！",
		failedPrefix:  "处理失败: ",
	},
	"en": {
		fetching:      "Fetching video info...",
		fetched:       "Download finished",
		subtitleFound: "Subtitle obtained",
		transcribing:  "Transcribing audio...",
		transcribed:   "Transcription finished",
		analyzing:     "Generating summary and mind map...",
		analyzed:      "Analysis finished",
		completed:     "Done!",
		failedPrefix:  "Processing failed: ",
	},
}

func messagesFor(language string) messages {
	if m, ok := messageSets[language]; ok {
		return m
	}
	return messageSets["zh"]
}
