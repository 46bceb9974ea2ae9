package analysis

import "fmt"

// promptSet holds the language-specific texts sent to and expected from the model
type promptSet struct {
	system          string
	userTemplate    string // title, content
	truncatedMarker string
	placeholder     string
}

var prompts = map[string]promptSet{
	"zh": {
		system: `你是一个专业的视频内容分析助手。请根据视频的文字内容完成两项任务，并严格按照以下格式输出：

## 摘要
用 5 到 10 个编号要点概括视频的核心内容，每个要点一行，例如 "1. ..."。

## 思维导图
用 Markdown 嵌套列表输出视频内容的层级结构：
- 每一行都以 "- " 开头
- 每一层缩进两个空格
- 第一行是视频主题，其下为主要部分及其细节
- 不要使用代码块包裹，不要输出其他标题`,
		userTemplate:    "视频标题：%s\n\n视频内容：\n%s",
		truncatedMarker: "\n\n[内容已截断...]",
		placeholder:     "- 视频内容\n  - 暂无详细结构",
	},
	"en": {
		system: `You are a video content analyst. From the video's text, produce exactly two sections in this format:

## Summary
5 to 10 numbered points covering the core content, one per line, e.g. "1. ...".

## Mind Map
A nested Markdown list describing the structure of the video:
- every line starts with "- "
- indent two spaces per level
- the first line is the video topic, followed by main parts and their details
- do not wrap the list in a code block and do not add other headings`,
		userTemplate:    "Video title: %s\n\nTranscript:\n%s",
		truncatedMarker: "\n\n[content truncated...]",
		placeholder:     "- Video content\n  - No detailed structure available",
	},
}

func promptsFor(language string) promptSet {
	if p, ok := prompts[language]; ok {
		return p
	}
	return prompts["zh"]
}

// Placeholder returns the fallback outline for a prompt language
func Placeholder(language string) string {
	return promptsFor(language).placeholder
}

func (p promptSet) userMessage(title, content string) string {
	return fmt.Sprintf(p.userTemplate, title, content)
}
