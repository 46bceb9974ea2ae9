package analysis

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-notes/internal/config"
	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
)

// ErrAnalysis marks transport or provider failures of the analysis call
var ErrAnalysis = stderrors.New("analysis failed")

// charsPerToken is the rough text-to-token ratio used for truncation
const charsPerToken = 2

// Analyzer turns transcript text into a summary and an outline
type Analyzer interface {
	Analyze(ctx context.Context, text, title string) (*model.AnalysisResult, error)
}

// ChatAPI is the subset of the OpenAI client used for analysis
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures the analyzer
type Options struct {
	Model          string
	MaxInputTokens int
	Temperature    float32
	MaxTokens      int
	PromptLanguage string
}

type analyzer struct {
	api     ChatAPI
	opts    Options
	prompts promptSet
	log     logrus.FieldLogger
}

// NewAnalyzer creates an Analyzer over any OpenAI-compatible chat API
func NewAnalyzer(api ChatAPI, opts Options, log logrus.FieldLogger) Analyzer {
	return &analyzer{
		api:     api,
		opts:    opts,
		prompts: promptsFor(opts.PromptLanguage),
		log:     log,
	}
}

// NewFromConfig creates an Analyzer talking to cfg.BaseURL
func NewFromConfig(cfg config.LLMConfig, log logrus.FieldLogger) Analyzer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return NewAnalyzer(openai.NewClientWithConfig(clientConfig), Options{
		Model:          cfg.Model,
		MaxInputTokens: cfg.MaxInputTokens,
		Temperature:    cfg.Temperature,
		MaxTokens:      cfg.MaxTokens,
		PromptLanguage: cfg.PromptLanguage,
	}, log)
}

// Analyze sends one chat completion and parses its two sections
func (a *analyzer) Analyze(ctx context.Context, text, title string) (*model.AnalysisResult, error) {
	content, truncated := Truncate(text, a.opts.MaxInputTokens*charsPerToken, a.prompts.truncatedMarker)
	if truncated {
		a.log.WithFields(logrus.Fields{
			"title":     title,
			"max_chars": a.opts.MaxInputTokens * charsPerToken,
		}).Warn("transcript truncated before analysis")
	}

	resp, err := a.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: a.prompts.system},
			{Role: openai.ChatMessageRoleUser, Content: a.prompts.userMessage(title, content)},
		},
		Temperature: a.opts.Temperature,
		MaxTokens:   a.opts.MaxTokens,
	})
	if err != nil {
		return nil, errors.Wrap(err, classifyOpenAIError(err), "chat completion request failed").WithKind(ErrAnalysis)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(errors.CodeRejected, "chat completion returned no choices").WithKind(ErrAnalysis)
	}

	raw := resp.Choices[0].Message.Content
	sections := ParseSections(raw)

	summary := sections.Summary
	if !sections.SawSummary && !sections.SawOutline {
		summary = strings.TrimSpace(raw)
	}

	outline := CleanOutline(sections.Outline, a.prompts.placeholder)
	if !sections.SawOutline {
		a.log.WithField("title", title).Warn("model reply has no outline section, using placeholder")
	}

	return &model.AnalysisResult{
		SummaryText:     summary,
		OutlineMarkdown: outline,
		RawModelOutput:  raw,
	}, nil
}

// Truncate cuts text to maxChars characters and appends marker when it had to cut
func Truncate(text string, maxChars int, marker string) (string, bool) {
	if maxChars <= 0 {
		return text, false
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text, false
	}
	return string(runes[:maxChars]) + marker, true
}

func classifyOpenAIError(err error) string {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	if stderrors.As(err, &apiErr) || stderrors.As(err, &reqErr) {
		return errors.CodeRejected
	}
	return errors.CodeUnavailable
}
