package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/service/common"
)

// LocalOptions configures the whisper CLI backend
type LocalOptions struct {
	Model   string // tiny, base, small, medium, large
	TempDir string // parent of the per-call output directory
}

// whisperOutput is the JSON written by whisper --output_format json
type whisperOutput struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// localTranscriber runs the openai-whisper CLI on this machine
type localTranscriber struct {
	cmdRunner common.CmdRunner
	opts      LocalOptions
}

// NewLocalTranscriber creates a Transcriber backed by the whisper CLI
func NewLocalTranscriber(cmdRunner common.CmdRunner, opts LocalOptions) Transcriber {
	if opts.Model == "" {
		opts.Model = "small"
	}
	return &localTranscriber{cmdRunner: cmdRunner, opts: opts}
}

func (t *localTranscriber) Transcribe(ctx context.Context, audioPath string, language string) (string, error) {
	if audioPath == "" {
		return "", errors.New(errors.CodeInvalidArg, "audio path is required")
	}

	if t.opts.TempDir != "" {
		if err := os.MkdirAll(t.opts.TempDir, 0755); err != nil {
			return "", errors.Wrap(err, errors.CodeInternal, "failed to create temp directory")
		}
	}
	outputDir, err := os.MkdirTemp(t.opts.TempDir, "whisper-*")
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to create temp directory")
	}
	defer os.RemoveAll(outputDir)

	args := []string{
		audioPath,
		"--model", t.opts.Model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--temperature", "0",
	}
	if language != "" && language != "auto" {
		args = append(args, "--language", language)
	}

	if _, err := t.cmdRunner.Run(ctx, "whisper", args...); err != nil {
		return "", errors.Wrap(err, errors.CodeExternal, t.formatWhisperError(err, audioPath, language)).WithKind(ErrTranscription)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outputDir, base+".json"))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to read whisper output").WithKind(ErrTranscription)
	}

	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to parse whisper output").WithKind(ErrTranscription)
	}
	return strings.TrimSpace(out.Text), nil
}

// formatWhisperError turns common whisper failures into actionable messages
func (t *localTranscriber) formatWhisperError(err error, audioPath, language string) string {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "executable file not found"):
		return "whisper is not installed. Please install OpenAI Whisper: pip install openai-whisper"
	case strings.Contains(errMsg, "No module named"):
		return "whisper dependencies missing. Please reinstall: pip install --upgrade openai-whisper"
	case strings.Contains(errMsg, "not enough memory") || strings.Contains(errMsg, "OutOfMemoryError"):
		return fmt.Sprintf("insufficient memory for model '%s'. Try a smaller model (tiny, base, small)", t.opts.Model)
	case strings.Contains(errMsg, "Invalid language") || strings.Contains(errMsg, "Unsupported language"):
		return fmt.Sprintf("unsupported language '%s'", language)
	case strings.Contains(errMsg, "Invalid model") || strings.Contains(errMsg, "invalid choice"):
		return fmt.Sprintf("unsupported model '%s'. Available models: tiny, base, small, medium, large", t.opts.Model)
	case strings.Contains(errMsg, "No such file"):
		return fmt.Sprintf("audio file not found: %s", filepath.Base(audioPath))
	default:
		return fmt.Sprintf("local transcription failed with model '%s' - %s", t.opts.Model, errMsg)
	}
}
