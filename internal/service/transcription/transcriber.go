package transcription

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-notes/internal/config"
	"github.com/Taichi-iskw/yt-notes/internal/service/common"
)

// Error kinds returned by transcribers, matched with errors.Is
var (
	ErrServiceUnavailable = stderrors.New("transcription service unavailable")
	ErrTranscription      = stderrors.New("transcription failed")
)

// Transcriber converts an audio file to plain text
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, language string) (string, error)
}

// NewFromConfig builds the backend selected by cfg.Mode. The choice is fixed for the
// lifetime of the returned value.
func NewFromConfig(cfg config.TranscriptionConfig, log logrus.FieldLogger) (Transcriber, error) {
	switch cfg.Mode {
	case config.ModeUnmetered:
		return NewUnmeteredClient(cfg.Unmetered.URL), nil
	case config.ModeMetered:
		clientConfig := openai.DefaultConfig(cfg.Metered.APIKey)
		if cfg.Metered.BaseURL != "" {
			clientConfig.BaseURL = cfg.Metered.BaseURL
		}
		return NewMeteredTranscriber(
			openai.NewClientWithConfig(clientConfig),
			common.NewCmdRunner(),
			MeteredOptions{
				Model:             cfg.Metered.Model,
				MaxSegmentSeconds: cfg.Metered.MaxSegmentSeconds,
				RequestsPerMinute: cfg.Metered.RequestsPerMinute,
			},
			log,
		), nil
	case config.ModeLocal:
		return NewLocalTranscriber(common.NewCmdRunner(), LocalOptions{Model: cfg.Local.Model}), nil
	default:
		return nil, fmt.Errorf("unknown transcription mode %q", cfg.Mode)
	}
}
