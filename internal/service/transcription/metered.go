package transcription

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/service/common"
)

// AudioAPI is the subset of the OpenAI client used for transcription
type AudioAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// MeteredOptions configures the metered backend
type MeteredOptions struct {
	Model             string
	MaxSegmentSeconds int // per-call duration ceiling, kept below the provider limit
	RequestsPerMinute int // 0 disables client-side limiting
}

// meteredTranscriber implements Transcriber against a per-call limited provider
type meteredTranscriber struct {
	api       AudioAPI
	cmdRunner common.CmdRunner
	opts      MeteredOptions
	limiter   *rate.Limiter
	log       logrus.FieldLogger
}

// NewMeteredTranscriber creates a Transcriber that chunks long audio before upload
func NewMeteredTranscriber(api AudioAPI, cmdRunner common.CmdRunner, opts MeteredOptions, log logrus.FieldLogger) Transcriber {
	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return &meteredTranscriber{
		api:       api,
		cmdRunner: cmdRunner,
		opts:      opts,
		limiter:   limiter,
		log:       log,
	}
}

// Transcribe probes the duration and, above the ceiling, transcribes fixed-length
// segments strictly in order. Any segment failure fails the whole call.
func (t *meteredTranscriber) Transcribe(ctx context.Context, audioPath string, language string) (string, error) {
	if audioPath == "" {
		return "", errors.New(errors.CodeInvalidArg, "audio path is required")
	}
	log := t.log.WithField("audio_path", audioPath)

	duration, err := probeDuration(ctx, t.cmdRunner, audioPath)
	if err != nil {
		// Unknown length: let the provider decide
		log.WithError(err).Warn("could not probe audio duration, sending unchunked")
		return t.transcribeFile(ctx, audioPath, language)
	}

	segments := PlanSegments(duration, t.opts.MaxSegmentSeconds)
	if len(segments) == 1 {
		return t.transcribeFile(ctx, audioPath, language)
	}

	log.WithFields(logrus.Fields{
		"duration": duration,
		"segments": len(segments),
	}).Info("audio exceeds per-call ceiling, transcribing in segments")

	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		text, err := t.transcribeSegment(ctx, audioPath, seg, language)
		if err != nil {
			return "", errors.Wrap(err, errors.CodeOf(err),
				fmt.Sprintf("segment %d/%d failed", seg.Index+1, len(segments))).WithKind(ErrTranscription)
		}
		texts = append(texts, text)
	}

	return strings.Join(texts, "\n"), nil
}

// transcribeSegment cuts one segment, transcribes it and always removes its temp file
func (t *meteredTranscriber) transcribeSegment(ctx context.Context, audioPath string, seg AudioSegment, language string) (string, error) {
	path := segmentPath(audioPath, seg.Index)
	defer os.Remove(path)

	if err := cutSegment(ctx, t.cmdRunner, audioPath, path, seg); err != nil {
		return "", errors.Wrap(err, errors.CodeExternal, "failed to cut audio segment")
	}
	return t.transcribeFile(ctx, path, language)
}

func (t *meteredTranscriber) transcribeFile(ctx context.Context, path string, language string) (string, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", errors.Wrap(err, errors.CodeInternal, "rate limiter wait aborted").WithKind(ErrTranscription)
		}
	}

	resp, err := t.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.opts.Model,
		FilePath: path,
		Language: language,
	})
	if err != nil {
		return "", errors.Wrap(err, classifyOpenAIError(err), "metered transcription request failed").WithKind(ErrTranscription)
	}
	return resp.Text, nil
}

// classifyOpenAIError separates provider answers from transport failures
func classifyOpenAIError(err error) string {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	if stderrors.As(err, &apiErr) || stderrors.As(err, &reqErr) {
		return errors.CodeRejected
	}
	return errors.CodeUnavailable
}
