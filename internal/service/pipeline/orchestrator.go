package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/service/analysis"
	"github.com/Taichi-iskw/yt-notes/internal/service/fetcher"
	"github.com/Taichi-iskw/yt-notes/internal/service/formatter"
	"github.com/Taichi-iskw/yt-notes/internal/service/transcription"
)

// Progress checkpoints
const (
	percentFetchStart      = 5
	percentFetched         = 30
	percentTranscribeStart = 40
	percentTranscribed     = 60
	percentAnalyzeStart    = 70
	percentAnalyzed        = 95
	percentCompleted       = 100
)

// Processor turns a video URL into a finished result
type Processor interface {
	Process(ctx context.Context, rawURL string, observer Observer) (*model.ProcessingResult, error)
}

// Options configures the orchestrator
type Options struct {
	// TranscriptionLanguage is passed to the transcription backend
	TranscriptionLanguage string
	// Language selects progress messages and note labels (zh or en)
	Language string
}

// Orchestrator sequences fetch, transcription, analysis and note assembly.
// One call to Process is one independent run; an Orchestrator holds no per-run state.
type Orchestrator struct {
	fetcher     fetcher.Fetcher
	transcriber transcription.Transcriber
	analyzer    analysis.Analyzer
	opts        Options
	now         func() time.Time
	log         logrus.FieldLogger
}

// NewOrchestrator creates an orchestrator over the given stages
func NewOrchestrator(
	f fetcher.Fetcher,
	t transcription.Transcriber,
	a analysis.Analyzer,
	opts Options,
	log logrus.FieldLogger,
) *Orchestrator {
	return &Orchestrator{
		fetcher:     f,
		transcriber: t,
		analyzer:    a,
		opts:        opts,
		now:         time.Now,
		log:         log,
	}
}

// WithClock replaces the time source used for generation timestamps
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// run is the state of a single Process call
type run struct {
	stage    model.Stage
	percent  int
	observer Observer
	log      logrus.FieldLogger
}

func (r *run) report(stage model.Stage, message string, percent int) {
	if !model.CanTransition(r.stage, stage) {
		r.log.WithFields(logrus.Fields{"from": r.stage, "to": stage}).Error("illegal stage transition")
		return
	}
	r.stage = stage
	r.percent = percent

	r.log.WithFields(logrus.Fields{"stage": stage, "percent": percent}).Debug(message)
	r.observer.OnProgress(model.ProgressEvent{Stage: stage, Message: message, Percent: percent})
}

// Process runs the pipeline for rawURL. Every error is reported to observer as
// a Failed event and then returned. A temporary audio file created by the
// fetcher is removed before Process returns, on success and failure alike.
func (o *Orchestrator) Process(ctx context.Context, rawURL string, observer Observer) (result *model.ProcessingResult, err error) {
	if observer == nil {
		observer = nopObserver{}
	}
	msg := messagesFor(o.opts.Language)
	r := &run{stage: model.StageIdle, observer: observer, log: o.log.WithField("url", rawURL)}

	defer func() {
		if err != nil {
			r.log.WithError(err).Error("processing failed")
			r.report(model.StageFailed, msg.failedPrefix+errors.MessageOf(err), r.percent)
		}
	}()

	r.report(model.StageFetching, msg.fetching, percentFetchStart)
	fetched, err := o.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer o.cleanup(fetched)

	r.log = r.log.WithField("video_id", fetched.VideoID())
	r.report(model.StageFetching, msg.fetched, percentFetched)

	transcript, err := o.transcript(ctx, r, fetched, msg)
	if err != nil {
		return nil, err
	}

	r.report(model.StageAnalyzing, msg.analyzing, percentAnalyzeStart)
	analyzed, err := o.analyzer.Analyze(ctx, transcript, fetched.Title)
	if err != nil {
		return nil, err
	}
	r.report(model.StageAnalyzing, msg.analyzed, percentAnalyzed)

	completedAt := o.now()
	notes := formatter.AssembleNotes(formatter.NoteInput{
		Identity:          fetched.Identity,
		Title:             fetched.Title,
		DurationSeconds:   fetched.DurationSeconds,
		HasNativeSubtitle: fetched.HasNativeSubtitle,
		Summary:           analyzed.SummaryText,
		Outline:           analyzed.OutlineMarkdown,
		GeneratedAt:       completedAt,
		Language:          o.opts.Language,
	})
	document, err := formatter.RenderMindmap(analyzed.OutlineMarkdown, fetched.Title, o.opts.Language)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to render mind map")
	}

	result = &model.ProcessingResult{
		Identity:          fetched.Identity,
		Title:             fetched.Title,
		DurationSeconds:   fetched.DurationSeconds,
		HasNativeSubtitle: fetched.HasNativeSubtitle,
		TranscriptText:    transcript,
		SummaryText:       analyzed.SummaryText,
		OutlineMarkdown:   analyzed.OutlineMarkdown,
		OutlineDocument:   document,
		NotesMarkdown:     notes,
		TerminalStatus:    model.StageCompleted,
		CompletedAt:       completedAt,
	}
	r.report(model.StageCompleted, msg.completed, percentCompleted)
	return result, nil
}

// transcript returns subtitle text when present, otherwise transcribes the audio asset
func (o *Orchestrator) transcript(ctx context.Context, r *run, fetched *model.FetchResult, msg messages) (string, error) {
	if fetched.HasNativeSubtitle && fetched.TranscriptText != nil {
		r.report(model.StageTranscribing, msg.subtitleFound, percentTranscribed)
		return *fetched.TranscriptText, nil
	}

	if fetched.AudioPath == nil {
		return "", errors.New(errors.CodeInternal, "fetch returned neither subtitle text nor audio")
	}

	r.report(model.StageTranscribing, msg.transcribing, percentTranscribeStart)
	text, err := o.transcriber.Transcribe(ctx, *fetched.AudioPath, o.opts.TranscriptionLanguage)
	if err != nil {
		return "", err
	}
	r.report(model.StageTranscribing, msg.transcribed, percentTranscribed)
	return text, nil
}

// cleanup removes the audio asset owned by this run
func (o *Orchestrator) cleanup(fetched *model.FetchResult) {
	if fetched == nil || fetched.AudioPath == nil {
		return
	}
	path := *fetched.AudioPath
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		o.log.WithError(err).WithField("audio_path", path).Warn("failed to remove temporary audio")
	}
}
