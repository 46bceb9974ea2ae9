package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-notes/cmd/process"
	"github.com/Taichi-iskw/yt-notes/internal/config"
	"github.com/Taichi-iskw/yt-notes/internal/logger"
	repohistory "github.com/Taichi-iskw/yt-notes/internal/repository/history"
	"github.com/Taichi-iskw/yt-notes/internal/service/analysis"
	"github.com/Taichi-iskw/yt-notes/internal/service/bundle"
	"github.com/Taichi-iskw/yt-notes/internal/service/fetcher"
	"github.com/Taichi-iskw/yt-notes/internal/service/history"
	"github.com/Taichi-iskw/yt-notes/internal/service/pipeline"
	"github.com/Taichi-iskw/yt-notes/internal/service/transcription"
)

// serviceFactory loads configuration once and creates services from it
type serviceFactory struct {
	verbose bool

	once sync.Once
	cfg  *config.Config
	log  *logrus.Logger
	err  error
}

func newServiceFactory() *serviceFactory {
	return &serviceFactory{}
}

func (f *serviceFactory) load() (*config.Config, *logrus.Logger, error) {
	f.once.Do(func() {
		cfg, err := config.NewConfig()
		if err != nil {
			f.err = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		if f.verbose {
			cfg.Log.Level = "debug"
		}

		log, err := logger.New(cfg.Log)
		if err != nil {
			f.err = fmt.Errorf("failed to set up logging: %w", err)
			return
		}
		f.cfg = cfg
		f.log = log
	})
	return f.cfg, f.log, f.err
}

// Processor creates the pipeline orchestrator
func (f *serviceFactory) Processor(ctx context.Context) (pipeline.Processor, error) {
	cfg, log, err := f.load()
	if err != nil {
		return nil, err
	}
	return newOrchestrator(cfg, log)
}

func newOrchestrator(cfg *config.Config, log logrus.FieldLogger) (*pipeline.Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := fetcher.NewFetcher(fetcher.Options{
		TempDir:           cfg.TempDir,
		SubtitleLanguages: cfg.Fetcher.SubtitleLanguages,
		AudioBitrate:      cfg.Fetcher.AudioBitrate,
		CookiesFile:       cfg.Fetcher.CookiesFile,
		YouTubeNative:     cfg.Fetcher.YouTubeNative,
	}, log)

	t, err := transcription.NewFromConfig(cfg.Transcription, log)
	if err != nil {
		return nil, err
	}

	a := analysis.NewFromConfig(cfg.LLM, log)

	return pipeline.NewOrchestrator(f, t, a, pipeline.Options{
		TranscriptionLanguage: cfg.Transcription.Language,
		Language:              cfg.LLM.PromptLanguage,
	}, log), nil
}

// History opens the history store; the returned function closes it
func (f *serviceFactory) History(ctx context.Context) (history.Service, func(), error) {
	cfg, log, err := f.load()
	if err != nil {
		return nil, nil, err
	}

	repo, err := repohistory.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return history.NewService(repo, cfg.History.MaxRecords, log), repo.Close, nil
}

// Uploader creates the S3 bundle uploader
func (f *serviceFactory) Uploader(ctx context.Context) (process.Uploader, error) {
	cfg, log, err := f.load()
	if err != nil {
		return nil, err
	}
	uploader, err := bundle.NewUploaderFromConfig(ctx, cfg.Storage.S3, log)
	if err != nil {
		return nil, err
	}
	return uploader, nil
}

// OutputDir returns the configured output directory
func (f *serviceFactory) OutputDir() string {
	cfg, _, err := f.load()
	if err != nil {
		return "notes"
	}
	return cfg.OutputDir
}
