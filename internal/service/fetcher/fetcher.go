package fetcher

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/service/common"
)

// Fetcher resolves a URL into subtitle text or a local audio asset
type Fetcher interface {
	// Fetch fails with ErrInvalidURL before any network call when the URL has no video id,
	// ErrMetadata when metadata retrieval fails and ErrDownload when audio extraction fails.
	Fetch(ctx context.Context, rawURL string) (*model.FetchResult, error)
}

// Options configures the fetcher
type Options struct {
	TempDir           string
	SubtitleLanguages []string
	AudioBitrate      string
	CookiesFile       string
	YouTubeNative     bool
}

// fetcher implements Fetcher
type fetcher struct {
	opts      Options
	metadata  MetadataSource
	youtube   MetadataSource // optional, used for YouTube identities
	subtitles SubtitleClient
	audio     AudioDownloader
	log       logrus.FieldLogger
}

// NewFetcher creates a Fetcher with yt-dlp and HTTP dependencies
func NewFetcher(opts Options, log logrus.FieldLogger) Fetcher {
	runner := common.NewCmdRunner()
	var native MetadataSource
	if opts.YouTubeNative {
		native = NewYouTubeMetadataSource()
	}
	return NewFetcherWithDependencies(
		opts,
		NewYtDlpMetadataSource(runner, opts.CookiesFile),
		native,
		NewHTTPSubtitleClient(),
		NewAudioDownloader(runner, opts.AudioBitrate, opts.CookiesFile),
		log,
	)
}

// NewFetcherWithDependencies creates a Fetcher with custom dependencies (for testing)
func NewFetcherWithDependencies(
	opts Options,
	metadata MetadataSource,
	youtube MetadataSource,
	subtitles SubtitleClient,
	audio AudioDownloader,
	log logrus.FieldLogger,
) Fetcher {
	return &fetcher{
		opts:      opts,
		metadata:  metadata,
		youtube:   youtube,
		subtitles: subtitles,
		audio:     audio,
		log:       log,
	}
}

// Fetch parses the identity, reads metadata once, then prefers subtitles over audio
func (f *fetcher) Fetch(ctx context.Context, rawURL string) (*model.FetchResult, error) {
	identity, err := ParseIdentity(rawURL)
	if err != nil {
		return nil, err
	}
	log := f.log.WithField("video_id", identity.VideoID)

	source := f.metadata
	if identity.Platform == model.PlatformYouTube && f.youtube != nil {
		source = f.youtube
	}

	meta, err := source.FetchMetadata(ctx, identity)
	if err != nil {
		return nil, err
	}

	result := &model.FetchResult{
		Identity:        identity,
		Title:           meta.Title,
		DurationSeconds: meta.DurationSeconds,
	}

	outcome, text := f.trySubtitles(ctx, meta.Tracks)
	result.Subtitle = outcome
	if outcome.Status == model.SubtitleFound {
		result.TranscriptText = &text
		result.HasNativeSubtitle = true
		log.WithFields(logrus.Fields{"language": outcome.Language, "ext": outcome.Ext}).Info("using native subtitles")
		return result, nil
	}
	if outcome.Status == model.SubtitleFailed {
		log.WithError(outcome.Err).Warn("subtitle fetch failed, falling back to audio")
	}

	audioPath, err := f.audio.DownloadAudio(ctx, identity, f.opts.TempDir)
	if err != nil {
		return nil, err
	}
	result.AudioPath = &audioPath
	log.WithField("audio_path", audioPath).Info("audio downloaded")

	return result, nil
}

// trySubtitles never fails: problems are reported through the outcome
func (f *fetcher) trySubtitles(ctx context.Context, tracks []SubtitleTrack) (model.SubtitleOutcome, string) {
	track, ok := SelectTrack(tracks, f.opts.SubtitleLanguages)
	if !ok {
		return model.SubtitleOutcome{Status: model.SubtitleNone}, ""
	}

	outcome := model.SubtitleOutcome{Language: track.Language, Ext: track.Ext}

	payload, err := f.subtitles.FetchSubtitle(ctx, track)
	if err != nil {
		outcome.Status = model.SubtitleFailed
		outcome.Err = err
		return outcome, ""
	}

	text := CleanSubtitle(payload, track.Ext)
	if text == "" {
		outcome.Status = model.SubtitleFailed
		outcome.Err = fmt.Errorf("subtitle %s/%s is empty after cleaning", track.Language, track.Ext)
		return outcome, ""
	}

	outcome.Status = model.SubtitleFound
	return outcome, text
}
