package fetcher

import (
	"context"
	"math"

	"github.com/kkdai/youtube/v2"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
)

// youtubeMetadataSource reads YouTube metadata and caption tracks without yt-dlp
type youtubeMetadataSource struct {
	client youtube.Client
}

// NewYouTubeMetadataSource creates a MetadataSource backed by kkdai/youtube
func NewYouTubeMetadataSource() MetadataSource {
	return &youtubeMetadataSource{
		client: youtube.Client{},
	}
}

// FetchMetadata fetches the watch page data for a YouTube identity
func (s *youtubeMetadataSource) FetchMetadata(ctx context.Context, identity model.VideoIdentity) (*Metadata, error) {
	if identity.Platform != model.PlatformYouTube {
		return nil, errors.New(errors.CodeInvalidArg, "native source only supports YouTube videos").WithKind(ErrMetadata)
	}

	video, err := s.client.GetVideoContext(ctx, identity.VideoID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "failed to fetch YouTube video info").WithKind(ErrMetadata)
	}

	meta := &Metadata{
		Title:           video.Title,
		DurationSeconds: int(math.Round(video.Duration.Seconds())),
	}
	for _, track := range video.CaptionTracks {
		meta.Tracks = append(meta.Tracks, SubtitleTrack{
			Language:  track.LanguageCode,
			Ext:       "xml",
			URL:       track.BaseURL,
			Automatic: track.Kind == "asr",
		})
	}

	return meta, nil
}
