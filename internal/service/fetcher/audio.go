package fetcher

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/service/common"
)

// AudioDownloader extracts a video's audio track to a local file
type AudioDownloader interface {
	// DownloadAudio writes {outputDir}/{sanitized video id}.mp3 and returns its path
	DownloadAudio(ctx context.Context, identity model.VideoIdentity, outputDir string) (string, error)
}

// ytDlpAudioDownloader implements AudioDownloader using yt-dlp + ffmpeg
type ytDlpAudioDownloader struct {
	cmdRunner   common.CmdRunner
	bitrate     string
	cookiesFile string
}

// NewAudioDownloader creates an AudioDownloader with the given CmdRunner
func NewAudioDownloader(cmdRunner common.CmdRunner, bitrate, cookiesFile string) AudioDownloader {
	if bitrate == "" {
		bitrate = "128K"
	}
	return &ytDlpAudioDownloader{
		cmdRunner:   cmdRunner,
		bitrate:     bitrate,
		cookiesFile: cookiesFile,
	}
}

// DownloadAudio downloads the best audio stream and transcodes it to mono mp3
func (d *ytDlpAudioDownloader) DownloadAudio(ctx context.Context, identity model.VideoIdentity, outputDir string) (string, error) {
	if outputDir == "" {
		return "", errors.New(errors.CodeInvalidArg, "output directory is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to create output directory")
	}

	// File names are keyed by video identity so concurrent runs never collide
	base := SanitizeFilename(identity.VideoID)
	audioPath := filepath.Join(outputDir, base+".mp3")

	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", d.bitrate,
		"--postprocessor-args", "ExtractAudio:-ac 1",
		"--no-playlist",
		"--no-warnings",
		"--output", filepath.Join(outputDir, base+".%(ext)s"),
	}
	if d.cookiesFile != "" {
		args = append(args, "--cookies", d.cookiesFile)
	}
	args = append(args, identity.CanonicalURL())

	if _, err := d.cmdRunner.Run(ctx, "yt-dlp", args...); err != nil {
		removePartialDownloads(outputDir, base)
		return "", errors.Wrap(err, classifyYtDlpError(err), formatYtDlpError(err, identity.VideoID)).WithKind(ErrDownload)
	}

	if _, err := os.Stat(audioPath); err != nil {
		removePartialDownloads(outputDir, base)
		return "", errors.Wrap(err, errors.CodeExternal, "yt-dlp finished but the audio file is missing").WithKind(ErrDownload)
	}

	return audioPath, nil
}

// removePartialDownloads deletes leftovers such as .webm or .part files for base
func removePartialDownloads(outputDir, base string) {
	matches, err := filepath.Glob(filepath.Join(outputDir, globEscape(base)+".*"))
	if err != nil {
		return
	}
	for _, m := range matches {
		_ = os.Remove(m)
	}
}

func globEscape(s string) string {
	var out []rune
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
