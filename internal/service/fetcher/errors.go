package fetcher

import (
	stderrors "errors"
	"strings"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
)

// Error kinds returned by Fetch, matched with errors.Is
var (
	ErrInvalidURL = stderrors.New("invalid video url")
	ErrMetadata   = stderrors.New("metadata retrieval failed")
	ErrDownload   = stderrors.New("audio download failed")
)

// classifyYtDlpError maps a yt-dlp failure to rejected (the site answered no)
// or unavailable (we could not reach it)
func classifyYtDlpError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "HTTP Error 4"),
		strings.Contains(msg, "Video unavailable"),
		strings.Contains(msg, "Private video"),
		strings.Contains(msg, "not available"),
		strings.Contains(msg, "Unsupported URL"),
		strings.Contains(msg, "login"):
		return errors.CodeRejected
	case strings.Contains(msg, "executable file not found"):
		return errors.CodeExternal
	default:
		return errors.CodeUnavailable
	}
}

// formatYtDlpError provides user-friendly error messages for yt-dlp failures
func formatYtDlpError(err error, videoID string) string {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "executable file not found"):
		return "yt-dlp is not installed or not found in PATH. Please install yt-dlp"
	case strings.Contains(errMsg, "Private video"):
		return "video is private and cannot be accessed"
	case strings.Contains(errMsg, "Video unavailable"), strings.Contains(errMsg, "not available"):
		return "video is not available (may be private, deleted, or region-blocked)"
	case strings.Contains(errMsg, "HTTP Error 404"):
		return "video not found - please check the video URL"
	case strings.Contains(errMsg, "HTTP Error 412"), strings.Contains(errMsg, "403"):
		return "access denied - the site may require login cookies (fetcher.cookies_file)"
	case strings.Contains(errMsg, "429"):
		return "rate limited by the video site - please try again later"
	case strings.Contains(errMsg, "ffmpeg") || strings.Contains(errMsg, "ffprobe"):
		return "ffmpeg is required for audio extraction and was not found or failed"
	default:
		return "yt-dlp failed for video '" + videoID + "' - " + errMsg
	}
}
