package transcription

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Taichi-iskw/yt-notes/internal/service/common"
)

// AudioSegment is a slice of an audio file, in seconds
type AudioSegment struct {
	Index  int
	Start  float64
	Length float64
}

// PlanSegments splits duration into sequential, non-overlapping segments of ceiling
// seconds; the last one holds the remainder. Durations up to the ceiling yield one segment.
func PlanSegments(duration float64, ceiling int) []AudioSegment {
	if ceiling <= 0 || duration <= float64(ceiling) {
		return []AudioSegment{{Index: 0, Start: 0, Length: duration}}
	}

	count := int(math.Ceil(duration / float64(ceiling)))
	segments := make([]AudioSegment, 0, count)
	for i := 0; i < count; i++ {
		start := float64(i * ceiling)
		length := math.Min(float64(ceiling), duration-start)
		segments = append(segments, AudioSegment{Index: i, Start: start, Length: length})
	}
	return segments
}

// probeDuration reads the container duration with ffprobe
func probeDuration(ctx context.Context, runner common.CmdRunner, audioPath string) (float64, error) {
	out, err := runner.Run(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	)
	if err != nil {
		return 0, err
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", strings.TrimSpace(string(out)), err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("non-positive duration %v", duration)
	}
	return duration, nil
}

// cutSegment copies one segment of src into dst without re-encoding
func cutSegment(ctx context.Context, runner common.CmdRunner, src, dst string, seg AudioSegment) error {
	_, err := runner.Run(ctx, "ffmpeg",
		"-y",
		"-v", "error",
		"-ss", formatSeconds(seg.Start),
		"-t", formatSeconds(seg.Length),
		"-i", src,
		"-acodec", "copy",
		dst,
	)
	return err
}

// segmentPath returns the temp file name of segment i next to src
func segmentPath(src string, index int) string {
	ext := filepath.Ext(src)
	base := strings.TrimSuffix(src, ext)
	return fmt.Sprintf("%s_part%03d%s", base, index, ext)
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
