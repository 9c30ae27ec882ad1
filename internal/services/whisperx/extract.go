package whisperx

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ExtractClip cuts [start, end) of the first audio stream in source into a
// mono PCM WAV at dest.
func ExtractClip(ctx context.Context, ffmpegBinary, source string, start, end time.Duration, sampleRate int, dest string) error {
	args, err := buildClipArgs(source, start, end, sampleRate, dest)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract clip: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func buildClipArgs(source string, start, end time.Duration, sampleRate int, dest string) ([]string, error) {
	if start < 0 || end <= start {
		return nil, fmt.Errorf("extract clip: invalid range %s-%s", start, end)
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(end - start),
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}, nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
