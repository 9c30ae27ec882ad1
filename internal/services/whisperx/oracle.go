package whisperx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"captioncorpus/internal/interval"
	"captioncorpus/internal/services"
)

// Oracle transcribes intervals of one media file. Each call works in its own
// scratch directory, removed afterwards.
type Oracle struct {
	service   *Service
	mediaPath string
	workDir   string
}

// NewOracle binds service to mediaPath. Scratch directories are created under
// workDir, or the system temp dir when empty.
func NewOracle(service *Service, mediaPath, workDir string) *Oracle {
	return &Oracle{service: service, mediaPath: mediaPath, workDir: workDir}
}

// Transcribe extracts the interval's audio and returns the WhisperX text.
func (o *Oracle) Transcribe(ctx context.Context, item interval.Interval) (string, error) {
	if o.workDir != "" {
		if err := os.MkdirAll(o.workDir, 0o755); err != nil {
			return "", services.Wrap(services.ErrExternalTool, "whisperx", "prepare scratch", "", err)
		}
	}
	scratch, err := os.MkdirTemp(o.workDir, "oracle-")
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "whisperx", "prepare scratch", "", err)
	}
	defer os.RemoveAll(scratch)

	clip := filepath.Join(scratch, fmt.Sprintf("clip-%d.wav", item.Index))
	if err := o.service.ExtractClip(ctx, o.mediaPath, item.Start, item.End, clip); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "whisperx", "extract clip", fmt.Sprintf("interval %d", item.Index), err)
	}
	result, err := o.service.TranscribeFile(ctx, clip, scratch)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "whisperx", "transcribe", fmt.Sprintf("interval %d", item.Index), err)
	}
	return result.Text, nil
}
