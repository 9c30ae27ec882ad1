package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"

	"captioncorpus/internal/contentkey"
	"captioncorpus/internal/interval"
	"captioncorpus/internal/logging"
	"captioncorpus/internal/services"
)

// DefaultMinAudioBytes is the smallest WAV accepted as a real clip.
const DefaultMinAudioBytes = 4 * 1024

// lockFileName guards the corpus root against concurrent writers.
const lockFileName = ".captioncorpus.lock"

// lockRetryDelay is the poll interval while waiting for the corpus lock.
const lockRetryDelay = 250 * time.Millisecond

// AudioExtractor cuts [start, end) of a media file into a WAV at dest.
type AudioExtractor interface {
	ExtractClip(ctx context.Context, source string, start, end time.Duration, dest string) error
}

// Source describes the media the exported intervals came from.
type Source struct {
	SourceID  string
	MediaPath string
	RunID     string
	// Info is embedded verbatim in every metadata file, typically the
	// downloader's .info.json sidecar.
	Info map[string]any
}

// Summary counts what an export did.
type Summary struct {
	Written int
	Skipped int
	Empty   int
	Keys    []string
}

// Exporter writes records under a corpus root.
type Exporter struct {
	root          string
	extractor     AudioExtractor
	manifest      *Manifest
	minAudioBytes int64
	logger        *slog.Logger
	progress      io.Writer
	now           func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithManifest records exported records in m.
func WithManifest(m *Manifest) Option {
	return func(e *Exporter) { e.manifest = m }
}

// WithLogger sets the exporter logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) { e.logger = logger }
}

// WithProgress renders a progress bar to w.
func WithProgress(w io.Writer) Option {
	return func(e *Exporter) { e.progress = w }
}

// WithMinAudioBytes overrides the clip size check.
func WithMinAudioBytes(n int64) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.minAudioBytes = n
		}
	}
}

// NewExporter builds an exporter rooted at root.
func NewExporter(root string, extractor AudioExtractor, opts ...Option) *Exporter {
	e := &Exporter{
		root:          root,
		extractor:     extractor,
		minAudioBytes: DefaultMinAudioBytes,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "corpus")
	return e
}

// Paths returns the wav, txt and metadata paths for key.
func (e *Exporter) Paths(key string) (wav, txt, meta string) {
	shard := contentkey.Shard(key)
	wav = filepath.Join(e.root, "wav", shard, key+".wav")
	txt = filepath.Join(e.root, "txt", shard, key+".txt")
	meta = filepath.Join(e.root, "metadata", shard, key+".json")
	return wav, txt, meta
}

// Export writes every interval of src. It holds the corpus lock for the whole
// call. Extraction failures stop the export and are returned as is; nothing
// is retried.
func (e *Exporter) Export(ctx context.Context, src Source, intervals []interval.Interval) (Summary, error) {
	var summary Summary
	if e.extractor == nil {
		return summary, services.Wrap(services.ErrConfiguration, "corpus", "export", "audio extractor not configured", nil)
	}
	if err := os.MkdirAll(e.root, 0o755); err != nil {
		return summary, fmt.Errorf("ensure corpus dir: %w", err)
	}

	lock := flock.New(filepath.Join(e.root, lockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return summary, fmt.Errorf("acquire corpus lock: %w", err)
	}
	if !locked {
		return summary, fmt.Errorf("acquire corpus lock: %s is held by another process", lock.Path())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			e.logger.Warn("failed to release corpus lock", logging.Error(err))
		}
	}()

	logger := logging.WithContext(ctx, e.logger)
	bar := e.newBar(len(intervals), src.SourceID)
	defer func() { _ = bar.Finish() }()

	for _, item := range intervals {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("export %s: %w", src.SourceID, err)
		}
		outcome, err := e.exportOne(ctx, src, item)
		_ = bar.Add(1)
		if err != nil {
			return summary, err
		}
		switch outcome {
		case outcomeEmpty:
			summary.Empty++
		case outcomeSkipped:
			summary.Skipped++
			summary.Keys = append(summary.Keys, contentkey.KeyFor(item))
		default:
			summary.Written++
			summary.Keys = append(summary.Keys, contentkey.KeyFor(item))
		}
	}

	logger.Info("corpus export complete",
		logging.String(logging.FieldEventType, "export_complete"),
		logging.Int("written", summary.Written),
		logging.Int("skipped", summary.Skipped),
		logging.Int("empty", summary.Empty),
	)
	return summary, nil
}

type exportOutcome int

const (
	outcomeWritten exportOutcome = iota
	outcomeSkipped
	outcomeEmpty
)

func (e *Exporter) exportOne(ctx context.Context, src Source, item interval.Interval) (exportOutcome, error) {
	text := strings.TrimSpace(item.Text)
	if text == "" {
		return outcomeEmpty, nil
	}
	key := contentkey.KeyFor(item)
	wavPath, txtPath, metaPath := e.Paths(key)

	if fileExists(wavPath) && fileExists(txtPath) {
		if err := e.remember(ctx, src, item, key, wavPath); err != nil {
			return outcomeSkipped, err
		}
		return outcomeSkipped, nil
	}

	for _, dir := range []string{filepath.Dir(wavPath), filepath.Dir(txtPath), filepath.Dir(metaPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return outcomeWritten, fmt.Errorf("ensure record dir: %w", err)
		}
	}

	if err := e.extractor.ExtractClip(ctx, src.MediaPath, item.Start, item.End, wavPath); err != nil {
		return outcomeWritten, services.Wrap(services.ErrExternalTool, "corpus", "extract audio",
			fmt.Sprintf("interval %d of %s", item.Index, src.SourceID), err)
	}
	if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
		return outcomeWritten, fmt.Errorf("write transcript: %w", err)
	}
	if err := e.writeMetadata(metaPath, src, item, key, text); err != nil {
		return outcomeWritten, err
	}

	info, err := os.Stat(wavPath)
	if err != nil || info.Size() < e.minAudioBytes {
		size := int64(0)
		if info != nil {
			size = info.Size()
		}
		for _, path := range []string{wavPath, txtPath, metaPath} {
			_ = os.Remove(path)
		}
		return outcomeWritten, services.Wrap(services.ErrValidation, "corpus", "verify audio",
			fmt.Sprintf("%s is %d bytes, want at least %d", wavPath, size, e.minAudioBytes), err)
	}

	if err := e.remember(ctx, src, item, key, wavPath); err != nil {
		return outcomeWritten, err
	}
	return outcomeWritten, nil
}

type recordMetadata struct {
	Key             string         `json:"key"`
	SourceID        string         `json:"source_id"`
	RunID           string         `json:"run_id,omitempty"`
	MediaPath       string         `json:"media_path"`
	Index           int            `json:"index"`
	Start           string         `json:"ts_start"`
	End             string         `json:"ts_end"`
	DurationSeconds float64        `json:"duration"`
	Text            string         `json:"text"`
	ExportedAt      string         `json:"exported_at"`
	Info            map[string]any `json:"metadata,omitempty"`
}

func (e *Exporter) writeMetadata(path string, src Source, item interval.Interval, key, text string) error {
	payload := recordMetadata{
		Key:             key,
		SourceID:        src.SourceID,
		RunID:           src.RunID,
		MediaPath:       src.MediaPath,
		Index:           item.Index,
		Start:           interval.FormatTimestamp(item.Start),
		End:             interval.FormatTimestamp(item.End),
		DurationSeconds: item.Seconds(),
		Text:            text,
		ExportedAt:      e.now().UTC().Format(time.RFC3339),
		Info:            src.Info,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func (e *Exporter) remember(ctx context.Context, src Source, item interval.Interval, key, wavPath string) error {
	if e.manifest == nil {
		return nil
	}
	var size int64
	if info, err := os.Stat(wavPath); err == nil {
		size = info.Size()
	}
	_, err := e.manifest.AddRecord(ctx, Record{
		Key:       key,
		SourceID:  src.SourceID,
		RunID:     src.RunID,
		Start:     item.Start,
		End:       item.End,
		Text:      item.Text,
		WavBytes:  size,
		CreatedAt: e.now(),
	})
	return err
}

func (e *Exporter) newBar(total int, description string) *progressbar.ProgressBar {
	w := e.progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// ReadInfoSidecar loads the JSON sidecar written next to a downloaded media
// file (<base>.info.json). A missing sidecar returns nil without error.
func ReadInfoSidecar(mediaPath string) (map[string]any, error) {
	path := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".info.json"
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read info sidecar: %w", err)
	}
	var info map[string]any
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse info sidecar %s: %w", path, err)
	}
	return info, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
