package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CorpusDir string `toml:"corpus_dir"`
	LogDir    string `toml:"log_dir"`
	WorkDir   string `toml:"work_dir"`
}

// Pipeline contains thresholds for the caption filter chain.
type Pipeline struct {
	OverlapWidth       int      `toml:"overlap_width"`
	Blacklist          []string `toml:"blacklist"`
	AllowedPattern     string   `toml:"allowed_pattern"`
	MinWords           int      `toml:"min_words"`
	MaxWords           int      `toml:"max_words"`
	MergeMinGapSeconds float64  `toml:"merge_min_gap_seconds"`
	MergeMaxSeconds    float64  `toml:"merge_max_seconds"`
	MinDurationSeconds float64  `toml:"min_duration_seconds"`
	MaxDurationSeconds float64  `toml:"max_duration_seconds"`
	MinIntervals       int      `toml:"min_intervals"`
}

// Validation contains configuration for the transcript reliability cross-check.
type Validation struct {
	Enabled bool `toml:"enabled"`
	// SampleSize is the number of accepted cues sent to the oracle.
	SampleSize int `toml:"sample_size"`
	// Threshold is the mean similarity the sample must exceed. Default: 0.3
	Threshold          float64 `toml:"threshold"`
	CallTimeoutSeconds int     `toml:"call_timeout_seconds"`
	// Seed pins sample selection when non-zero.
	Seed uint64 `toml:"seed"`
}

// WhisperX contains settings for the transcription oracle.
type WhisperX struct {
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
	VADMethod   string `toml:"vad_method"`
	HFToken     string `toml:"hf_token"`
	Language    string `toml:"language"`
}

// Export contains settings for writing accepted records to the corpus.
type Export struct {
	SampleRate    int   `toml:"sample_rate"`
	MinAudioBytes int64 `toml:"min_audio_bytes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for captioncorpus.
//
// Configuration sections by subsystem:
//   - Paths: corpus, log, and scratch directories
//   - Pipeline: overlap, text, merge, and duration filter thresholds
//   - Validation: oracle cross-check sampling and acceptance threshold
//   - WhisperX: transcription oracle model and device settings
//   - Export: audio format and sanity checks for written records
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Pipeline   Pipeline   `toml:"pipeline"`
	Validation Validation `toml:"validation"`
	WhisperX   WhisperX   `toml:"whisperx"`
	Export     Export     `toml:"export"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/captioncorpus/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("captioncorpus.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the corpus, log, and work directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CorpusDir, c.Paths.LogDir, c.Paths.WorkDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ManifestPath returns the location of the corpus manifest database.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Paths.CorpusDir, "manifest.db")
}

// CallTimeout returns the per-call oracle timeout.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Validation.CallTimeoutSeconds) * time.Second
}

// FFmpegBinary returns the ffmpeg executable name used for audio extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
