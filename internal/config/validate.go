package config

import (
	"errors"
	"fmt"
	"regexp"

	"captioncorpus/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateValidation(); err != nil {
		return err
	}
	if err := c.validateWhisperX(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePipeline() error {
	p := c.Pipeline
	if p.OverlapWidth < 0 {
		return errors.New("pipeline.overlap_width must be non-negative")
	}
	if _, err := regexp.Compile(p.AllowedPattern); err != nil {
		return fmt.Errorf("pipeline.allowed_pattern: %w", err)
	}
	if p.MinWords < 0 || p.MaxWords < 0 {
		return errors.New("pipeline.min_words and pipeline.max_words must be non-negative")
	}
	if p.MaxWords > 0 && p.MaxWords < p.MinWords {
		return errors.New("pipeline.max_words must be at least pipeline.min_words")
	}
	if p.MergeMinGapSeconds < 0 {
		return errors.New("pipeline.merge_min_gap_seconds must be non-negative")
	}
	if p.MergeMaxSeconds <= 0 {
		return errors.New("pipeline.merge_max_seconds must be positive")
	}
	if p.MinDurationSeconds < 0 || p.MaxDurationSeconds < 0 {
		return errors.New("pipeline duration bounds must be non-negative")
	}
	if p.MaxDurationSeconds > 0 && p.MaxDurationSeconds < p.MinDurationSeconds {
		return errors.New("pipeline.max_duration_seconds must be at least pipeline.min_duration_seconds")
	}
	if p.MinIntervals < 0 {
		return errors.New("pipeline.min_intervals must be non-negative")
	}
	return nil
}

func (c *Config) validateValidation() error {
	v := c.Validation
	if v.SampleSize <= 0 {
		return errors.New("validation.sample_size must be positive")
	}
	if v.Threshold < 0 || v.Threshold > 1 {
		return errors.New("validation.threshold must be between 0 and 1")
	}
	if v.CallTimeoutSeconds <= 0 {
		return errors.New("validation.call_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateWhisperX() error {
	switch c.WhisperX.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("whisperx.vad_method: unsupported value %q", c.WhisperX.VADMethod)
	}
	if c.WhisperX.VADMethod == "pyannote" && c.WhisperX.HFToken == "" {
		return errors.New("whisperx.hf_token is required when whisperx.vad_method is pyannote")
	}
	if c.WhisperX.Language != "" && !language.Known(c.WhisperX.Language) {
		return fmt.Errorf("whisperx.language: unrecognized language %q", c.WhisperX.Language)
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.SampleRate <= 0 {
		return errors.New("export.sample_rate must be positive")
	}
	if c.Export.MinAudioBytes < 0 {
		return errors.New("export.min_audio_bytes must be non-negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
