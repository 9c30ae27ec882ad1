// Package config loads, normalizes, and validates captioncorpus configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// pipeline and CLI need: corpus and work directories, filter chain thresholds,
// reliability sampling, WhisperX oracle settings, export checks, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
