// Package services defines shared utilities consumed by the pipeline stages and
// external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp source identifiers, stage names, and run
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that separate fatal input
//     contract violations from recoverable per-source outcomes.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
