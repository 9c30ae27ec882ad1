// Package preflight provides readiness checks for the external binaries
// and filesystem paths that captioncorpus depends on.
//
// These checks run in two contexts:
//   - The process command calls RunAll before touching any media so a missing
//     ffmpeg or an unwritable corpus fails fast instead of after extraction.
//   - The CLI "captioncorpus preflight" command prints every result.
//
// Checks for optional features are gated by their config toggle.
package preflight
