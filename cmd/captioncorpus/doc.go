// Package main hosts the captioncorpus CLI entrypoint and command graph.
//
// The Cobra-based command tree turns a media file and its captions into
// aligned speech records: it parses the caption track, runs the filter
// chain, optionally cross-checks a sample against WhisperX, and exports the
// survivors into the corpus. Supporting commands inspect a caption file
// without exporting, summarize the manifest, scaffold configuration, and run
// preflight checks.
//
// Keep this package lean: new behaviour belongs in the internal packages
// first and is surfaced here through dedicated commands or flags.
package main
