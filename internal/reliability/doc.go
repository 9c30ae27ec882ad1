// Package reliability decides whether a caption track is trustworthy enough
// to export by cross-checking a random sample of its intervals against a
// transcription oracle.
//
// The decision is all-or-nothing for the track. A sample whose oracle calls
// all fail is rejected.
package reliability
