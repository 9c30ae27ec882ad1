// Package interval holds the caption interval model and the two interval
// algebra passes that run over an ordered track: overlap removal and
// adjacency merging.
//
// Intervals are values. Both passes return fresh slices and never mutate the
// caller's input, so a track can be re-run through different settings.
package interval
