// Package filters composes the caption cleaning pipeline.
//
// A Chain is an ordered list of stages threaded over a Batch. Transform stages
// return a new Batch; predicate stages gate the whole batch and, when they
// fail, the chain stops with an empty rejected batch. Cancellation is checked
// between stages only.
//
// ReferenceChain builds the stock order used by the process command. Run is
// the package entry point: it applies a chain to a Track and optionally runs
// the reliability check on the survivors.
package filters
