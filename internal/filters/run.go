package filters

import (
	"context"

	"captioncorpus/internal/interval"
	"captioncorpus/internal/reliability"
	"captioncorpus/internal/services"
)

// Result is the outcome of running one track through the pipeline.
type Result struct {
	SourceID   string
	Candidates int
	Intervals  []interval.Interval
	Rejected   bool
	Reason     string
	Verdict    reliability.Verdict
	Report     *reliability.Report
}

// Empty reports whether the run produced no data. An empty result is a valid
// outcome, not a failure.
func (r Result) Empty() bool {
	return len(r.Intervals) == 0
}

// Accepted returns the number of intervals that survived.
func (r Result) Accepted() int {
	return len(r.Intervals)
}

// Run applies chain to track and, when validator is non-nil, checks the
// survivors with a trailing Reliability stage. A reject verdict discards every
// interval. The verdict is VerdictSkipped when no validator is given or an
// earlier predicate rejected the batch.
func Run(ctx context.Context, track interval.Track, chain *Chain, validator *reliability.Validator) (Result, error) {
	if track.SourceID != "" {
		ctx = services.WithSourceID(ctx, track.SourceID)
	}
	result := Result{
		SourceID:   track.SourceID,
		Candidates: track.Len(),
		Verdict:    reliability.VerdictSkipped,
	}

	var report *reliability.Report
	if validator != nil {
		chain = chain.Append(Reliability(validator, func(r reliability.Report) {
			report = &r
		}))
	}

	batch, err := chain.Apply(ctx, NewBatch(track))
	if err != nil {
		return result, err
	}
	result.Intervals = batch.Intervals
	result.Rejected = batch.Rejected
	result.Reason = batch.Reason

	if report == nil {
		return result, nil
	}
	result.Report = report
	result.Verdict = report.Verdict
	if !report.Accepted() {
		result.Reason = StageReliability + ": " + report.Reason
	}
	return result, nil
}
