package filters

import "captioncorpus/internal/interval"

// Batch is the record threaded through a chain. Stages treat it as immutable
// and return modified copies.
type Batch struct {
	SourceID  string
	MediaPath string
	Intervals []interval.Interval
	Rejected  bool
	Reason    string
}

// NewBatch builds a batch from a track. The intervals are copied.
func NewBatch(track interval.Track) Batch {
	return Batch{
		SourceID:  track.SourceID,
		MediaPath: track.MediaPath,
		Intervals: interval.Clone(track.Intervals),
	}
}

// Len returns the number of intervals in the batch.
func (b Batch) Len() int {
	return len(b.Intervals)
}

// Empty reports whether no intervals remain.
func (b Batch) Empty() bool {
	return len(b.Intervals) == 0
}

// WithIntervals returns a copy of b carrying intervals.
func (b Batch) WithIntervals(intervals []interval.Interval) Batch {
	b.Intervals = intervals
	return b
}

// Reject returns an empty copy of b marked rejected with reason.
func (b Batch) Reject(reason string) Batch {
	b.Intervals = nil
	b.Rejected = true
	b.Reason = reason
	return b
}
