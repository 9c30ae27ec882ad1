package interval

import (
	"fmt"
	"time"

	"captioncorpus/internal/services"
)

// Default merge thresholds.
const (
	DefaultMergeMinGap    = time.Second
	DefaultMergeMaxLength = 15 * time.Second
)

// Merge coalesces consecutive intervals while the gap from the open
// accumulator's end to the next start is below minGap and the merged span
// would stay below maxMerged. Merged text joins with a single space and the
// merged interval keeps the accumulator's start, index and source.
//
// A negative gap means the track still overlaps and returns ErrInputOrder.
func Merge(intervals []Interval, minGap, maxMerged time.Duration) ([]Interval, error) {
	if len(intervals) == 0 {
		return nil, nil
	}
	out := make([]Interval, 0, len(intervals))
	acc := intervals[0]
	for _, next := range intervals[1:] {
		gap := next.Start - acc.End
		if gap < 0 {
			return nil, services.Wrap(services.ErrInputOrder, "interval", "merge",
				fmt.Sprintf("interval %d starts %s before interval %d ends", next.Index, -gap, acc.Index), nil)
		}
		if gap < minGap && next.End-acc.Start < maxMerged {
			acc.End = next.End
			acc.Text = joinText(acc.Text, next.Text)
			continue
		}
		out = append(out, acc)
		acc = next
	}
	return append(out, acc), nil
}

func joinText(left, right string) string {
	switch {
	case left == "":
		return right
	case right == "":
		return left
	default:
		return left + " " + right
	}
}
