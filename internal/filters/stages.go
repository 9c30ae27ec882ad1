package filters

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"captioncorpus/internal/interval"
	"captioncorpus/internal/logging"
	"captioncorpus/internal/reliability"
	"captioncorpus/internal/textnorm"
)

// Stage names.
const (
	StageValidate       = "validate_order"
	StageRemoveOverlaps = "remove_overlaps"
	StageBlacklist      = "drop_blacklisted_symbols"
	StageNormalize      = "normalize_text"
	StagePattern        = "require_pattern"
	StageWordCount      = "word_count"
	StageAlphaNumeric   = "alphanumeric_text"
	StageMerge          = "merge_adjacent"
	StageDuration       = "duration_range"
	StageMinIntervals   = "min_intervals"
	StageReliability    = "reliability"
)

// rejectedSamples caps how many failing texts the pattern stage logs.
const rejectedSamples = 3

// Validate checks the ordering contract and fails the chain on violation.
func Validate() Stage {
	return NewTransform(StageValidate, func(_ context.Context, batch Batch) (Batch, error) {
		if err := interval.CheckOrder(batch.Intervals); err != nil {
			return batch, err
		}
		return batch, nil
	})
}

// RemoveOverlaps drops intervals overlapping a neighbour within width positions.
func RemoveOverlaps(width int) Stage {
	return NewTransform(StageRemoveOverlaps, func(_ context.Context, batch Batch) (Batch, error) {
		kept, _ := interval.RemoveOverlaps(batch.Intervals, width)
		return batch.WithIntervals(kept), nil
	})
}

// DropBlacklistedSymbols drops intervals whose text contains any of symbols.
func DropBlacklistedSymbols(symbols []string) Stage {
	symbols = append([]string(nil), symbols...)
	return keepIf(StageBlacklist, func(item interval.Interval) bool {
		for _, symbol := range symbols {
			if symbol != "" && strings.Contains(item.Text, symbol) {
				return false
			}
		}
		return true
	})
}

// NormalizeText rewrites every interval's text with textnorm.Normalize.
func NormalizeText() Stage {
	return mapText(StageNormalize, textnorm.Normalize)
}

// RequirePattern keeps intervals whose text matches pattern. A few rejected
// texts are logged at debug level to help tune the pattern.
func RequirePattern(pattern *regexp.Regexp, logger *slog.Logger) Stage {
	logger = logging.NewComponentLogger(logger, "filters")
	return NewTransform(StagePattern, func(ctx context.Context, batch Batch) (Batch, error) {
		kept := make([]interval.Interval, 0, len(batch.Intervals))
		var rejected []string
		for _, item := range batch.Intervals {
			if pattern.MatchString(item.Text) {
				kept = append(kept, item)
				continue
			}
			if len(rejected) < rejectedSamples {
				rejected = append(rejected, item.Text)
			}
		}
		if len(rejected) > 0 {
			logging.WithContext(ctx, logger).Debug("caption text outside allowed characters",
				logging.Int("rejected", len(batch.Intervals)-len(kept)),
				logging.String("examples", strings.Join(rejected, " | ")),
			)
		}
		return batch.WithIntervals(kept), nil
	})
}

// WordCount keeps intervals with between minWords and maxWords words
// inclusive. A zero bound is not enforced.
func WordCount(minWords, maxWords int) Stage {
	return keepIf(StageWordCount, func(item interval.Interval) bool {
		n := textnorm.WordCount(item.Text)
		if minWords > 0 && n < minWords {
			return false
		}
		if maxWords > 0 && n > maxWords {
			return false
		}
		return true
	})
}

// AlphaNumericText rewrites every interval's text with textnorm.AlphaNumeric.
func AlphaNumericText() Stage {
	return mapText(StageAlphaNumeric, textnorm.AlphaNumeric)
}

// MergeAdjacent coalesces neighbouring intervals with interval.Merge.
func MergeAdjacent(minGap, maxMerged time.Duration) Stage {
	return NewTransform(StageMerge, func(_ context.Context, batch Batch) (Batch, error) {
		merged, err := interval.Merge(batch.Intervals, minGap, maxMerged)
		if err != nil {
			return batch, err
		}
		return batch.WithIntervals(merged), nil
	})
}

// DurationRange keeps intervals whose duration lies within [minDur, maxDur].
// A zero bound is not enforced.
func DurationRange(minDur, maxDur time.Duration) Stage {
	return keepIf(StageDuration, func(item interval.Interval) bool {
		d := item.Duration()
		if minDur > 0 && d < minDur {
			return false
		}
		if maxDur > 0 && d > maxDur {
			return false
		}
		return true
	})
}

// MinIntervals passes only batches holding more than n intervals.
func MinIntervals(n int) Stage {
	return NewPredicate(StageMinIntervals, func(_ context.Context, batch Batch) (bool, error) {
		return batch.Len() > n, nil
	})
}

// Reliability gates the batch on a reliability check. Oracle failures count
// against the batch; only cancellation or misconfiguration is an error. When
// record is non-nil it receives the report of every check.
func Reliability(validator *reliability.Validator, record func(reliability.Report)) Stage {
	return NewPredicate(StageReliability, func(ctx context.Context, batch Batch) (bool, error) {
		report, err := validator.Validate(ctx, batch.Intervals)
		if err != nil {
			return false, err
		}
		if record != nil {
			record(report)
		}
		return report.Accepted(), nil
	})
}

func keepIf(name string, keep func(interval.Interval) bool) Stage {
	return NewTransform(name, func(_ context.Context, batch Batch) (Batch, error) {
		kept := make([]interval.Interval, 0, len(batch.Intervals))
		for _, item := range batch.Intervals {
			if keep(item) {
				kept = append(kept, item)
			}
		}
		return batch.WithIntervals(kept), nil
	})
}

func mapText(name string, fn func(string) string) Stage {
	return NewTransform(name, func(_ context.Context, batch Batch) (Batch, error) {
		out := make([]interval.Interval, len(batch.Intervals))
		for i, item := range batch.Intervals {
			item.Text = fn(item.Text)
			out[i] = item
		}
		return batch.WithIntervals(out), nil
	})
}
