package interval

import (
	"fmt"
	"math"
	"time"

	"captioncorpus/internal/services"
)

// Interval is one timestamped caption cue.
type Interval struct {
	Start    time.Duration
	End      time.Duration
	Text     string
	SourceID string
	Index    int
}

// Duration reports End-Start. It is always derived, never stored.
func (i Interval) Duration() time.Duration {
	return i.End - i.Start
}

// Seconds reports the duration in fractional seconds.
func (i Interval) Seconds() float64 {
	return i.Duration().Seconds()
}

// Valid reports whether the interval spans a positive amount of time.
func (i Interval) Valid() bool {
	return i.End > i.Start
}

func (i Interval) String() string {
	return fmt.Sprintf("#%d [%s-%s] %q", i.Index, FormatTimestamp(i.Start), FormatTimestamp(i.End), i.Text)
}

// Track is the ordered interval sequence read from one caption source.
type Track struct {
	SourceID  string
	MediaPath string
	Intervals []Interval
}

// Len returns the number of intervals in the track.
func (t Track) Len() int {
	return len(t.Intervals)
}

// Validate checks the ordering contract: every interval has End > Start,
// Index is strictly increasing and Start never decreases.
func (t Track) Validate() error {
	return CheckOrder(t.Intervals)
}

// CheckOrder applies the ordering contract to a bare interval slice.
func CheckOrder(intervals []Interval) error {
	for idx, current := range intervals {
		if !current.Valid() {
			return services.Wrap(services.ErrInputOrder, "interval", "check order",
				fmt.Sprintf("interval %d ends at or before its start", current.Index), nil)
		}
		if idx == 0 {
			continue
		}
		prev := intervals[idx-1]
		if current.Index <= prev.Index {
			return services.Wrap(services.ErrInputOrder, "interval", "check order",
				fmt.Sprintf("sequence index %d follows %d", current.Index, prev.Index), nil)
		}
		if current.Start < prev.Start {
			return services.Wrap(services.ErrInputOrder, "interval", "check order",
				fmt.Sprintf("interval %d starts at %s before previous start %s",
					current.Index, FormatTimestamp(current.Start), FormatTimestamp(prev.Start)), nil)
		}
	}
	return nil
}

// Clone returns a copy of the slice so callers can hand out results without
// sharing backing arrays.
func Clone(intervals []Interval) []Interval {
	if intervals == nil {
		return nil
	}
	return append(make([]Interval, 0, len(intervals)), intervals...)
}

// FormatTimestamp renders d as HH:MM:SS.ffffff.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		return "-" + FormatTimestamp(-d)
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	micros := d / time.Microsecond
	return fmt.Sprintf("%02d:%02d:%02d.%06d", hours, minutes, seconds, micros)
}

// FromSeconds converts fractional seconds to a duration rounded to the
// nearest microsecond.
func FromSeconds(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds*1e6)) * time.Microsecond
}
