package interval

import (
	"errors"
	"testing"
	"time"

	"captioncorpus/internal/services"
)

func iv(index int, start, end float64, text string) Interval {
	return Interval{
		Start:    FromSeconds(start),
		End:      FromSeconds(end),
		Text:     text,
		SourceID: "talk.en.vtt",
		Index:    index,
	}
}

func TestDurationIsDerived(t *testing.T) {
	item := iv(0, 1.5, 4.0, "x")
	if item.Duration() != 2500*time.Millisecond {
		t.Fatalf("duration = %s", item.Duration())
	}
	item.End = FromSeconds(5)
	if item.Seconds() != 3.5 {
		t.Fatalf("expected duration to follow End, got %v", item.Seconds())
	}
}

func TestCheckOrder(t *testing.T) {
	tests := []struct {
		name      string
		intervals []Interval
		wantErr   bool
	}{
		{name: "empty", intervals: nil},
		{name: "ordered", intervals: []Interval{iv(0, 0, 1, "a"), iv(1, 1, 2, "b"), iv(2, 1, 3, "c")}},
		{name: "gaps in index allowed", intervals: []Interval{iv(0, 0, 1, "a"), iv(5, 2, 3, "b")}},
		{name: "zero length", intervals: []Interval{iv(0, 1, 1, "a")}, wantErr: true},
		{name: "inverted", intervals: []Interval{iv(0, 2, 1, "a")}, wantErr: true},
		{name: "decreasing index", intervals: []Interval{iv(1, 0, 1, "a"), iv(0, 1, 2, "b")}, wantErr: true},
		{name: "repeated index", intervals: []Interval{iv(1, 0, 1, "a"), iv(1, 1, 2, "b")}, wantErr: true},
		{name: "decreasing start", intervals: []Interval{iv(0, 2, 3, "a"), iv(1, 1, 4, "b")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Track{Intervals: tt.intervals}.Validate()
			if tt.wantErr {
				if !errors.Is(err, services.ErrInputOrder) {
					t.Fatalf("expected ErrInputOrder, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00.000000"},
		{FromSeconds(1.2), "00:00:01.200000"},
		{time.Hour + 2*time.Minute + 3*time.Second + 4*time.Microsecond, "01:02:03.000004"},
		{-1500 * time.Millisecond, "-00:00:01.500000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.in); got != tt.want {
			t.Fatalf("FormatTimestamp(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCloneDoesNotShareBacking(t *testing.T) {
	src := []Interval{iv(0, 0, 1, "a")}
	dup := Clone(src)
	dup[0].Text = "changed"
	if src[0].Text != "a" {
		t.Fatal("clone shares backing array")
	}
	if Clone(nil) != nil {
		t.Fatal("expected nil clone of nil")
	}
}
