package reliability

import (
	"math"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"HELLO WORLD", "hello world", 1},
		{"hello  world", " hello world ", 1},
		{"", "", 1},
		{"abc", "", 0},
		{"kitten", "sitting", 8.0 / 13.0},
		{"abcd", "abxy", 0.5},
		{"ab", "abcd", 4.0 / 6.0},
		{"hello there friend", "hello", 10.0 / 23.0},
		{"héllo", "hello", 0.8},
	}
	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarityPenalisesTruncatedTranscript(t *testing.T) {
	caption := "we walked down to the harbour before the storm arrived"
	if got := Similarity(caption, "we walked"); got >= 0.5 {
		t.Fatalf("truncated transcript scored %v, want below 0.5", got)
	}
	if Similarity(caption, "we walked") != Similarity("we walked", caption) {
		t.Fatal("similarity is not symmetric")
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"Hello  World", "hello world", 0},
		{"", "abc", 3},
	}
	for _, tt := range tests {
		if got := EditDistance(tt.a, tt.b); got != tt.want {
			t.Fatalf("EditDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
