package interval

import "testing"

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{name: "disjoint", a: iv(0, 0, 1, ""), b: iv(1, 2, 3, ""), want: false},
		{name: "touching", a: iv(0, 0, 1, ""), b: iv(1, 1, 2, ""), want: false},
		{name: "end inside", a: iv(0, 0, 1.5, ""), b: iv(1, 1, 2, ""), want: true},
		{name: "reverse order", a: iv(1, 1, 2, ""), b: iv(0, 0, 1.5, ""), want: true},
		{name: "contained", a: iv(0, 0, 5, ""), b: iv(1, 1, 2, ""), want: true},
		{name: "same end", a: iv(0, 0, 2, ""), b: iv(1, 1, 2, ""), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoveOverlapsScenario(t *testing.T) {
	input := []Interval{
		iv(0, 0, 2, "one"),
		iv(1, 1, 3, "two"),
		iv(2, 4, 5, "three"),
	}
	kept, removed := RemoveOverlaps(input, 3)
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if len(kept) != 1 || kept[0].Text != "three" {
		t.Fatalf("expected only interval three to survive, got %v", kept)
	}
	if len(input) != 3 || input[0].Text != "one" {
		t.Fatal("input was mutated")
	}
}

func TestRemoveOverlapsRespectsWidth(t *testing.T) {
	// Interval 0 is long enough to overlap interval 3, which sits outside width 2.
	input := []Interval{
		iv(0, 0, 10, "long"),
		iv(1, 10, 11, "b"),
		iv(2, 11, 12, "c"),
		iv(3, 9, 9.5, "d"),
	}
	if err := CheckOrder(input[:3]); err != nil {
		t.Fatalf("fixture order: %v", err)
	}
	kept, removed := RemoveOverlaps(input, 2)
	if removed != 0 || len(kept) != 4 {
		t.Fatalf("width 2: expected nothing removed, got %d removed", removed)
	}
	kept, removed = RemoveOverlaps(input, 3)
	if removed != 2 || len(kept) != 2 {
		t.Fatalf("width 3: expected 2 removed, got %d", removed)
	}
	if kept[0].Text != "b" || kept[1].Text != "c" {
		t.Fatalf("unexpected survivors %v", kept)
	}
}

func TestRemoveOverlapsInvariant(t *testing.T) {
	input := []Interval{
		iv(0, 0, 1, "a"),
		iv(1, 0.5, 1.2, "b"),
		iv(2, 2, 3, "c"),
		iv(3, 3, 4, "d"),
		iv(4, 3.5, 6, "e"),
		iv(5, 6, 7, "f"),
		iv(6, 7.5, 8, "g"),
		iv(7, 7.9, 9, "h"),
		iv(8, 10, 11, "i"),
	}
	const width = 3
	kept, removed := RemoveOverlaps(input, width)
	if removed+len(kept) != len(input) {
		t.Fatalf("removed %d + kept %d != %d", removed, len(kept), len(input))
	}
	for i := range kept {
		for j := i - width; j <= i+width; j++ {
			if j < 0 || j >= len(kept) || j == i {
				continue
			}
			if Overlaps(kept[i], kept[j]) {
				t.Fatalf("survivors %v and %v overlap", kept[i], kept[j])
			}
		}
	}
	for i := 1; i < len(kept); i++ {
		if kept[i].Index <= kept[i-1].Index {
			t.Fatal("survivor order not preserved")
		}
	}
}

func TestRemoveOverlapsEmpty(t *testing.T) {
	kept, removed := RemoveOverlaps(nil, 3)
	if len(kept) != 0 || removed != 0 {
		t.Fatalf("expected empty result, got %v %d", kept, removed)
	}
}
