package interval

// DefaultOverlapWidth is the neighbourhood examined on each side of an interval.
const DefaultOverlapWidth = 3

// Overlaps reports whether either interval's end falls strictly inside the
// other's span.
func Overlaps(a, b Interval) bool {
	if a.End > b.Start && a.End < b.End {
		return true
	}
	if b.End > a.Start && b.End < a.End {
		return true
	}
	return false
}

// RemoveOverlaps drops every interval that overlaps any neighbour within width
// positions on either side. Both members of an overlapping pair are dropped.
// Survivors keep their relative order. The second return value is the number
// of intervals removed.
func RemoveOverlaps(intervals []Interval, width int) ([]Interval, int) {
	if width <= 0 {
		width = DefaultOverlapWidth
	}
	bad := make([]bool, len(intervals))
	for idx := range intervals {
		for offset := -width; offset <= width; offset++ {
			if offset == 0 {
				continue
			}
			other := idx + offset
			if other < 0 || other >= len(intervals) {
				continue
			}
			if Overlaps(intervals[idx], intervals[other]) {
				bad[idx] = true
				bad[other] = true
			}
		}
	}

	kept := make([]Interval, 0, len(intervals))
	removed := 0
	for idx, item := range intervals {
		if bad[idx] {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	return kept, removed
}
