package coverage

import (
	"cmp"
	"slices"
)

// MergeIntervals coalesces overlapping or integer-adjacent light intervals.
// Two intervals touch when next.Start <= last.End+1, so [5,10] and [11,15]
// merge into [5,15]. The input slice is not modified.
func MergeIntervals(intervals []LightInterval) []LightInterval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := slices.Clone(intervals)
	slices.SortFunc(sorted, func(a, b LightInterval) int {
		return cmp.Compare(a.Start, b.Start)
	})

	merged := []LightInterval{sorted[0]}
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if next.Start <= last.End+1 {
			last.End = max(last.End, next.End)
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// Spans reports whether a single merged interval contains [lo, hi].
// Coverage pieced together from disjoint blocks does not count.
func Spans(merged []LightInterval, lo, hi int) bool {
	for _, m := range merged {
		if m.Start <= lo && m.End >= hi {
			return true
		}
	}
	return false
}
