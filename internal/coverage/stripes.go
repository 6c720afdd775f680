package coverage

import (
	"cmp"
	"slices"
	"sort"
)

// Boundaries returns the sorted, deduplicated stripe boundaries:
// {lat.DMin, lat.DMax+1} plus, for each rect, its DMin, DMax+1 and the floor
// of its distance midpoint. The midpoint splits stripes where a partially
// overlapping rect could otherwise be judged over too wide a span.
func Boundaries(lat Lattice, rects []DiscreteRect) []int {
	seen := make(map[int]struct{}, 2+3*len(rects))
	out := make([]int, 0, 2+3*len(rects))
	add := func(b int) {
		if _, ok := seen[b]; ok {
			return
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}

	add(lat.DMin)
	add(lat.DMax + 1)
	for _, r := range rects {
		add(r.DMin)
		add(r.DMax + 1)
		add(floorHalf(r.DMin + r.DMax))
	}
	sort.Ints(out)
	return out
}

// floorHalf is floor(v/2), rounding toward negative infinity.
func floorHalf(v int) int {
	return v >> 1
}

// Stripes turns sorted boundaries into abutting closed stripes
// [b[i], b[i+1]-1].
func Stripes(boundaries []int) []Stripe {
	if len(boundaries) < 2 {
		return nil
	}
	out := make([]Stripe, 0, len(boundaries)-1)
	for i := 0; i+1 < len(boundaries); i++ {
		out = append(out, Stripe{Start: boundaries[i], End: boundaries[i+1] - 1})
	}
	return out
}

// Active returns the rects that fully contain the stripe on the distance axis.
func Active(s Stripe, rects []DiscreteRect) []DiscreteRect {
	var out []DiscreteRect
	for _, r := range rects {
		if r.DMin <= s.Start && r.DMax >= s.End {
			out = append(out, r)
		}
	}
	return out
}

// sweep walks the stripes over rects, which must be sorted by DMin, and
// returns the first failing stripe and the reason it failed.
func sweep(lat Lattice, rects []DiscreteRect) (Stripe, Reason, int) {
	stripes := Stripes(Boundaries(lat, rects))
	lights := make([]LightInterval, 0, len(rects))
	for _, s := range stripes {
		lights = lights[:0]
		for _, r := range rects {
			if r.DMin > s.Start {
				break
			}
			if r.DMax >= s.End {
				lights = append(lights, LightInterval{Start: r.LMin, End: r.LMax})
			}
		}
		if len(lights) == 0 {
			return s, ReasonStripeUncovered, len(stripes)
		}
		if !Spans(MergeIntervals(lights), lat.LMin, lat.LMax) {
			return s, ReasonLightGap, len(stripes)
		}
	}
	return Stripe{}, ReasonSufficient, len(stripes)
}

func sortByDistance(rects []DiscreteRect) {
	slices.SortFunc(rects, func(a, b DiscreteRect) int {
		return cmp.Compare(a.DMin, b.DMin)
	})
}
