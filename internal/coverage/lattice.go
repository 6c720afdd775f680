package coverage

import "math"

// latticeLimit bounds lattice coordinates to ±2^61, leaving headroom for the
// DMin+DMax and DMax+1 arithmetic in Boundaries. Every float64 integer up to
// this magnitude converts exactly.
const latticeLimit = 1 << 61

// toLattice converts an already rounded float to a lattice coordinate,
// saturating values beyond latticeLimit, infinities included.
func toLattice(v float64) int {
	switch {
	case v >= latticeLimit:
		return latticeLimit
	case v <= -latticeLimit:
		return -latticeLimit
	}
	return int(v)
}

// Discretize rounds the requirement inward to the integer lattice:
// ceil on the lower bounds, floor on the upper bounds.
func Discretize(req Region) Lattice {
	return Lattice{
		DMin: toLattice(math.Ceil(req.Distance.Min)),
		DMax: toLattice(math.Floor(req.Distance.Max)),
		LMin: toLattice(math.Ceil(req.Light.Min)),
		LMax: toLattice(math.Floor(req.Light.Max)),
	}
}

// ClipSensor intersects a sensor with the lattice bounds and rounds the
// result inward. The returned rect may be degenerate.
func ClipSensor(s Region, lat Lattice) DiscreteRect {
	return DiscreteRect{
		DMin: toLattice(math.Ceil(math.Max(s.Distance.Min, float64(lat.DMin)))),
		DMax: toLattice(math.Floor(math.Min(s.Distance.Max, float64(lat.DMax)))),
		LMin: toLattice(math.Ceil(math.Max(s.Light.Min, float64(lat.LMin)))),
		LMax: toLattice(math.Floor(math.Min(s.Light.Max, float64(lat.LMax)))),
	}
}

// Clip clips every sensor to the lattice and drops the degenerate ones.
func Clip(sensors []Region, lat Lattice) []DiscreteRect {
	rects := make([]DiscreteRect, 0, len(sensors))
	for _, s := range sensors {
		r := ClipSensor(s, lat)
		if r.Degenerate() {
			continue
		}
		rects = append(rects, r)
	}
	return rects
}
