package coverage

import "fmt"

// Axis names used in errors and reports.
const (
	AxisDistance = "distance"
	AxisLight    = "light"
)

// Interval is a closed range [Min, Max] on one axis.
type Interval struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Valid reports whether Min <= Max.
func (i Interval) Valid() bool {
	return i.Min <= i.Max
}

// Contains reports whether v lies in the interval (both ends inclusive).
func (i Interval) Contains(v float64) bool {
	return v >= i.Min && v <= i.Max
}

func (i Interval) String() string {
	return fmt.Sprintf("[%g,%g]", i.Min, i.Max)
}

// Region is an axis-aligned rectangle in distance × light space. It describes
// both the required coverage of a software camera and the coverage offered by
// a single hardware camera.
type Region struct {
	Distance Interval `json:"distance" yaml:"distance"`
	Light    Interval `json:"light" yaml:"light"`
}

// Contains reports whether the point (d, l) lies inside the region, edges
// inclusive.
func (r Region) Contains(d, l float64) bool {
	return r.Distance.Contains(d) && r.Light.Contains(l)
}

// Corners returns the four corner points of the region in the order
// (dmin,lmin), (dmin,lmax), (dmax,lmin), (dmax,lmax).
func (r Region) Corners() [4]Point {
	return [4]Point{
		{Distance: r.Distance.Min, Light: r.Light.Min},
		{Distance: r.Distance.Min, Light: r.Light.Max},
		{Distance: r.Distance.Max, Light: r.Light.Min},
		{Distance: r.Distance.Max, Light: r.Light.Max},
	}
}

func (r Region) String() string {
	return fmt.Sprintf("d=%s l=%s", r.Distance, r.Light)
}

// Point is a single coordinate in distance × light space.
type Point struct {
	Distance float64 `json:"distance"`
	Light    float64 `json:"light"`
}

// Lattice holds the requirement rounded inward to integer bounds. Only these
// lattice points must actually be covered.
type Lattice struct {
	DMin int `json:"d_min"`
	DMax int `json:"d_max"`
	LMin int `json:"l_min"`
	LMax int `json:"l_max"`
}

// DiscreteRect is a sensor region clipped to the lattice.
type DiscreteRect struct {
	DMin int
	DMax int
	LMin int
	LMax int
}

// Degenerate reports whether clipping left the rect empty on either axis.
func (r DiscreteRect) Degenerate() bool {
	return r.DMin > r.DMax || r.LMin > r.LMax
}

// Stripe is a closed integer range [Start, End] of the distance axis over
// which the set of active rects is evaluated as a whole.
type Stripe struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Stripe) String() string {
	return fmt.Sprintf("[%d,%d]", s.Start, s.End)
}

// LightInterval is a closed integer span of the light axis.
type LightInterval struct {
	Start int
	End   int
}
