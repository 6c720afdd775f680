package coverage

// CornersCovered reports whether each corner of req lies inside at least one
// sensor. It works on the original float coordinates, so a corner that the
// later discretisation would round away is still caught here.
func CornersCovered(req Region, sensors []Region) bool {
	_, ok := uncoveredCorner(req, sensors)
	return !ok
}

// uncoveredCorner returns the first corner of req not contained in any sensor.
func uncoveredCorner(req Region, sensors []Region) (Point, bool) {
	for _, p := range req.Corners() {
		if !anyContains(sensors, p) {
			return p, true
		}
	}
	return Point{}, false
}

func anyContains(sensors []Region, p Point) bool {
	for _, s := range sensors {
		if s.Contains(p.Distance, p.Light) {
			return true
		}
	}
	return false
}
