package coverage

import (
	"errors"
	"fmt"
)

// ErrInvalidRange matches every *InvalidRangeError via errors.Is.
var ErrInvalidRange = errors.New("invalid camera range: min > max")

// InvalidRangeError reports a sensor whose bounds are inverted on an axis.
// It is a caller error and is never folded into a negative coverage result.
type InvalidRangeError struct {
	Index int
	Axis  string
	Min   float64
	Max   float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s: sensor %d %s [%g,%g]", ErrInvalidRange, e.Index, e.Axis, e.Min, e.Max)
}

// Is lets errors.Is(err, ErrInvalidRange) succeed.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// ValidateSensors returns an *InvalidRangeError for the first sensor with
// min > max on either axis.
func ValidateSensors(sensors []Region) error {
	for i, s := range sensors {
		if s.Distance.Min > s.Distance.Max {
			return &InvalidRangeError{Index: i, Axis: AxisDistance, Min: s.Distance.Min, Max: s.Distance.Max}
		}
		if s.Light.Min > s.Light.Max {
			return &InvalidRangeError{Index: i, Axis: AxisLight, Min: s.Light.Min, Max: s.Light.Max}
		}
	}
	return nil
}
