package coverage

import (
	"fmt"

	"github.com/banshee-data/coverage.report/internal/monitoring"
)

// Reason identifies the gate that decided a coverage check.
type Reason int

const (
	// ReasonSufficient means every gate passed.
	ReasonSufficient Reason = iota
	// ReasonCornerUncovered means a corner of the requirement lies outside
	// every sensor.
	ReasonCornerUncovered
	// ReasonNoEffectiveSensors means no sensor survived clipping to the lattice.
	ReasonNoEffectiveSensors
	// ReasonStripeUncovered means a distance stripe has no active sensor.
	ReasonStripeUncovered
	// ReasonLightGap means the active sensors of a stripe leave part of the
	// required light range uncovered.
	ReasonLightGap
)

var reasonNames = map[Reason]string{
	ReasonSufficient:         "sufficient",
	ReasonCornerUncovered:    "corner_uncovered",
	ReasonNoEffectiveSensors: "no_effective_sensors",
	ReasonStripeUncovered:    "stripe_uncovered",
	ReasonLightGap:           "light_gap",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the reason by name.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a reason name produced by MarshalText.
func (r *Reason) UnmarshalText(text []byte) error {
	for reason, name := range reasonNames {
		if name == string(text) {
			*r = reason
			return nil
		}
	}
	return fmt.Errorf("unknown coverage reason %q", text)
}

// Report explains a coverage decision. Corner is set only for
// ReasonCornerUncovered; Stripe only for the two stripe reasons.
type Report struct {
	Sufficient       bool    `json:"sufficient"`
	Reason           Reason  `json:"reason"`
	Corner           *Point  `json:"corner,omitempty"`
	Stripe           *Stripe `json:"stripe,omitempty"`
	Lattice          Lattice `json:"lattice"`
	EffectiveSensors int     `json:"effective_sensors"`
	StripeCount      int     `json:"stripe_count"`
}

// WillSuffice reports whether sensors jointly cover req under the discrete
// policy described in the package documentation. It returns an
// *InvalidRangeError, and no decision, if any sensor has min > max.
func WillSuffice(req Region, sensors []Region) (bool, error) {
	rep, err := Evaluate(req, sensors)
	if err != nil {
		return false, err
	}
	return rep.Sufficient, nil
}

// Evaluate runs the same decision as WillSuffice and reports which gate
// settled it.
func Evaluate(req Region, sensors []Region) (Report, error) {
	if err := ValidateSensors(sensors); err != nil {
		return Report{}, err
	}

	var rep Report
	rep.Lattice = Discretize(req)

	if p, uncovered := uncoveredCorner(req, sensors); uncovered {
		monitoring.Debugf("coverage: corner (%g,%g) of %s not covered by %d sensors",
			p.Distance, p.Light, req, len(sensors))
		rep.Reason = ReasonCornerUncovered
		rep.Corner = &p
		return rep, nil
	}

	rects := Clip(sensors, rep.Lattice)
	rep.EffectiveSensors = len(rects)
	if len(rects) == 0 {
		monitoring.Debugf("coverage: no sensor survives clipping to lattice %+v", rep.Lattice)
		rep.Reason = ReasonNoEffectiveSensors
		return rep, nil
	}

	sortByDistance(rects)
	stripe, reason, n := sweep(rep.Lattice, rects)
	rep.StripeCount = n
	rep.Reason = reason
	if reason != ReasonSufficient {
		monitoring.Debugf("coverage: stripe %s failed: %s", stripe, reason)
		rep.Stripe = &stripe
		return rep, nil
	}

	rep.Sufficient = true
	return rep, nil
}
