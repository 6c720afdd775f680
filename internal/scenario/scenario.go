// Package scenario describes a camera rig to be checked: the coverage a
// software camera requires and the hardware cameras available to provide it.
// Scenarios are read from JSON or YAML files and evaluated with the coverage
// package.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/coverage.report/internal/coverage"
)

// Sensor is a hardware camera and the region of distance × light it covers.
type Sensor struct {
	ID              string `json:"id,omitempty" yaml:"id,omitempty"`
	Name            string `json:"name,omitempty" yaml:"name,omitempty"`
	coverage.Region `yaml:",inline"`
}

// Scenario is a software camera requirement and the sensors offered for it.
// Expected, when set, records the decision the author of the file expects.
type Scenario struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Required    coverage.Region `json:"required" yaml:"required"`
	Sensors     []Sensor        `json:"sensors" yaml:"sensors"`
	Expected    *bool           `json:"expected,omitempty" yaml:"expected,omitempty"`
}

// Validate checks the scenario. Inverted sensor bounds are reported first, as
// a *coverage.InvalidRangeError, whatever else is wrong with the scenario.
func (s *Scenario) Validate() error {
	if err := coverage.ValidateSensors(s.SensorRegions()); err != nil {
		return err
	}
	if s.Name == "" {
		return errors.New("scenario name is required")
	}
	if err := checkFinite("required", s.Required); err != nil {
		return err
	}
	if !s.Required.Distance.Valid() {
		return fmt.Errorf("required distance %s has min > max", s.Required.Distance)
	}
	if !s.Required.Light.Valid() {
		return fmt.Errorf("required light %s has min > max", s.Required.Light)
	}
	seen := make(map[string]struct{}, len(s.Sensors))
	for i, sensor := range s.Sensors {
		if err := checkFinite(fmt.Sprintf("sensor %d", i), sensor.Region); err != nil {
			return err
		}
		if sensor.ID == "" {
			continue
		}
		if _, dup := seen[sensor.ID]; dup {
			return fmt.Errorf("sensor %d: duplicate id %q", i, sensor.ID)
		}
		seen[sensor.ID] = struct{}{}
	}
	return nil
}

func checkFinite(what string, r coverage.Region) error {
	for _, v := range []float64{r.Distance.Min, r.Distance.Max, r.Light.Min, r.Light.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: bounds must be finite, got %s", what, r)
		}
	}
	return nil
}

// AssignIDs gives every sensor without an ID a fresh UUID.
func (s *Scenario) AssignIDs() {
	for i := range s.Sensors {
		if s.Sensors[i].ID == "" {
			s.Sensors[i].ID = uuid.New().String()
		}
	}
}

// SensorRegions returns the sensor regions in file order.
func (s *Scenario) SensorRegions() []coverage.Region {
	regions := make([]coverage.Region, len(s.Sensors))
	for i, sensor := range s.Sensors {
		regions[i] = sensor.Region
	}
	return regions
}

// Result is one evaluation of a scenario.
type Result struct {
	RunID       string          `json:"run_id"`
	Scenario    *Scenario       `json:"scenario"`
	Report      coverage.Report `json:"report"`
	EvaluatedAt time.Time       `json:"evaluated_at"`
}

// MeetsExpectation reports whether the decision matches Scenario.Expected.
// Without an expectation, only sufficient coverage counts as a match.
func (r *Result) MeetsExpectation() bool {
	if r.Scenario.Expected == nil {
		return r.Report.Sufficient
	}
	return *r.Scenario.Expected == r.Report.Sufficient
}

// Evaluate validates the scenario and runs the coverage check. A sensor with
// inverted bounds yields an error wrapping *coverage.InvalidRangeError.
func Evaluate(s *Scenario) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	rep, err := coverage.Evaluate(s.Required, s.SensorRegions())
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return &Result{
		RunID:       uuid.New().String(),
		Scenario:    s,
		Report:      rep,
		EvaluatedAt: time.Now().UTC(),
	}, nil
}
