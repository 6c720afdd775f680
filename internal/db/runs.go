package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/scenario"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("coverage run not found")

// Run sources.
const (
	SourceCLI = "cli"
	SourceAPI = "api"
)

// RunSensor is one sensor as it was submitted with a run.
type RunSensor struct {
	Position int             `json:"position"`
	SensorID string          `json:"sensor_id"`
	Name     string          `json:"name,omitempty"`
	Region   coverage.Region `json:"region"`
}

// Run is a stored coverage evaluation.
type Run struct {
	RunID            string           `json:"run_id"`
	ScenarioName     string           `json:"scenario_name"`
	Description      string           `json:"description,omitempty"`
	Required         coverage.Region  `json:"required"`
	Sufficient       bool             `json:"sufficient"`
	Reason           string           `json:"reason"`
	Corner           *coverage.Point  `json:"corner,omitempty"`
	Stripe           *coverage.Stripe `json:"stripe,omitempty"`
	EffectiveSensors int              `json:"effective_sensors"`
	StripeCount      int              `json:"stripe_count"`
	Expected         *bool            `json:"expected,omitempty"`
	Source           string           `json:"source"`
	EvaluatedAtNs    int64            `json:"evaluated_at_ns"`
	Sensors          []RunSensor      `json:"sensors,omitempty"`
}

// Scenario rebuilds the scenario the run was evaluated from.
func (r *Run) Scenario() *scenario.Scenario {
	s := &scenario.Scenario{
		Name:        r.ScenarioName,
		Description: r.Description,
		Required:    r.Required,
		Expected:    r.Expected,
		Sensors:     make([]scenario.Sensor, len(r.Sensors)),
	}
	for i, rs := range r.Sensors {
		s.Sensors[i] = scenario.Sensor{ID: rs.SensorID, Name: rs.Name, Region: rs.Region}
	}
	return s
}

// RecordRun stores an evaluation result and its sensors in one transaction.
func (db *DB) RecordRun(res *scenario.Result, source string) (err error) {
	if res == nil || res.Scenario == nil {
		return errors.New("record run: nil result")
	}
	s, rep := res.Scenario, res.Report

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("record run: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var cornerD, cornerL sql.NullFloat64
	if rep.Corner != nil {
		cornerD = sql.NullFloat64{Float64: rep.Corner.Distance, Valid: true}
		cornerL = sql.NullFloat64{Float64: rep.Corner.Light, Valid: true}
	}
	var stripeStart, stripeEnd sql.NullInt64
	if rep.Stripe != nil {
		stripeStart = sql.NullInt64{Int64: int64(rep.Stripe.Start), Valid: true}
		stripeEnd = sql.NullInt64{Int64: int64(rep.Stripe.End), Valid: true}
	}
	var expected sql.NullInt64
	if s.Expected != nil {
		expected = sql.NullInt64{Int64: boolToInt(*s.Expected), Valid: true}
	}

	_, err = tx.Exec(`
		INSERT INTO coverage_runs (
			run_id, scenario_name, description,
			req_distance_min, req_distance_max, req_light_min, req_light_max,
			sufficient, reason, corner_distance, corner_light,
			stripe_start, stripe_end, effective_sensors, stripe_count,
			expected, source, evaluated_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, s.Name, nullString(s.Description),
		s.Required.Distance.Min, s.Required.Distance.Max, s.Required.Light.Min, s.Required.Light.Max,
		boolToInt(rep.Sufficient), rep.Reason.String(), cornerD, cornerL,
		stripeStart, stripeEnd, rep.EffectiveSensors, rep.StripeCount,
		expected, source, res.EvaluatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert coverage run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO coverage_run_sensors (
			run_id, position, sensor_id, name,
			distance_min, distance_max, light_min, light_max
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sensor insert: %w", err)
	}
	defer stmt.Close()

	for i, sensor := range s.Sensors {
		if _, err = stmt.Exec(
			res.RunID, i, sensor.ID, nullString(sensor.Name),
			sensor.Distance.Min, sensor.Distance.Max, sensor.Light.Min, sensor.Light.Max,
		); err != nil {
			return fmt.Errorf("insert run sensor %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}
	return nil
}

const runColumns = `
	run_id, scenario_name, description,
	req_distance_min, req_distance_max, req_light_min, req_light_max,
	sufficient, reason, corner_distance, corner_light,
	stripe_start, stripe_end, effective_sensors, stripe_count,
	expected, source, evaluated_at_ns`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var description sql.NullString
	var sufficient int64
	var cornerD, cornerL sql.NullFloat64
	var stripeStart, stripeEnd sql.NullInt64
	var expected sql.NullInt64

	err := row.Scan(
		&r.RunID, &r.ScenarioName, &description,
		&r.Required.Distance.Min, &r.Required.Distance.Max, &r.Required.Light.Min, &r.Required.Light.Max,
		&sufficient, &r.Reason, &cornerD, &cornerL,
		&stripeStart, &stripeEnd, &r.EffectiveSensors, &r.StripeCount,
		&expected, &r.Source, &r.EvaluatedAtNs,
	)
	if err != nil {
		return nil, err
	}

	r.Description = description.String
	r.Sufficient = sufficient != 0
	if cornerD.Valid && cornerL.Valid {
		r.Corner = &coverage.Point{Distance: cornerD.Float64, Light: cornerL.Float64}
	}
	if stripeStart.Valid && stripeEnd.Valid {
		r.Stripe = &coverage.Stripe{Start: int(stripeStart.Int64), End: int(stripeEnd.Int64)}
	}
	if expected.Valid {
		v := expected.Int64 != 0
		r.Expected = &v
	}
	return &r, nil
}

// GetRun retrieves a run and its sensors by ID.
func (db *DB) GetRun(runID string) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM coverage_runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get coverage run: %w", err)
	}

	rows, err := db.Query(`
		SELECT position, sensor_id, name, distance_min, distance_max, light_min, light_max
		FROM coverage_run_sensors
		WHERE run_id = ?
		ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run sensors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rs RunSensor
		var name sql.NullString
		if err := rows.Scan(
			&rs.Position, &rs.SensorID, &name,
			&rs.Region.Distance.Min, &rs.Region.Distance.Max,
			&rs.Region.Light.Min, &rs.Region.Light.Max,
		); err != nil {
			return nil, fmt.Errorf("scan run sensor: %w", err)
		}
		rs.Name = name.String
		r.Sensors = append(r.Sensors, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run sensors: %w", err)
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first, without their sensors.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`SELECT `+runColumns+` FROM coverage_runs
		ORDER BY evaluated_at_ns DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list coverage runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coverage run: %w", err)
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coverage runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run; its sensors go with it.
func (db *DB) DeleteRun(runID string) error {
	res, err := db.Exec(`DELETE FROM coverage_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete coverage run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete coverage run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
