package api

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/db"
	"github.com/banshee-data/coverage.report/internal/httputil"
	"github.com/banshee-data/coverage.report/internal/render"
	"github.com/banshee-data/coverage.report/internal/scenario"
)

const maxListLimit = 1000

// CheckResponse is the body returned by POST /api/coverage/check.
type CheckResponse struct {
	RunID            string           `json:"run_id"`
	Sufficient       bool             `json:"sufficient"`
	Reason           coverage.Reason  `json:"reason"`
	Corner           *coverage.Point  `json:"corner,omitempty"`
	Stripe           *coverage.Stripe `json:"stripe,omitempty"`
	EffectiveSensors int              `json:"effective_sensors"`
	StripeCount      int              `json:"stripe_count"`
}

func newCheckResponse(res *scenario.Result) CheckResponse {
	return CheckResponse{
		RunID:            res.RunID,
		Sufficient:       res.Report.Sufficient,
		Reason:           res.Report.Reason,
		Corner:           res.Report.Corner,
		Stripe:           res.Report.Stripe,
		EffectiveSensors: res.Report.EffectiveSensors,
		StripeCount:      res.Report.StripeCount,
	}
}

// Report converts the response back into a coverage report. The lattice is
// not part of the response and is left zero.
func (c CheckResponse) Report() coverage.Report {
	return coverage.Report{
		Sufficient:       c.Sufficient,
		Reason:           c.Reason,
		Corner:           c.Corner,
		Stripe:           c.Stripe,
		EffectiveSensors: c.EffectiveSensors,
		StripeCount:      c.StripeCount,
	}
}

func (s *Server) checkCoverage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var sc scenario.Scenario
	if err := httputil.DecodeJSON(w, r, &sc); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	sc.AssignIDs()

	res, err := scenario.Evaluate(&sc)
	switch {
	case errors.Is(err, coverage.ErrInvalidRange):
		httputil.UnprocessableEntity(w, err.Error())
		return
	case err != nil:
		httputil.BadRequest(w, err.Error())
		return
	}

	if s.store != nil {
		if err := s.store.RecordRun(res, db.SourceAPI); err != nil {
			log.Printf("failed to record coverage run %s: %v", res.RunID, err)
			httputil.InternalServerError(w, "failed to record coverage run")
			return
		}
	}
	httputil.WriteJSONOK(w, newCheckResponse(res))
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.store == nil {
		httputil.NotFound(w, "run history is disabled")
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxListLimit {
			httputil.BadRequest(w, "Invalid 'limit' parameter")
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		log.Printf("failed to list coverage runs: %v", err)
		httputil.InternalServerError(w, "failed to list coverage runs")
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) showRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	run, ok := s.lookupRun(w, r.PathValue("id"))
	if !ok {
		return
	}
	httputil.WriteJSONOK(w, run)
}

func (s *Server) showChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		httputil.BadRequest(w, "missing 'run_id' parameter")
		return
	}
	run, ok := s.lookupRun(w, runID)
	if !ok {
		return
	}

	// Redraw from the stored inputs; the decision is deterministic.
	sc := run.Scenario()
	rep, err := coverage.Evaluate(sc.Required, sc.SensorRegions())
	if err != nil {
		httputil.UnprocessableEntity(w, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := render.RenderChart(&buf, sc, rep); err != nil {
		log.Printf("failed to render chart for run %s: %v", runID, err)
		httputil.InternalServerError(w, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) lookupRun(w http.ResponseWriter, runID string) (*db.Run, bool) {
	if s.store == nil {
		httputil.NotFound(w, "run history is disabled")
		return nil, false
	}
	run, err := s.store.GetRun(runID)
	if errors.Is(err, db.ErrRunNotFound) {
		httputil.NotFound(w, "coverage run not found")
		return nil, false
	}
	if err != nil {
		log.Printf("failed to load coverage run %s: %v", runID, err)
		httputil.InternalServerError(w, "failed to load coverage run")
		return nil, false
	}
	return run, true
}
