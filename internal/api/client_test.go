package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/httputil"
	"github.com/banshee-data/coverage.report/internal/scenario"
)

func clientScenario() *scenario.Scenario {
	full := coverage.Region{
		Distance: coverage.Interval{Min: 10, Max: 20},
		Light:    coverage.Interval{Min: 5, Max: 15},
	}
	return &scenario.Scenario{
		Name:     "remote",
		Required: full,
		Sensors:  []scenario.Sensor{{ID: "only", Region: full}},
	}
}

func TestClient_CheckAgainstServer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewServer(nil).ServeMux())
	defer srv.Close()

	c := NewClient(httputil.NewStandardClient(srv.Client()), srv.URL+"/")
	resp, err := c.Check(context.Background(), clientScenario())
	require.NoError(t, err)
	assert.True(t, resp.Sufficient)
	assert.Equal(t, coverage.ReasonSufficient, resp.Reason)
	assert.Equal(t, 1, resp.EffectiveSensors)
	assert.NotEmpty(t, resp.RunID)
}

func TestClient_InvalidRange(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewServer(nil).ServeMux())
	defer srv.Close()

	s := clientScenario()
	s.Sensors[0].Distance = coverage.Interval{Min: 20, Max: 10}

	_, err := NewClient(httputil.NewStandardClient(srv.Client()), srv.URL).Check(context.Background(), s)
	require.Error(t, err)
	assert.ErrorIs(t, err, coverage.ErrInvalidRange)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnprocessableEntity, remote.StatusCode)
	assert.Contains(t, remote.Message, "sensor 0 distance [20,10]")
}

func TestClient_RequestShape(t *testing.T) {
	t.Parallel()

	mock := httputil.NewMockHTTPClient().
		AddResponse(http.StatusOK, `{"run_id":"r1","sufficient":false,"reason":"light_gap","stripe":{"start":3,"end":4}}`)

	resp, err := NewClient(mock, "http://coverage.local").Check(context.Background(), clientScenario())
	require.NoError(t, err)
	assert.Equal(t, coverage.ReasonLightGap, resp.Reason)
	assert.Equal(t, &coverage.Stripe{Start: 3, End: 4}, resp.Stripe)

	require.Equal(t, 1, mock.RequestCount())
	req, body := mock.Request(0)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "http://coverage.local/api/coverage/check", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var sent scenario.Scenario
	require.NoError(t, json.Unmarshal(body, &sent))
	assert.Equal(t, "remote", sent.Name)
	assert.Equal(t, "only", sent.Sensors[0].ID)
}

func TestClient_Failures(t *testing.T) {
	t.Parallel()

	transportErr := errors.New("connection refused")
	mock := httputil.NewMockHTTPClient().
		AddErrorResponse(transportErr).
		AddResponse(http.StatusBadRequest, `{"error":"scenario name is required"}`).
		AddResponse(http.StatusBadGateway, "upstream down").
		AddResponse(http.StatusOK, "not json")
	c := NewClient(mock, "http://coverage.local")
	ctx := context.Background()

	_, err := c.Check(ctx, clientScenario())
	assert.ErrorIs(t, err, transportErr)

	_, err = c.Check(ctx, clientScenario())
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "scenario name is required", remote.Message)
	assert.NotErrorIs(t, err, coverage.ErrInvalidRange)

	_, err = c.Check(ctx, clientScenario())
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "coverage server returned 502: upstream down", err.Error())

	_, err = c.Check(ctx, clientScenario())
	assert.ErrorContains(t, err, "decode response")
}

func TestCheckResponse_Report(t *testing.T) {
	t.Parallel()

	var resp CheckResponse
	require.NoError(t, json.Unmarshal([]byte(`{"run_id":"r","reason":"corner_uncovered","corner":{"distance":20,"light":5}}`), &resp))
	rep := resp.Report()
	assert.False(t, rep.Sufficient)
	assert.Equal(t, coverage.ReasonCornerUncovered, rep.Reason)
	assert.Equal(t, &coverage.Point{Distance: 20, Light: 5}, rep.Corner)

	assert.Error(t, json.Unmarshal([]byte(`{"reason":"mostly_fine"}`), &resp))
}
