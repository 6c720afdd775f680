package api

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/db"
	"github.com/banshee-data/coverage.report/internal/scenario"
)

func setupTestServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()
	dbInst, err := db.NewDB(cloneHistoryDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { dbInst.Close() })
	return NewServer(dbInst), dbInst
}

func TestCloneHistoryDB_Independent(t *testing.T) {
	t.Parallel()
	_, first := setupTestServer(t)
	_, second := setupTestServer(t)

	res, err := scenario.Evaluate(&scenario.Scenario{
		Name:     "clone",
		Required: coverage.Region{Distance: coverage.Interval{Min: 0, Max: 1}, Light: coverage.Interval{Min: 0, Max: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, first.RecordRun(res, db.SourceAPI))

	runs, err := first.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	runs, err = second.ListRuns(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStatusCodeColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want string
	}{
		{200, colorBoldGreen + "200" + colorReset},
		{302, colorYellow + "302" + colorReset},
		{422, colorBoldRed + "422" + colorReset},
		{503, colorBoldRed + "503" + colorReset},
		{101, "101"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusCodeColor(tt.code), "code %d", tt.code)
	}
}

// Not parallel: swaps the standard logger output.
func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/coverage/runs?limit=5", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	line := buf.String()
	assert.Contains(t, line, colorBoldRed+"418"+colorReset)
	assert.Contains(t, line, "GET "+colorCyan+"/api/coverage/runs?limit=5"+colorReset)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(line), "ms"))
}

func TestLoggingResponseWriter_Flush(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	lrw := &loggingResponseWriter{rec, http.StatusOK}
	lrw.Flush()
	assert.True(t, rec.Flushed)
}
