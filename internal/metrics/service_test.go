package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncMatchesCreated()
	s.IncMatchesFinished(true)
	s.IncMatchesFinished(false)
	s.IncMatchesFinished(false)
	s.IncRoundsRecorded()
	s.IncStoreRetries()

	assert.Equal(t, 1.0, testutil.ToFloat64(s.MatchesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MatchesFinished.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.MatchesFinished.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.RoundsRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.StoreRetries))
}

func TestMetricsHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncRoundsRecorded()
	s.ObserveOperationDuration("add_round", 0.01)

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "domino_rounds_recorded_total 1")
	assert.Contains(t, rr.Body.String(), `domino_ledger_operation_duration_seconds_count{operation="add_round"} 1`)
}
