package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kleascm/loghound/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorsAcceptLabeledObservations(t *testing.T) {
	metrics.ScanDuration.WithLabelValues("in.log").Observe(0.01)
	metrics.TokensEmitted.WithLabelValues("in.log", "literal").Add(3)
	metrics.TokensEmitted.WithLabelValues("in.log", "back_ref").Add(2)
	metrics.DictionarySize.WithLabelValues("in.log").Set(7)
	metrics.RecordsProcessed.WithLabelValues("in.log", "byte-pattern").Inc()
	metrics.AnomaliesFlagged.WithLabelValues("in.log", "score").Inc()
}

func TestHandlerServesPrometheusExposition(t *testing.T) {
	metrics.DictionarySize.WithLabelValues("handler-test").Set(42)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "loghound_dictionary_size")
	assert.Contains(t, rec.Body.String(), `input="handler-test"`)
}

func TestHandlerExposesAllRegisteredMetricNames(t *testing.T) {
	metrics.ScanDuration.WithLabelValues("names-test").Observe(0.001)
	metrics.RecordsProcessed.WithLabelValues("names-test", "structured").Inc()
	metrics.AnomaliesFlagged.WithLabelValues("names-test", "top").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, name := range []string{
		"loghound_scan_duration_seconds",
		"loghound_tokens_emitted_total",
		"loghound_dictionary_size",
		"loghound_records_processed_total",
		"loghound_anomalies_flagged_total",
	} {
		assert.True(t, strings.Contains(body, name), "missing metric %s", name)
	}
}
