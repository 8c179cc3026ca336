/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics.go
Description: Prometheus instrumentation for loghound runs. Grounded on the
promauto-registered counter/histogram vectors used throughout the Kubilitics
metrics packages, rebound from cluster/LLM metrics to scan and detection
metrics: scan duration, tokens emitted, dictionary size, records processed,
and anomalies flagged.
*/

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ScanDuration records wall-clock time spent in the byte-pattern
	// match finder, labeled by input path.
	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loghound_scan_duration_seconds",
			Help:    "Time spent running the byte-pattern match finder.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		},
		[]string{"input"},
	)

	// TokensEmitted counts tokens produced by the match finder.
	TokensEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loghound_tokens_emitted_total",
			Help: "Total tokens emitted by the byte-pattern match finder.",
		},
		[]string{"input", "kind"},
	)

	// DictionarySize reports the number of distinct dictionary entries
	// surviving the min_count filter for the most recent run.
	DictionarySize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "loghound_dictionary_size",
			Help: "Number of distinct back-reference entries in the dictionary.",
		},
		[]string{"input"},
	)

	// RecordsProcessed counts records scored, labeled by scoring mode.
	RecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loghound_records_processed_total",
			Help: "Total records scored.",
		},
		[]string{"input", "mode"},
	)

	// AnomaliesFlagged counts records flagged by the detector, labeled by
	// detection method.
	AnomaliesFlagged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loghound_anomalies_flagged_total",
			Help: "Total records flagged as anomalous.",
		},
		[]string{"input", "method"},
	)
)

// Handler returns the HTTP handler that serves the Prometheus exposition
// format, for wiring into an optional debug listener.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve starts a blocking HTTP server exposing /metrics on addr. Intended
// to be run in its own goroutine by the CLI when --metrics-addr is set.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}
