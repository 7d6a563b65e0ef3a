// Package metrics holds the prometheus collectors for the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tool call outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

var (
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plasticlens",
		Name:      "tool_calls_total",
		Help:      "MCP tool invocations by tool and outcome.",
	}, []string{"tool", "outcome"})

	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plasticlens",
		Name:      "tool_duration_seconds",
		Help:      "MCP tool latency.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	}, []string{"tool"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plasticlens",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	datasetRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "plasticlens",
		Name:      "dataset_records",
		Help:      "Number of products in the loaded dataset.",
	})

	cacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "plasticlens",
		Name:      "cache_entries",
		Help:      "Entries held by the result cache, expired ones included until swept.",
	})
)

// ObserveToolCall records one tool invocation.
func ObserveToolCall(tool, outcome string, elapsed time.Duration) {
	toolCalls.WithLabelValues(tool, outcome).Inc()
	toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveHTTPRequest records one HTTP request.
func ObserveHTTPRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// SetDatasetRecords publishes the dataset size.
func SetDatasetRecords(n int) {
	datasetRecords.Set(float64(n))
}

// SetCacheEntries publishes the result cache size.
func SetCacheEntries(n int) {
	cacheEntries.Set(float64(n))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
