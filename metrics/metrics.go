// Package metrics provides Prometheus metrics for the wikigraph MCP server.
// It tracks tool call counts, fetch latencies, redirect behavior, and the
// size of the exploration graph.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "wikigraph_mcp"
)

var (
	// RequestsTotal counts total MCP tool calls by tool name and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures request latency distribution
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "request_duration_seconds",
		Help:      "Request latency distribution by tool",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing requests
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "requests_in_flight",
		Help:      "Number of requests currently being processed",
	}, []string{"tool"})

	// FetchesTotal counts Wikipedia fetches by request kind and outcome
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "fetches_total",
		Help:      "Total Wikipedia fetches by request kind and outcome",
	}, []string{"kind", "status"})

	// FetchDuration measures fetch latency by request kind
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Wikipedia fetch latency by request kind",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	// GraphNodes tracks the current node count of the exploration graph
	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "graph_nodes",
		Help:      "Current number of nodes in the exploration graph",
	})

	// GraphEdges tracks the current edge count of the exploration graph
	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "graph_edges",
		Help:      "Current number of edges in the exploration graph",
	})

	// GraphLoadedBodies tracks how many graph nodes hold a fetched body
	GraphLoadedBodies = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "graph_loaded_bodies",
		Help:      "Graph nodes currently holding a fetched body",
	})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in tool handlers",
	}, []string{"tool"})
)

// RecordRequest records a completed tool call with its duration and status
func RecordRequest(tool string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	RequestsTotal.WithLabelValues(tool, status).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordFetch records one Wikipedia fetch outcome
func RecordFetch(kind, status string, duration time.Duration) {
	FetchesTotal.WithLabelValues(kind, status).Inc()
	FetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// SetGraphState updates the exploration graph gauges
func SetGraphState(nodes, edges, loaded int) {
	GraphNodes.Set(float64(nodes))
	GraphEdges.Set(float64(edges))
	GraphLoadedBodies.Set(float64(loaded))
}
