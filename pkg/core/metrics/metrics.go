// Package metrics exposes Prometheus instrumentation for the orchestration
// core: per-agent latency histograms and outcome counters.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	agentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shopagent",
		Name:      "agent_duration_seconds",
		Help:      "Wall-clock duration of each analysis agent task.",
		Buckets:   []float64{0.05, 0.25, 1, 5, 15, 30, 60, 120},
	}, []string{"agent"})

	agentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopagent",
		Name:      "agent_outcomes_total",
		Help:      "Agent task outcomes by status (ok/timeout/failed/skipped).",
	}, []string{"agent", "status"})

	orchestrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopagent",
		Name:      "orchestrations_total",
		Help:      "Orchestrated requests by result.",
	}, []string{"result"})
)

// ObserveAgent records one agent task execution.
func ObserveAgent(agent string, status string, elapsed time.Duration) {
	agentDuration.WithLabelValues(agent).Observe(elapsed.Seconds())
	agentOutcomes.WithLabelValues(agent, status).Inc()
}

// ObserveOrchestration records a completed orchestration.
func ObserveOrchestration(success bool) {
	if success {
		orchestrations.WithLabelValues("success").Inc()
	} else {
		orchestrations.WithLabelValues("no_results").Inc()
	}
}
