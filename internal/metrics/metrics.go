package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OptimizeRuns counts optimizer runs by outcome (ok, infeasible, error)
	OptimizeRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimizer_runs_total", Help: "Genetic optimizer runs by outcome."},
		[]string{"outcome"},
	)
	// OptimizeDuration tracks optimizer run wall time in seconds
	OptimizeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "optimizer_run_duration_seconds", Help: "Genetic optimizer run duration in seconds.", Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30}},
	)
	// OptimizeGenerations records generations actually run before termination
	OptimizeGenerations = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "optimizer_generations", Help: "Generations run before the optimizer terminated.", Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 500}},
	)

	// DispatchJobs gauges jobs currently in each lifecycle state
	DispatchJobs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "dispatch_jobs", Help: "Dispatch jobs by status."},
		[]string{"status"},
	)
	// DispatchClustersUnassigned counts clusters no vehicle could take
	DispatchClustersUnassigned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "dispatch_clusters_unassigned_total", Help: "Clusters left unassigned by the fleet assigner."},
	)
)

// RegisterDefault registers collectors to the package registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OptimizeRuns)
		Registry.MustRegister(OptimizeDuration)
		Registry.MustRegister(OptimizeGenerations)
		Registry.MustRegister(DispatchJobs)
		Registry.MustRegister(DispatchClustersUnassigned)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
