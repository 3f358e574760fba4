package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namespace prefixes every metric name.
const namespace = "json_persistence"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	// operations counts operations by kind and outcome.
	operations *prom.CounterVec
	// duration observes operation latency by kind.
	duration *prom.HistogramVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	recorder := &PrometheusRecorder{
		operations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store and query operations by outcome",
		}, []string{"operation", "result"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of store and query operations",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"}),
	}

	reg.MustRegister(recorder.operations, recorder.duration)

	return recorder
}

// Observe implements Recorder.
func (p *PrometheusRecorder) Observe(op Operation, result Result, duration time.Duration) {
	if p == nil {
		return
	}

	p.operations.WithLabelValues(string(op), string(result)).Inc()
	p.duration.WithLabelValues(string(op)).Observe(duration.Seconds())
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prom.Registry {
	reg := prom.NewRegistry()
	reg.MustRegister(
		promcollect.NewGoCollector(),
		promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}),
	)

	return reg
}

// HTTPHandler serves the metrics of reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
