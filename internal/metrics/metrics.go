package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bottleneck"

// Recorder owns a private registry so tests and multiple servers never collide
// on the global default registry.
type Recorder struct {
	registry *prometheus.Registry

	toolCalls        *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	efficiency       *prometheus.GaugeVec
	anomalies        *prometheus.CounterVec
	datasets         prometheus.Gauge
	policyReloads    prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of MCP tool calls by tool and status",
			},
			[]string{"tool", "status"},
		),
		analysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Duration of analysis stages",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"stage"},
		),
		efficiency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "efficiency_score",
				Help:      "Latest efficiency score per dataset",
			},
			[]string{"dataset"},
		),
		anomalies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "anomalies_detected_total",
				Help:      "Anomalies detected by type and severity",
			},
			[]string{"type", "severity"},
		),
		datasets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "datasets_loaded",
				Help:      "Number of datasets held in memory",
			},
		),
		policyReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_reloads_total",
				Help:      "Policy files applied by hot reload",
			},
		),
	}

	r.registry.MustRegister(
		r.toolCalls,
		r.analysisDuration,
		r.efficiency,
		r.anomalies,
		r.datasets,
		r.policyReloads,
		collectors.NewGoCollector(),
	)
	return r
}

// ToolCall counts one tool invocation; status is "ok" or "error".
func (r *Recorder) ToolCall(tool string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.toolCalls.WithLabelValues(tool, status).Inc()
}

// ObserveStage records how long an analysis stage took since start.
func (r *Recorder) ObserveStage(stage string, start time.Time) {
	r.analysisDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (r *Recorder) SetEfficiency(dataset string, score int) {
	r.efficiency.WithLabelValues(dataset).Set(float64(score))
}

func (r *Recorder) CountAnomaly(anomalyType, severity string) {
	r.anomalies.WithLabelValues(anomalyType, severity).Inc()
}

func (r *Recorder) SetDatasets(n int) {
	r.datasets.Set(float64(n))
}

func (r *Recorder) PolicyReloaded() {
	r.policyReloads.Inc()
}

// Registry exposes the underlying registry for scraping and tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
