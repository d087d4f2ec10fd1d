// Package metrics exports validation telemetry to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ultrapreps/visionqa/pkg/domain/asset"
)

const namespace = "visionqa"

// Recorder implements application.MetricsRecorder.
type Recorder struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	scores      *prometheus.HistogramVec
	durations   *prometheus.HistogramVec
	fallbacks   *prometheus.CounterVec
	batches     prometheus.Counter
	passRate    prometheus.Gauge
}

// NewRecorder registers the collectors on a fresh registry, along with the Go and
// process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Assets validated, by type, scoring source and outcome.",
		}, []string{"asset_type", "source", "passed"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_score",
			Help:      "Distribution of validation scores.",
			Buckets:   []float64{0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 1.0},
		}, []string{"asset_type"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent validating one asset.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"source"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Validations that fell back to simulated scoring, by backend.",
		}, []string{"provider"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batch runs completed.",
		}),
		passRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_pass_rate",
			Help:      "Pass rate of the most recent batch.",
		}),
	}
	r.registry.MustRegister(
		r.validations, r.scores, r.durations, r.fallbacks, r.batches, r.passRate,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveValidation(assetType asset.Type, source asset.Source, score float64, passed bool, elapsed time.Duration) {
	r.validations.WithLabelValues(string(assetType), string(source), strconv.FormatBool(passed)).Inc()
	r.scores.WithLabelValues(string(assetType)).Observe(score)
	r.durations.WithLabelValues(string(source)).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveFallback(provider string) {
	r.fallbacks.WithLabelValues(provider).Inc()
}

func (r *Recorder) ObserveBatch(total, passed int) {
	r.batches.Inc()
	if total > 0 {
		r.passRate.Set(float64(passed) / float64(total))
	} else {
		r.passRate.Set(0)
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
