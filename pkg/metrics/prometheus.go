package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	predictionDuration *prometheus.HistogramVec
	predictionErrors   *prometheus.CounterVec
	staleDrops         *prometheus.CounterVec
	activeSessions     prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edelweiss_prediction_duration_seconds",
				Help:    "Duration of upstream prediction calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"symbol"},
		),
		predictionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edelweiss_prediction_errors_total",
				Help: "Total number of failed prediction calls",
			},
			[]string{"symbol"},
		),
		staleDrops: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edelweiss_stale_completions_dropped_total",
				Help: "Prediction completions discarded because a newer request superseded them",
			},
			[]string{"symbol"},
		),
		activeSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "edelweiss_active_sessions",
				Help: "Number of live dashboard sessions",
			},
		),
	}
}

// RecordPrediction records one completed prediction call.
func (r *Recorder) RecordPrediction(symbol string, seconds float64) {
	r.predictionDuration.WithLabelValues(symbol).Observe(seconds)
}

// RecordPredictionError records a failed prediction call.
func (r *Recorder) RecordPredictionError(symbol string) {
	r.predictionErrors.WithLabelValues(symbol).Inc()
}

// RecordStaleDrop records a discarded out-of-order completion.
func (r *Recorder) RecordStaleDrop(symbol string) {
	r.staleDrops.WithLabelValues(symbol).Inc()
}

// SetActiveSessions records the current session count.
func (r *Recorder) SetActiveSessions(n int) {
	r.activeSessions.Set(float64(n))
}
