package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// index computation pipeline.
type Metrics struct {
	StationsConsumed prometheus.Counter
	ResultsProduced  prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Index computation metrics.
	IndexRowsProduced *prometheus.CounterVec // labels: family={rainfall,temperature}
	BaselineFallbacks prometheus.Counter
	InsufficientRows  prometheus.Counter

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
	StationComputeDuration  prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		StationsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_indices",
			Name:      "stations_consumed_total",
			Help:      "Total station records read from the source topic.",
		}),
		ResultsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_indices",
			Name:      "results_produced_total",
			Help:      "Total station results written to the sink.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_indices",
			Name:      "transform_errors_total",
			Help:      "Total station records rejected during parsing or computation.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_indices",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		IndexRowsProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_indices",
			Name:      "index_rows_produced_total",
			Help:      "Annual index rows produced, by index family.",
		}, []string{"family"}),
		BaselineFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_indices",
			Name:      "baseline_fallbacks_total",
			Help:      "Stations whose baseline came from a fallback period.",
		}),
		InsufficientRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_indices",
			Name:      "insufficient_rows_total",
			Help:      "Annual rows flagged DATA_INSUFFICIENT.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_indices",
			Name:      "batch_size",
			Help:      "Number of station records per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_indices",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		StationComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_indices",
			Name:      "station_compute_duration_seconds",
			Help:      "Time spent computing both index tables for one station.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
	}

	prometheus.MustRegister(
		m.StationsConsumed,
		m.ResultsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.IndexRowsProduced,
		m.BaselineFallbacks,
		m.InsufficientRows,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.StationComputeDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		StationsConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_indices", Name: "stations_consumed_total"}),
		ResultsProduced:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_indices", Name: "results_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_indices", Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climate_indices", Name: "pipeline_running"}),
		IndexRowsProduced:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_indices", Name: "index_rows_produced_total"}, []string{"family"}),
		BaselineFallbacks:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_indices", Name: "baseline_fallbacks_total"}),
		InsufficientRows:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_indices", Name: "insufficient_rows_total"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climate_indices", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climate_indices", Name: "batch_processing_duration_seconds"}),
		StationComputeDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climate_indices", Name: "station_compute_duration_seconds"}),
	}
}
