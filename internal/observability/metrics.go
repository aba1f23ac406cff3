package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// chart generation pipeline.
type Metrics struct {
	ChartsGenerated    prometheus.Counter
	ChartsAlreadySaved prometheus.Counter
	ChartsSkipped      prometheus.Counter
	ChartsFailed       prometheus.Counter
	PipelineRunning    prometheus.Gauge

	// Per-job timing, conversion through artifact write.
	JobDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ChartsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seatek_etl",
			Name:      "charts_generated_total",
			Help:      "Charts rendered and written to disk.",
		}),
		ChartsAlreadySaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seatek_etl",
			Name:      "charts_already_saved_total",
			Help:      "Jobs short-circuited because the artifact already existed.",
		}),
		ChartsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seatek_etl",
			Name:      "charts_skipped_total",
			Help:      "Jobs skipped for insufficient aligned data.",
		}),
		ChartsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seatek_etl",
			Name:      "charts_failed_total",
			Help:      "Jobs that failed to convert, render, or save.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seatek_etl",
			Name:      "pipeline_running",
			Help:      "1 while the batch is active, 0 when finished.",
		}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seatek_etl",
			Name:      "job_duration_seconds",
			Help:      "Duration of one chart job, conversion through artifact write.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}

	prometheus.MustRegister(
		m.ChartsGenerated,
		m.ChartsAlreadySaved,
		m.ChartsSkipped,
		m.ChartsFailed,
		m.PipelineRunning,
		m.JobDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registry registration to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ChartsGenerated:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seatek_etl", Name: "charts_generated_total"}),
		ChartsAlreadySaved: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seatek_etl", Name: "charts_already_saved_total"}),
		ChartsSkipped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seatek_etl", Name: "charts_skipped_total"}),
		ChartsFailed:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "seatek_etl", Name: "charts_failed_total"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "seatek_etl", Name: "pipeline_running"}),
		JobDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "seatek_etl", Name: "job_duration_seconds"}),
	}
}
