package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the heat-map service.
type Metrics struct {
	DatasetFetches       *prometheus.CounterVec // labels: outcome={success,error}
	DatasetFetchDuration prometheus.Histogram
	MeasurementsParsed   prometheus.Counter
	ParseErrors          prometheus.Counter
	PipelineReady        prometheus.Gauge

	// Projection metrics.
	CellsProjected     prometheus.Counter
	ProjectionDuration prometheus.Histogram
	RenderCache        *prometheus.CounterVec // labels: result={hit,miss}

	// Sinks.
	CellsPublished     prometheus.Counter
	TooltipTransitions *prometheus.CounterVec // labels: state={visible,hidden}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "dataset_fetches_total",
			Help:      "Dataset retrievals by outcome.",
		}, []string{"outcome"}),
		DatasetFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heatmap",
			Name:      "dataset_fetch_duration_seconds",
			Help:      "Duration of a dataset retrieval.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MeasurementsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "measurements_parsed_total",
			Help:      "Total monthly records accepted by the parser.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "parse_errors_total",
			Help:      "Total malformed monthly records.",
		}),
		PipelineReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heatmap",
			Name:      "pipeline_ready",
			Help:      "1 once a snapshot has been rendered, 0 otherwise.",
		}),
		CellsProjected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "cells_projected_total",
			Help:      "Total cells produced by the projector.",
		}),
		ProjectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heatmap",
			Name:      "projection_duration_seconds",
			Help:      "Duration of a full dataset projection.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "render_cache_total",
			Help:      "Render cache lookups by result.",
		}, []string{"result"}),
		CellsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "cells_published_total",
			Help:      "Total cells written to the Kafka sink topic.",
		}),
		TooltipTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatmap",
			Name:      "tooltip_transitions_total",
			Help:      "Tooltip state transitions by resulting state.",
		}, []string{"state"}),
	}

	prometheus.MustRegister(
		m.DatasetFetches,
		m.DatasetFetchDuration,
		m.MeasurementsParsed,
		m.ParseErrors,
		m.PipelineReady,
		m.CellsProjected,
		m.ProjectionDuration,
		m.RenderCache,
		m.CellsPublished,
		m.TooltipTransitions,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetFetches:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "heatmap", Name: "dataset_fetches_total"}, []string{"outcome"}),
		DatasetFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "heatmap", Name: "dataset_fetch_duration_seconds"}),
		MeasurementsParsed:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatmap", Name: "measurements_parsed_total"}),
		ParseErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatmap", Name: "parse_errors_total"}),
		PipelineReady:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "heatmap", Name: "pipeline_ready"}),
		CellsProjected:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatmap", Name: "cells_projected_total"}),
		ProjectionDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "heatmap", Name: "projection_duration_seconds"}),
		RenderCache:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "heatmap", Name: "render_cache_total"}, []string{"result"}),
		CellsPublished:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatmap", Name: "cells_published_total"}),
		TooltipTransitions:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "heatmap", Name: "tooltip_transitions_total"}, []string{"state"}),
	}
}
