package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hkviz"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// extract-load-render pipeline.
type Metrics struct {
	ExtractTotal      *prometheus.CounterVec   // labels: dataset, outcome={success,error}
	ExtractDuration   *prometheus.HistogramVec // labels: dataset
	RecordsExtracted  *prometheus.CounterVec   // labels: dataset
	LoadErrors        *prometheus.CounterVec   // labels: loader
	ArtifactsRendered *prometheus.CounterVec   // labels: artifact
	RenderErrors      *prometheus.CounterVec   // labels: artifact
	RenderDuration    *prometheus.HistogramVec // labels: artifact
	FramesRendered    *prometheus.CounterVec   // labels: artifact

	PipelineRunning prometheus.Gauge
	LastSuccess     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.ExtractTotal,
		m.ExtractDuration,
		m.RecordsExtracted,
		m.LoadErrors,
		m.ArtifactsRendered,
		m.RenderErrors,
		m.RenderDuration,
		m.FramesRendered,
		m.PipelineRunning,
		m.LastSuccess,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		ExtractTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extract_total",
			Help:      help("Dataset extractions by dataset and outcome."),
		}, []string{"dataset", "outcome"}),
		ExtractDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extract_duration_seconds",
			Help:      help("Duration of a dataset extraction including retries."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"dataset"}),
		RecordsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_extracted_total",
			Help:      help("Rows produced by scrapers and generators."),
		}, []string{"dataset"}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      help("Dataset load failures by loader."),
		}, []string{"loader"}),
		ArtifactsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_rendered_total",
			Help:      help("Artifacts written to the output directory."),
		}, []string{"artifact"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      help("Artifact render failures."),
		}, []string{"artifact"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      help("Wall time spent rendering one artifact."),
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"artifact"}),
		FramesRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      help("Animation frames encoded."),
		}, []string{"artifact"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      help("1 while a pipeline run is in progress."),
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      help("Unix time of the last run that rendered at least one artifact."),
		}),
	}
}
