package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// risk mapping service.
type Metrics struct {
	FieldGenerations        prometheus.Counter
	FieldGenerationDuration prometheus.Histogram

	// Contour extraction metrics.
	ContourExtractionDuration prometheus.Histogram
	ContourPolylines          prometheus.Histogram

	// Weather provider metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error,insufficient}
	WeatherCache       *prometheus.CounterVec // labels: result={hit,miss}
	WeatherAPIDuration prometheus.Histogram

	// Site monitor metrics.
	MonitorCycleDuration prometheus.Histogram
	AlertsPublished      prometheus.Counter
	MonitorRunning       prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FieldGenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "turf_risk",
			Name:      "field_generations_total",
			Help:      "Total probability fields generated.",
		}),
		FieldGenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "turf_risk",
			Name:      "field_generation_duration_seconds",
			Help:      "Duration of one grid generation pass.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		ContourExtractionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "turf_risk",
			Name:      "contour_extraction_duration_seconds",
			Help:      "Duration of marching-squares extraction across all levels.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		ContourPolylines: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "turf_risk",
			Name:      "contour_polylines",
			Help:      "Number of stitched polylines per extraction.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "turf_risk",
			Name:      "weather_requests_total",
			Help:      "NASA POWER requests by outcome.",
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "turf_risk",
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "turf_risk",
			Name:      "weather_api_duration_seconds",
			Help:      "NASA POWER API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		MonitorCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "turf_risk",
			Name:      "monitor_cycle_duration_seconds",
			Help:      "Duration of a complete monitoring cycle across all sites.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "turf_risk",
			Name:      "alerts_published_total",
			Help:      "Total high-risk assessments handed to the alert publisher.",
		}),
		MonitorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "turf_risk",
			Name:      "monitor_running",
			Help:      "1 when the site monitor is active, 0 when shut down.",
		}),
	}

	prometheus.MustRegister(
		m.FieldGenerations,
		m.FieldGenerationDuration,
		m.ContourExtractionDuration,
		m.ContourPolylines,
		m.WeatherRequests,
		m.WeatherCache,
		m.WeatherAPIDuration,
		m.MonitorCycleDuration,
		m.AlertsPublished,
		m.MonitorRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FieldGenerations:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "turf_risk", Name: "field_generations_total"}),
		FieldGenerationDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "turf_risk", Name: "field_generation_duration_seconds"}),
		ContourExtractionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "turf_risk", Name: "contour_extraction_duration_seconds"}),
		ContourPolylines:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "turf_risk", Name: "contour_polylines"}),
		WeatherRequests:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "turf_risk", Name: "weather_requests_total"}, []string{"outcome"}),
		WeatherCache:              prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "turf_risk", Name: "weather_cache_total"}, []string{"result"}),
		WeatherAPIDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "turf_risk", Name: "weather_api_duration_seconds"}),
		MonitorCycleDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "turf_risk", Name: "monitor_cycle_duration_seconds"}),
		AlertsPublished:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "turf_risk", Name: "alerts_published_total"}),
		MonitorRunning:            prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "turf_risk", Name: "monitor_running"}),
	}
}
