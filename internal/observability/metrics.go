package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for
// ingestion and tile rendering.
type Metrics struct {
	FilesIngested      prometheus.Counter
	FileFailures       prometheus.Counter
	StationsLoaded     prometheus.Gauge
	MeasurementsLoaded prometheus.Counter
	IngestRunning      prometheus.Gauge

	// Soft-missing sensor fields by field name (elevation, wind,
	// air_temperature, air_pressure).
	SoftMissing *prometheus.CounterVec

	FileParseDuration  prometheus.Histogram
	TilesRendered      prometheus.Counter
	TileRenderDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_tiles",
			Name:      "files_ingested_total",
			Help:      "Station files parsed and added to the store.",
		}),
		FileFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_tiles",
			Name:      "file_failures_total",
			Help:      "Station files rejected for corruption or I/O errors.",
		}),
		StationsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_tiles",
			Name:      "stations_loaded",
			Help:      "Stations currently held in the in-memory store.",
		}),
		MeasurementsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_tiles",
			Name:      "measurements_loaded_total",
			Help:      "Retained measurements across all ingested stations.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_tiles",
			Name:      "ingest_running",
			Help:      "1 while the ingestion pipeline is draining results.",
		}),
		SoftMissing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_tiles",
			Name:      "soft_missing_fields_total",
			Help:      "Sensor fields outside their valid range, by field.",
		}, []string{"field"}),
		FileParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_tiles",
			Name:      "file_parse_duration_seconds",
			Help:      "Wall time to parse one station file.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		TilesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_tiles",
			Name:      "tiles_rendered_total",
			Help:      "Map tiles rendered and served.",
		}),
		TileRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_tiles",
			Name:      "tile_render_duration_seconds",
			Help:      "Wall time to render and encode one tile.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}

	prometheus.MustRegister(
		m.FilesIngested,
		m.FileFailures,
		m.StationsLoaded,
		m.MeasurementsLoaded,
		m.IngestRunning,
		m.SoftMissing,
		m.FileParseDuration,
		m.TilesRendered,
		m.TileRenderDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can construct the pipeline repeatedly without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesIngested:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_tiles", Name: "files_ingested_total"}),
		FileFailures:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_tiles", Name: "file_failures_total"}),
		StationsLoaded:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_tiles", Name: "stations_loaded"}),
		MeasurementsLoaded: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_tiles", Name: "measurements_loaded_total"}),
		IngestRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_tiles", Name: "ingest_running"}),
		SoftMissing:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_tiles", Name: "soft_missing_fields_total"}, []string{"field"}),
		FileParseDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_tiles", Name: "file_parse_duration_seconds"}),
		TilesRendered:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_tiles", Name: "tiles_rendered_total"}),
		TileRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_tiles", Name: "tile_render_duration_seconds"}),
	}
}
