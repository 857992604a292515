package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	PageViews       prometheus.Counter
	Logins          *prometheus.CounterVec // labels: outcome={success,failure}
	SelectionCycles *prometheus.CounterVec // labels: transition={selected,cleared,suppressed,none}
	CSVDownloads    *prometheus.CounterVec // labels: scope={statewide,county}
	LoaderCache     *prometheus.CounterVec // labels: dataset, result={hit,miss}
	ActiveSessions  prometheus.Gauge

	MapBuildDuration prometheus.Histogram
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PageViews,
		m.Logins,
		m.SelectionCycles,
		m.CSVDownloads,
		m.LoaderCache,
		m.ActiveSessions,
		m.MapBuildDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PageViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "truck_parking",
			Name:      "page_views_total",
			Help:      "Total dashboard page loads.",
		}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truck_parking",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		SelectionCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truck_parking",
			Name:      "selection_cycles_total",
			Help:      "Selection-processing cycles by transition.",
		}, []string{"transition"}),
		CSVDownloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truck_parking",
			Name:      "csv_downloads_total",
			Help:      "Hourly demand CSV downloads by scope.",
		}, []string{"scope"}),
		LoaderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "truck_parking",
			Name:      "loader_cache_total",
			Help:      "Dataset loader cache lookups by dataset and result.",
		}, []string{"dataset", "result"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "truck_parking",
			Name:      "active_sessions",
			Help:      "Authenticated sessions currently tracked.",
		}),
		MapBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "truck_parking",
			Name:      "map_build_duration_seconds",
			Help:      "Time spent assembling the joined map payload.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}
