package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Analysis metrics
	AnalysesRun      prometheus.Counter
	AnalysisDuration prometheus.Histogram
	AnalysisAccounts prometheus.Histogram
	AnalysisErrors   *prometheus.CounterVec

	// Insight metrics
	InsightsGenerated *prometheus.CounterVec

	// Cache metrics
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheInvalidations *prometheus.CounterVec

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Analysis metrics
		AnalysesRun: promauto.NewCounter(prometheus.CounterOpts{
			Name: "variance_analyses_total",
			Help: "Total number of variance analyses run",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "variance_analysis_duration_seconds",
			Help:    "Duration of variance analysis runs",
			Buckets: prometheus.DefBuckets,
		}),
		AnalysisAccounts: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "variance_analysis_accounts",
			Help:    "Number of accounts per analysis",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
		}),
		AnalysisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "variance_analysis_errors_total",
				Help: "Total number of analysis errors by type",
			},
			[]string{"error_type"},
		),

		// Insight metrics
		InsightsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "variance_insights_generated_total",
				Help: "Total insights generated by severity",
			},
			[]string{"severity"},
		),

		// Cache metrics
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "variance_cache_hits_total",
			Help: "Total number of analysis cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "variance_cache_misses_total",
			Help: "Total number of analysis cache misses",
		}),
		CacheInvalidations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "variance_cache_invalidations_total",
				Help: "Total cache invalidations by scope",
			},
			[]string{"scope"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "variance_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "variance_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "variance_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
	}
}
