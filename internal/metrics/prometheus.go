package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion service

var (
	// Grid store API metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoresheet_api_calls_total",
			Help: "Total number of grid store API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoresheet_api_call_duration_seconds",
			Help:    "Duration of grid store API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoresheet_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoresheet_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoresheet_cache_hits_total",
			Help: "Total number of duplicate deliveries caught by the cache",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoresheet_cache_misses_total",
			Help: "Total number of first-time deliveries",
		},
	)

	// Parser metrics
	MessagesParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoresheet_messages_parsed_total",
			Help: "Total number of chat messages parsed",
		},
	)

	LinesMalformed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoresheet_lines_malformed_total",
			Help: "Total number of dropped message lines by reason",
		},
		[]string{"reason"},
	)

	EntriesExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoresheet_entries_extracted_total",
			Help: "Total number of prediction entries extracted",
		},
	)

	// Resolver metrics
	EntriesResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoresheet_entries_resolved_total",
			Help: "Total number of prediction entries by resolution outcome",
		},
		[]string{"outcome"},
	)

	CellsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoresheet_cells_written_total",
			Help: "Total number of cells written to the grid",
		},
	)

	// Cycle metrics
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoresheet_cycles_total",
			Help: "Total number of update cycles",
		},
		[]string{"trigger", "status"},
	)

	CycleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoresheet_cycle_duration_seconds",
			Help:    "Duration of update cycles in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"trigger"},
	)

	LastSuccessfulCycle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoresheet_last_successful_cycle_timestamp",
			Help: "Timestamp of last successful update cycle",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoresheet_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoresheet_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordAPICall records a grid store API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a duplicate delivery
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a first delivery
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordParse records the outcome of parsing one message
func RecordParse(entries int, malformed map[string]int) {
	MessagesParsed.Inc()
	EntriesExtracted.Add(float64(entries))
	for reason, n := range malformed {
		LinesMalformed.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordResolution records one resolver outcome
func RecordResolution(outcome string) {
	EntriesResolved.WithLabelValues(outcome).Inc()
}

// RecordCycle records an update cycle
func RecordCycle(trigger, status string, written int, duration float64) {
	CyclesTotal.WithLabelValues(trigger, status).Inc()
	CycleDuration.WithLabelValues(trigger).Observe(duration)
	CellsWritten.Add(float64(written))

	if status == "success" {
		LastSuccessfulCycle.SetToCurrentTime()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
