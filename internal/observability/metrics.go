package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the retrieval core.
type Metrics struct {
	// HTTP transport metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Tool-call metrics (Shell dispatch)
	ToolCallsTotal    *prometheus.CounterVec
	ToolCallDuration  *prometheus.HistogramVec
	ToolCallsInFlight prometheus.Gauge

	// Store metrics
	StoreOperations *prometheus.CounterVec
	StoreErrors     *prometheus.CounterVec
	StoreLatency    *prometheus.HistogramVec

	// Citation / EU-extraction metrics
	CitationsParsed      *prometheus.CounterVec
	EuReferencesExtracted *prometheus.CounterVec

	// Ingestion metrics
	IngestionRunsTotal  *prometheus.CounterVec
	IngestionDuration   *prometheus.HistogramVec
	IngestionQueueDepth prometheus.Gauge
	IngestionFailures   *prometheus.CounterVec

	// Worker metrics
	WorkerUtilization   prometheus.Gauge
	WorkerJobsProcessed *prometheus.CounterVec
	WorkerJobDuration   *prometheus.HistogramVec
	WorkerJobErrors     *prometheus.CounterVec

	// Queue metrics
	QueueDepth          *prometheus.GaugeVec
	QueueEnqueueTotal   *prometheus.CounterVec
	QueueDequeueTotal   *prometheus.CounterVec
	QueueProcessingTime *prometheus.HistogramVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	CacheSize   prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexcore_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexcore_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		ToolCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_tool_calls_total",
				Help: "Total number of tool calls handled by the Shell",
			},
			[]string{"tool", "country", "status"},
		),
		ToolCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexcore_tool_call_duration_seconds",
				Help:    "Tool call handling duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		ToolCallsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexcore_tool_calls_in_flight",
				Help: "Number of tool calls currently being handled",
			},
		),

		StoreOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_store_operations_total",
				Help: "Total number of Store operations",
			},
			[]string{"operation", "status"},
		),
		StoreErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_store_errors_total",
				Help: "Total number of Store errors",
			},
			[]string{"operation", "error_type"},
		),
		StoreLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexcore_store_latency_seconds",
				Help:    "Store operation latency in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),

		CitationsParsed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_citations_parsed_total",
				Help: "Total number of citations parsed, by jurisdiction and outcome",
			},
			[]string{"jurisdiction", "outcome"},
		),
		EuReferencesExtracted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_eu_references_extracted_total",
				Help: "Total number of EU references extracted, by detector",
			},
			[]string{"detector"},
		),

		IngestionRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_ingestion_runs_total",
				Help: "Total number of ingestion runs, by source and status",
			},
			[]string{"source_id", "status"},
		),
		IngestionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexcore_ingestion_duration_seconds",
				Help:    "Ingestion run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"source_id"},
		),
		IngestionQueueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexcore_ingestion_queue_depth",
				Help: "Current depth of the ingestion job queue",
			},
		),
		IngestionFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_ingestion_failures_total",
				Help: "Total number of ingestion runs that failed (subprocess error, timeout, or malformed output)",
			},
			[]string{"source_id", "reason"},
		),

		WorkerUtilization: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexcore_worker_utilization",
				Help: "Worker pool utilization (0-1)",
			},
		),
		WorkerJobsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_worker_jobs_processed_total",
				Help: "Total number of jobs processed by workers",
			},
			[]string{"worker_id", "job_type", "status"},
		),
		WorkerJobDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexcore_worker_job_duration_seconds",
				Help:    "Worker job duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"job_type"},
		),
		WorkerJobErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_worker_job_errors_total",
				Help: "Total number of worker job errors",
			},
			[]string{"job_type", "error_type"},
		),

		QueueDepth: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lexcore_queue_depth",
				Help: "Current queue depth",
			},
			[]string{"queue_name"},
		),
		QueueEnqueueTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_queue_enqueue_total",
				Help: "Total number of items enqueued",
			},
			[]string{"queue_name"},
		),
		QueueDequeueTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_queue_dequeue_total",
				Help: "Total number of items dequeued",
			},
			[]string{"queue_name"},
		),
		QueueProcessingTime: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexcore_queue_processing_time_seconds",
				Help:    "Queue item processing time in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"queue_name"},
		),

		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_name"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexcore_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_name"},
		),
		CacheSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexcore_cache_size",
				Help: "Current cache size in bytes",
			},
		),
	}
}

// RecordHTTPRequest records an HTTP transport request metric.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordToolCall records a Shell dispatch metric.
func (m *Metrics) RecordToolCall(tool, country, status string, duration time.Duration) {
	m.ToolCallsTotal.WithLabelValues(tool, country, status).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordStoreOperation records a Store-layer operation metric.
func (m *Metrics) RecordStoreOperation(operation, status string, duration time.Duration) {
	m.StoreOperations.WithLabelValues(operation, status).Inc()
	m.StoreLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordIngestionRun records an ingestion run metric.
func (m *Metrics) RecordIngestionRun(sourceID, status string, duration time.Duration) {
	m.IngestionRunsTotal.WithLabelValues(sourceID, status).Inc()
	m.IngestionDuration.WithLabelValues(sourceID).Observe(duration.Seconds())
}

// RecordWorkerJob records a worker job metric.
func (m *Metrics) RecordWorkerJob(workerID, jobType, status string, duration time.Duration) {
	m.WorkerJobsProcessed.WithLabelValues(workerID, jobType, status).Inc()
	m.WorkerJobDuration.WithLabelValues(jobType).Observe(duration.Seconds())
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
