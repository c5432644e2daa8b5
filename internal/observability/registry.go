package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics,
// so handlers depend on an injectable surface instead of global Prometheus
// collectors.
type MetricsRegistry interface {
	// HTTP request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Report ingestion metrics
	IncrementReportsParsed(outcome string)
	AddRowsRejected(n int)
	AddAssetsSynthesized(n int)

	// Thumbnail pipeline metrics
	IncrementThumbnailFetch(outcome string)
}

// PrometheusRegistry implements MetricsRegistry on the package collectors.
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry.
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementReportsParsed(outcome string) {
	ReportsParsed.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRegistry) AddRowsRejected(n int) {
	RowsRejected.Add(float64(n))
}

func (r *PrometheusRegistry) AddAssetsSynthesized(n int) {
	AssetsSynthesized.Add(float64(n))
}

func (r *PrometheusRegistry) IncrementThumbnailFetch(outcome string) {
	ThumbnailFetches.WithLabelValues(outcome).Inc()
}
