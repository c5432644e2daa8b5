package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidlytics_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidlytics_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// workbooks parsed, labelled by outcome (ok, decode_error)
	ReportsParsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidlytics_reports_parsed_total",
			Help: "Total bulk reports parsed",
		},
		[]string{"outcome"},
	)

	// performance rows rejected at parse time for missing asset links
	RowsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vidlytics_rows_rejected_total",
			Help: "Performance rows dropped for empty video asset ids",
		},
	)

	// placeholder assets synthesized because the asset sheet was absent
	AssetsSynthesized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vidlytics_assets_synthesized_total",
			Help: "Placeholder assets synthesized from performance rows",
		},
	)

	// thumbnail generation attempts, labelled by outcome (hit, generated, absent)
	ThumbnailFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidlytics_thumbnail_fetches_total",
			Help: "Thumbnail generation attempts",
		},
		[]string{"outcome"},
	)
)

// Register registers all collectors with the given registry. Call once at
// startup.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		RequestCount,
		RequestLatency,
		ReportsParsed,
		RowsRejected,
		AssetsSynthesized,
		ThumbnailFetches,
	)
}
