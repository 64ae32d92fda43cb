package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BackfillRecords counts metadata backfill records by outcome: updated, skipped, error.
	BackfillRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_metadata_backfill_records_total",
			Help: "Photos visited by the metadata backfill, by outcome",
		},
		[]string{"outcome"},
	)

	BackfillDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_metadata_backfill_duration_seconds",
			Help:    "Wall time of a metadata backfill run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 900},
		},
	)

	// UploadFiles counts upload session files by stage (stored, persisted) and result.
	UploadFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_files_total",
			Help: "Files handled by upload sessions",
		},
		[]string{"stage", "result"},
	)

	UploadSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "upload_sessions_active",
			Help: "Open upload sessions",
		},
	)
)
