package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	PDFJobsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdf_jobs_enqueued_total",
		Help: "Document generation jobs accepted by the queue",
	})

	PDFJobsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdf_jobs_processed_total",
		Help: "Document generation jobs completed successfully",
	})

	PDFJobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pdf_jobs_failed_total",
		Help: "Document generation jobs that failed and were handed back for redelivery",
	})

	EvidenceImagesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evidence_images_skipped_total",
		Help: "Evidence images skipped during rendering due to fetch or decode failures",
	})
)
