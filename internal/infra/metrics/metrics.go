package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cats_ingested_total",
			Help: "The total number of cat images ingested",
		},
		[]string{"provider", "status"},
	)

	CatsDuplicatesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cats_duplicates_skipped_total",
			Help: "The total number of cat images skipped because their content hash is unchanged",
		},
		[]string{"provider"},
	)

	ProviderFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_fetch_duration_seconds",
			Help:    "Duration of provider page ingestion",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	WorkerActiveCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_active_count",
			Help: "Number of workers currently processing jobs",
		},
	)

	PageWindowSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "page_window_size",
			Help: "Number of pages currently held in the in-memory window",
		},
	)

	CatsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cats_published_total",
			Help: "Total number of cat events published to the queue",
		},
		[]string{"provider"},
	)

	PublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cat_publish_errors_total",
			Help: "Total number of queue publish errors",
		},
		[]string{"provider"},
	)

	PublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cat_publish_duration_seconds",
			Help:    "Duration of queue publish calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	DLQMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dlq_messages_published_total",
			Help: "Total number of messages published to DLQ",
		},
	)

	WarmDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_warm_duration_seconds",
			Help:    "Duration of downstream image warm-up calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	WarmErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_warm_errors_total",
			Help: "Total number of image warm-up errors",
		},
	)

	WarmSuccess = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "images_warmed_total",
			Help: "Total number of images successfully warmed",
		},
	)

	GalleryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_requests_total",
			Help: "Total number of gallery API requests",
		},
		[]string{"endpoint", "status"},
	)
)
