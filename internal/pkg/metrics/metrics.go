package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DownloadsTotal counts finished download requests by terminal outcome.
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vfb_downloads_total",
			Help: "Finished download requests by outcome and platform",
		},
		[]string{"outcome", "platform"},
	)

	// ActiveDownloads tracks extractions currently in flight.
	ActiveDownloads = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vfb_active_downloads",
			Help: "Number of extractions currently in flight",
		},
	)

	// DownloadDuration measures wall time of the whole pipeline per request.
	DownloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vfb_download_duration_seconds",
			Help:    "Duration of download request handling in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// UpdatesTotal counts inbound Telegram updates by kind.
	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vfb_updates_total",
			Help: "Inbound Telegram updates by kind",
		},
		[]string{"kind"},
	)
)
