package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartAddsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_adds_total",
		Help: "Total number of successful add-to-cart operations",
	})

	CartUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_updates_total",
		Help: "Total number of successful cart quantity updates",
	})

	CartRemovalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_removals_total",
		Help: "Total number of cart line removals",
	})

	CartOpsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_ops_rejected_total",
		Help: "Total number of rejected cart operations",
	}, []string{"reason"})

	CatalogReseedsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_reseeds_total",
		Help: "Total number of catalog reseeds from the initial product set",
	})

	SlotSaveLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slot_save_latency_seconds",
		Help:    "Latency of persisting a storage slot",
		Buckets: prometheus.DefBuckets,
	}, []string{"slot"})

	SlotSaveFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_save_failures_total",
		Help: "Total number of failed slot saves",
	}, []string{"slot"})

	MessagesShownTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_shown_total",
		Help: "Total number of status messages shown",
	}, []string{"kind"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
