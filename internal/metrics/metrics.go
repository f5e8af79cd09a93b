// Package metrics exposes Prometheus collectors for the ticketing core.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purchaseOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchases_total",
			Help: "Total ticket purchase attempts by outcome",
		},
		[]string{"outcome"},
	)

	cancelOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_cancellations_total",
			Help: "Total ticket cancellation attempts by outcome",
		},
		[]string{"outcome"},
	)

	purchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_purchase_duration_seconds",
			Help:    "Duration of the purchase transaction including retries",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	cancelDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_cancellation_duration_seconds",
			Help:    "Duration of the cancellation transaction including retries",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	catalogCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_catalog_cache_total",
			Help: "Event catalog cache lookups by result",
		},
		[]string{"result"},
	)
)

// Timer measures one operation from construction to observation.
type Timer struct {
	start time.Time
}

func NewTimer() Timer {
	return Timer{start: time.Now()}
}

func ObservePurchase(outcome string, t Timer) {
	purchaseOps.WithLabelValues(outcome).Inc()
	purchaseDuration.Observe(time.Since(t.start).Seconds())
}

func ObserveCancel(outcome string, t Timer) {
	cancelOps.WithLabelValues(outcome).Inc()
	cancelDuration.Observe(time.Since(t.start).Seconds())
}

// CatalogCacheHit records a catalog read served from cache.
func CatalogCacheHit() { catalogCache.WithLabelValues("hit").Inc() }

// CatalogCacheMiss records a catalog read that fell through to Postgres.
func CatalogCacheMiss() { catalogCache.WithLabelValues("miss").Inc() }
