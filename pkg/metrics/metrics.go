package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "boletamaster"

var (
	purchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Finalized purchases by payment method",
		},
		[]string{"method"},
	)

	purchaseValue = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_value_total",
			Help:      "Sum of finalized purchase values by payment method",
		},
		[]string{"method"},
	)

	seatsReserved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seats_reserved_total",
			Help:      "Seats reserved per event",
		},
		[]string{"event_id"},
	)

	refundDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refund_decisions_total",
			Help:      "Refund decisions by item kind and outcome",
		},
		[]string{"kind", "decision"},
	)

	marketplaceOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "marketplace_operations_total",
			Help:      "Marketplace operations by outcome",
		},
		[]string{"operation", "status"},
	)

	activeOffers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "marketplace_active_offers",
			Help:      "Offers currently open for bidding",
		},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func TrackPurchase(method string, value decimal.Decimal) {
	purchasesTotal.WithLabelValues(method).Inc()
	purchaseValue.WithLabelValues(method).Add(value.InexactFloat64())
}

func TrackSeatsReserved(eventID string, n int) {
	seatsReserved.WithLabelValues(eventID).Add(float64(n))
}

func TrackRefundDecision(kind, decision string) {
	refundDecisions.WithLabelValues(kind, decision).Inc()
}

// TrackMarketplace counts one marketplace operation; status is "ok" or "error".
func TrackMarketplace(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	marketplaceOperations.WithLabelValues(operation, status).Inc()
}

func SetActiveOffers(n int) {
	activeOffers.Set(float64(n))
}

// Middleware records request latency labelled by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
