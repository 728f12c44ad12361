// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

const namespace = "campus_parking"

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Calls made to the parking API, by operation and outcome.",
	}, []string{"operation", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Latency of parking API calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Dashboard HTTP requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	spotsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "spots",
		Help:      "Spots in the last loaded collection.",
	})

	lotSpots = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lot_spots",
		Help:      "Spots per lot and status bucket.",
	}, []string{"lot", "bucket"})
)

// ObserveAPICall records one parking API call.
func ObserveAPICall(operation string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamRequests.WithLabelValues(operation, outcome).Inc()
	upstreamDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func ObserveHTTPRequest(method, route string, status int) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// SetLotView replaces the per-lot gauges with the current view.
func SetLotView(spotCount int, view types.LotView) {
	spotsTotal.Set(float64(spotCount))
	lotSpots.Reset()
	for _, s := range view.Summaries {
		lotSpots.WithLabelValues(s.LotID, "total").Set(float64(s.Total))
		lotSpots.WithLabelValues(s.LotID, "available").Set(float64(s.Available))
		lotSpots.WithLabelValues(s.LotID, "occupied").Set(float64(s.Occupied))
	}
}
