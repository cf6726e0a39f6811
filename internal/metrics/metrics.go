// Package metrics exposes Prometheus collectors for the crawl.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	searchesTotal       *prometheus.CounterVec
	channelsTotal       *prometheus.CounterVec
	quotaCreditsTotal   prometheus.Counter
	throttleSleepsTotal prometheus.Counter
	apiRequestsTotal    *prometheus.CounterVec
	apiRetriesTotal     *prometheus.CounterVec
	apiRequestSeconds   *prometheus.HistogramVec

	once sync.Once
)

// Init registers the collectors. Safe to call multiple times; every
// observe helper calls it, so callers never race an uninitialized vector.
func Init() {
	once.Do(func() {
		searchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channelscout_searches_total",
				Help: "Search queries handled, labeled executed or skipped.",
			},
			[]string{"status"},
		)

		channelsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channelscout_channels_total",
				Help: "Result channels resolved, labeled new, merged or anomaly.",
			},
			[]string{"outcome"},
		)

		quotaCreditsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "channelscout_quota_credits_total",
				Help: "Quota credits charged against the remote API.",
			},
		)

		throttleSleepsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "channelscout_throttle_sleeps_total",
				Help: "Poll sleeps taken while over the target quota rate.",
			},
		)

		apiRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channelscout_api_requests_total",
				Help: "Remote API attempts, labeled by call and status code.",
			},
			[]string{"call", "code"},
		)

		apiRetriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channelscout_api_retries_total",
				Help: "Remote API retries after a failed attempt, by call.",
			},
			[]string{"call"},
		)

		apiRequestSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "channelscout_api_request_seconds",
				Help:    "Remote API attempt latencies by call.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"call"},
		)
	})
}

// Handler returns the http.Handler serving the Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSearch counts one handled query ("executed" or "skipped").
func ObserveSearch(status string) {
	Init()
	searchesTotal.WithLabelValues(status).Inc()
}

// ObserveChannel counts one resolved result item ("new", "merged" or
// "anomaly").
func ObserveChannel(outcome string) {
	Init()
	channelsTotal.WithLabelValues(outcome).Inc()
}

// AddQuotaCredits records quota spend.
func AddQuotaCredits(cost int) {
	Init()
	quotaCreditsTotal.Add(float64(cost))
}

// ObserveThrottleSleep counts one throttle poll sleep.
func ObserveThrottleSleep() {
	Init()
	throttleSleepsTotal.Inc()
}

// ObserveAPIRequest records one remote attempt.
func ObserveAPIRequest(call string, code int, duration time.Duration) {
	Init()
	apiRequestsTotal.WithLabelValues(call, strconv.Itoa(code)).Inc()
	apiRequestSeconds.WithLabelValues(call).Observe(duration.Seconds())
}

// ObserveAPIRetry counts a retry after a failed attempt.
func ObserveAPIRetry(call string) {
	Init()
	apiRetriesTotal.WithLabelValues(call).Inc()
}
