package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymtrack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymtrack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymtrack_checkins_total",
			Help: "Total number of check-in attempts",
		},
		[]string{"outcome"},
	)

	CheckOutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymtrack_checkouts_total",
			Help: "Total number of check-out attempts",
		},
		[]string{"outcome"},
	)

	StaleSessionsReconciledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymtrack_stale_sessions_reconciled_total",
			Help: "Total number of stale sessions force-closed by reconciliation",
		},
	)

	MembersInGym = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymtrack_members_in_gym",
			Help: "Number of members currently checked in",
		},
	)

	SessionCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymtrack_session_cache_hits_total",
			Help: "Session listing cache lookups by result",
		},
		[]string{"result"},
	)

	MembersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymtrack_members_registered_total",
			Help: "Total number of member registrations",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCheckIn(outcome string) {
	CheckInsTotal.WithLabelValues(outcome).Inc()
}

func RecordCheckOut(outcome string) {
	CheckOutsTotal.WithLabelValues(outcome).Inc()
}

func RecordReconciled(count int) {
	StaleSessionsReconciledTotal.Add(float64(count))
}

func RecordCacheLookup(hit bool) {
	if hit {
		SessionCacheHitsTotal.WithLabelValues("hit").Inc()
		return
	}
	SessionCacheHitsTotal.WithLabelValues("miss").Inc()
}

func RecordRegistration() {
	MembersRegisteredTotal.Inc()
}
