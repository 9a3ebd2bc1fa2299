package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_payments_total",
			Help: "Total number of payments recorded",
		},
		[]string{"status", "payment_method"},
	)

	ReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_reconciliations_total",
			Help: "Member window reconciliations by outcome",
		},
		[]string{"outcome"},
	)

	RenewalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_renewals_total",
			Help: "Total number of subscription renewals",
		},
	)

	MembersExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_members_expired_total",
			Help: "Members moved from active to expired by the status refresh",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_emails_sent_total",
			Help: "Total number of emails by transport and status",
		},
		[]string{"transport", "status"},
	)

	CRUDRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_crud_retries_total",
			Help: "Write operations that needed more than one attempt",
		},
		[]string{"entity", "outcome"},
	)

	DashboardCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_dashboard_cache_total",
			Help: "Dashboard read model cache lookups",
		},
		[]string{"result"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_rate_limited_total",
			Help: "Requests rejected by the auth rate limiter",
		},
		[]string{"path"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPayment(status, paymentMethod string) {
	PaymentsTotal.WithLabelValues(status, paymentMethod).Inc()
}

func RecordReconciliation(outcome string) {
	ReconciliationsTotal.WithLabelValues(outcome).Inc()
}

func RecordRenewal() {
	RenewalsTotal.Inc()
}

func RecordMembersExpired(n int64) {
	if n > 0 {
		MembersExpiredTotal.Add(float64(n))
	}
}

func RecordEmail(transport, status string) {
	EmailsSentTotal.WithLabelValues(transport, status).Inc()
}

func RecordCRUDRetry(entity, outcome string) {
	CRUDRetriesTotal.WithLabelValues(entity, outcome).Inc()
}

func RecordDashboardCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	DashboardCacheTotal.WithLabelValues(result).Inc()
}

func RecordRateLimited(path string) {
	RateLimitedTotal.WithLabelValues(path).Inc()
}
