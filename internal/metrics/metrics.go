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

	LedgerPostingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_ledger_postings_total",
			Help: "Total number of ledger entries posted",
		},
		[]string{"reference_type", "reversal"},
	)

	InvoicesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_invoices_created_total",
			Help: "Total number of invoices created",
		},
	)

	PaymentsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_payments_recorded_total",
			Help: "Total number of invoice payments recorded",
		},
		[]string{"method"},
	)

	PaymentsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_payments_deleted_total",
			Help: "Total number of invoice payments deleted",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"kind"},
	)

	SalarySlipsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_salary_slips_generated_total",
			Help: "Total number of trainer salary slips generated",
		},
	)

	SalarySlipConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_salary_slip_conflicts_total",
			Help: "Total number of duplicate salary slip generation attempts",
		},
	)

	EmailsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_emails_queued_total",
			Help: "Total number of notification emails queued",
		},
		[]string{"type"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordLedgerPosting(referenceType string, reversal bool) {
	label := "false"
	if reversal {
		label = "true"
	}
	LedgerPostingsTotal.WithLabelValues(referenceType, label).Inc()
}

func RecordPayment(method string) {
	PaymentsRecordedTotal.WithLabelValues(method).Inc()
}

func RecordSubscription(kind string) {
	SubscriptionsCreatedTotal.WithLabelValues(kind).Inc()
}
