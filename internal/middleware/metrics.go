package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	paymentIngests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_payment_ingests_total",
			Help: "Payment events ingested, by outcome",
		},
		[]string{"outcome"},
	)

	reassignProposals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_reassignment_proposals_total",
			Help: "Reassignment proposals recorded",
		},
	)
)

// Metrics records request counters and latency histograms.
func Metrics() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			status := strconv.Itoa(rec.status)
			httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
		})
	}
}

// RecordPaymentIngest counts an ingestion outcome: accepted, duplicate or
// rejected.
func RecordPaymentIngest(outcome string) {
	paymentIngests.WithLabelValues(outcome).Inc()
}

// RecordReassignmentProposal counts a recorded proposal.
func RecordReassignmentProposal() {
	reassignProposals.Inc()
}
