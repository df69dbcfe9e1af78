// Package metrics provides Prometheus metrics collection for AutoPitch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for AutoPitch.
type Collector struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Generation pipeline metrics
	QuotaExceeded     prometheus.Counter
	BurstLimited      prometheus.Counter
	ChallengeFailures prometheus.Counter
	DraftsGenerated   *prometheus.CounterVec

	// Vendor metrics
	CompletionDuration prometheus.Histogram
	CompletionErrors   prometheus.Counter
	EstimatedSpend     prometheus.Counter

	// Billing metrics
	CheckoutSessions prometheus.Counter
	ClaimsGranted    prometheus.Counter
	ClaimsRejected   prometheus.Counter
}

// New creates a new metrics collector registered on the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "autopitch",
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "autopitch",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"route"},
		),
		QuotaExceeded: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "autopitch",
				Name:      "quota_exceeded_total",
				Help:      "Requests rejected for exceeding the daily free-tier quota",
			},
		),
		BurstLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "autopitch",
				Name:      "burst_limited_total",
				Help:      "Requests rejected by the burst rate limiter",
			},
		),
		ChallengeFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "autopitch",
				Name:      "challenge_failures_total",
				Help:      "Requests rejected for missing or invalid challenge tokens",
			},
		),
		DraftsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "autopitch",
				Name:      "drafts_generated_total",
				Help:      "Email drafts returned to clients",
			},
			[]string{"plan"},
		),
		CompletionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "autopitch",
				Name:      "completion_duration_seconds",
				Help:      "LLM vendor call duration in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		CompletionErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "autopitch",
				Name:      "completion_errors_total",
				Help:      "Failed LLM vendor calls",
			},
		),
		EstimatedSpend: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "autopitch",
				Name:      "estimated_spend_micro_total",
				Help:      "Estimated upstream spend in micro-cents",
			},
		),
		CheckoutSessions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "autopitch",
				Name:      "checkout_sessions_total",
				Help:      "Checkout sessions created",
			},
		),
		ClaimsGranted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "autopitch",
				Name:      "claims_granted_total",
				Help:      "Entitlement claims that issued a premium cookie",
			},
		),
		ClaimsRejected: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "autopitch",
				Name:      "claims_rejected_total",
				Help:      "Entitlement claims rejected for inactive subscriptions",
			},
		),
	}
}
