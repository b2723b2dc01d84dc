package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailsense_classifications_total",
		Help: "The total number of classifications by category and strategy",
	}, []string{"category", "strategy"})

	RemoteRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mailsense_remote_request_duration_seconds",
		Help:    "Duration of remote classification requests",
		Buckets: prometheus.DefBuckets,
	})

	RemoteFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailsense_remote_failures_total",
		Help: "Total number of remote classification failures by reason",
	}, []string{"reason"})

	RuleHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailsense_rule_hits_total",
		Help: "Total number of rule activations by rule name",
	}, []string{"rule"})

	HeuristicShortCircuits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailsense_heuristic_short_circuits_total",
		Help: "Total number of heuristic short-circuit classifications by reason",
	}, []string{"reason"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mailsense_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)
