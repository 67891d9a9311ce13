// Package metrics holds the Prometheus collectors of the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VoteActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideahub_vote_actions_total",
			Help: "Votes applied, by resulting action",
		},
		[]string{"action"},
	)

	VoteRollbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ideahub_vote_rollbacks_total",
			Help: "Optimistic votes rolled back after a failed or timed out write",
		},
	)

	CommentOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideahub_comment_operations_total",
			Help: "Comment writes, by operation and result",
		},
		[]string{"op", "result"},
	)

	Payments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideahub_payments_total",
			Help: "Payment state transitions",
		},
		[]string{"status"},
	)

	TallyQueueDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ideahub_tally_queue_dropped_total",
			Help: "Recount requests dropped because the queue was full",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ideahub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)
)
