package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymhub",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gymhub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gymhub",
			Name:      "rate_limited_total",
			Help:      "Count of requests refused by the rate limiter.",
		},
	)

	workflowDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymhub",
			Name:      "workflow_decisions_total",
			Help:      "Count of workflow actions applied, by entity and action.",
		},
		[]string{"entity", "action"},
	)

	salariesGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymhub",
			Name:      "salary_records_generated_total",
			Help:      "Count of salary records generated by where hours came from.",
		},
		[]string{"hours_source"},
	)

	checkins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gymhub",
			Name:      "checkins_total",
			Help:      "Count of check-in pass verifications by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, rateLimited, workflowDecisions, salariesGenerated, checkins)
	})
}

func ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func IncRateLimited() {
	rateLimited.Inc()
}

func IncWorkflowDecision(entity, action string) {
	workflowDecisions.WithLabelValues(entity, action).Inc()
}

func IncSalaryGenerated(hoursSource string) {
	salariesGenerated.WithLabelValues(hoursSource).Inc()
}

func IncCheckin(outcome string) {
	checkins.WithLabelValues(outcome).Inc()
}
