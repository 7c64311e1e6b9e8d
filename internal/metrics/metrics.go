// Package metrics holds the Prometheus collectors for the request lifecycle,
// notification fan-out, scheduled jobs and the HTTP layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bloodlink"

type Metrics struct {
	registry *prometheus.Registry

	RequestsCreated      prometheus.Counter
	DonorsMatched        prometheus.Histogram
	StatusTransitions    *prometheus.CounterVec
	Fulfillments         prometheus.Counter
	DonorResponses       *prometheus.CounterVec
	StockUnitsAdded      *prometheus.CounterVec
	NotificationsSent    prometheus.Counter
	NotificationFailures prometheus.Counter
	EventPublishFailures prometheus.Counter
	JobRuns              *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
}

// New builds a Metrics on its own registry so tests and multiple binaries
// never collide on the global default registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "requests_created_total",
			Help: "Blood requests created.",
		}),
		DonorsMatched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "donors_matched",
			Help:    "Eligible donors matched per created request.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "request_status_transitions_total",
			Help: "Request status changes by target status.",
		}, []string{"status"}),
		Fulfillments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "donor_fulfillments_total",
			Help: "Requests fulfilled by a donor.",
		}),
		DonorResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "donor_responses_total",
			Help: "Donor responses by answer.",
		}, []string{"response"}),
		StockUnitsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "stock_units_added_total",
			Help: "Units added to blood stock by blood group.",
		}, []string{"blood_group"}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "notifications_sent_total",
			Help: "Notification log entries written.",
		}),
		NotificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "notification_failures_total",
			Help: "Best-effort notifications that could not be stored.",
		}),
		EventPublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "event_publish_failures_total",
			Help: "Lifecycle events that could not be published.",
		}),
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "job_runs_total",
			Help: "Scheduled job runs by job and outcome.",
		}, []string{"job", "outcome"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsCreated,
		m.DonorsMatched,
		m.StatusTransitions,
		m.Fulfillments,
		m.DonorResponses,
		m.StockUnitsAdded,
		m.NotificationsSent,
		m.NotificationFailures,
		m.EventPublishFailures,
		m.JobRuns,
		m.HTTPDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	m.HTTPDuration.WithLabelValues(route, method, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

func (m *Metrics) JobFinished(job string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.JobRuns.WithLabelValues(job, outcome).Inc()
}
