package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors of the candidate service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Change events handed to the transport, by topic
	EventsPublished *prometheus.CounterVec

	// Change events the transport rejected, by topic
	EventsFailed *prometheus.CounterVec

	// Outbox rows waiting for the relay
	OutboxBacklog prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New registers every collector with reg. main passes
// prometheus.DefaultRegisterer; tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_events_published_total",
			Help: "Total change events published by topic",
		}, []string{"topic"}),

		EventsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_events_failed_total",
			Help: "Total change events that could not be published by topic",
		}, []string{"topic"}),

		OutboxBacklog: factory.NewGauge(prometheus.GaugeOpts{
			Name: "candidate_outbox_backlog",
			Help: "Number of staged events not yet published",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "candidate_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) IncrementPublished(topic string) {
	if m != nil {
		m.EventsPublished.WithLabelValues(topic).Inc()
	}
}

func (m *Metrics) IncrementFailed(topic string) {
	if m != nil {
		m.EventsFailed.WithLabelValues(topic).Inc()
	}
}

func (m *Metrics) SetOutboxBacklog(n int64) {
	if m != nil {
		m.OutboxBacklog.Set(float64(n))
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}
