package metrics

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "commerce"

type Metrics struct {
	EventsCommitted  *prometheus.CounterVec
	OutboxPublished  *prometheus.CounterVec
	OutboxFailures   prometheus.Counter
	OutboxBatchMS    prometheus.Histogram
	ConsumerMessages *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsCommitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_committed_total",
			Help:      "Domain events released after a successful commit.",
		}, []string{"event_type"}),
		OutboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "published_total",
			Help:      "Outbox messages written to Kafka.",
		}, []string{"topic"}),
		OutboxFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "failures_total",
			Help:      "Relay batches that failed to fetch, publish or mark sent.",
		}),
		OutboxBatchMS: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "batch_duration_ms",
			Help:      "Relay batch latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
		ConsumerMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consumer",
			Name:      "messages_total",
			Help:      "Consumed messages by topic and result.",
		}, []string{"topic", "result"}),
	}
	reg.MustRegister(m.EventsCommitted, m.OutboxPublished, m.OutboxFailures, m.OutboxBatchMS, m.ConsumerMessages)
	return m
}

// Dispatch counts committed events; it is installed next to the other
// post-commit dispatchers.
func (m *Metrics) Dispatch(_ context.Context, evs []events.Event) error {
	for _, e := range evs {
		m.EventsCommitted.WithLabelValues(e.EventType()).Inc()
	}
	return nil
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
