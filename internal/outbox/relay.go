package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/logger"
	"github.com/ariefcatur/go-commerce-core/internal/metrics"
	"github.com/segmentio/kafka-go"
)

// Source is the stored side of the outbox.
type Source interface {
	FetchPending(ctx context.Context, limit int) ([]Message, error)
	MarkSent(ctx context.Context, ids []int64) error
}

type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Relay publishes pending outbox messages on every tick. Delivery is at
// least once: a crash between publish and MarkSent republishes the batch,
// and consumers dedup by event id.
type Relay struct {
	src      Source
	pub      Publisher
	interval time.Duration
	batch    int
	log      *logger.Logger
	metrics  *metrics.Metrics
}

func NewRelay(src Source, pub Publisher, interval time.Duration, batch int, log *logger.Logger, m *metrics.Metrics) *Relay {
	if interval <= 0 {
		interval = time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &Relay{src: src, pub: pub, interval: interval, batch: batch, log: log.With("component", "outbox-relay"), metrics: m}
}

func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			// drain a backlog without waiting for the next tick
			for {
				n, err := r.Flush(ctx)
				if err != nil {
					r.log.Warn("relay batch failed", "err", err)
					break
				}
				if n < r.batch {
					break
				}
			}
		}
	}
}

// Flush publishes one batch and reports how many messages went out.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	start := time.Now()
	pending, err := r.src.FetchPending(ctx, r.batch)
	if err != nil {
		r.fail()
		return 0, fmt.Errorf("fetch pending: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	msgs := make([]kafka.Message, 0, len(pending))
	ids := make([]int64, 0, len(pending))
	for _, m := range pending {
		msgs = append(msgs, kafka.Message{
			Topic: m.Topic,
			Key:   events.PartitionKey(m.Key),
			Value: m.Payload,
			Time:  m.CreatedAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(m.EventType)},
				{Key: "event_id", Value: []byte(m.EventID)},
			},
		})
		ids = append(ids, m.ID)
	}
	if err := r.pub.WriteMessages(ctx, msgs...); err != nil {
		r.fail()
		return 0, fmt.Errorf("publish %d messages: %w", len(msgs), err)
	}
	if err := r.src.MarkSent(ctx, ids); err != nil {
		r.fail()
		return 0, fmt.Errorf("mark %d sent: %w", len(ids), err)
	}

	if r.metrics != nil {
		for _, m := range pending {
			r.metrics.OutboxPublished.WithLabelValues(m.Topic).Inc()
		}
		r.metrics.OutboxBatchMS.Observe(float64(time.Since(start).Milliseconds()))
	}
	r.log.Debug("relayed", "count", len(pending), "last_id", ids[len(ids)-1])
	return len(pending), nil
}

func (r *Relay) fail() {
	if r.metrics != nil {
		r.metrics.OutboxFailures.Inc()
	}
}
