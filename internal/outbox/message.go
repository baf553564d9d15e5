// Package outbox moves committed domain events to Kafka. Stores write one
// Message per event in the same transaction as the aggregate; the Relay
// publishes pending messages and marks them sent.
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/events"
)

// Message is one stored envelope waiting for publication. Topic is the
// aggregate type and Key the aggregate id.
type Message struct {
	ID        int64
	EventID   string
	Topic     string
	Key       string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// FromEvents wraps events into outbox messages, preserving their order.
func FromEvents(producer string, evs []events.Event) ([]Message, error) {
	out := make([]Message, 0, len(evs))
	for _, e := range evs {
		env, err := events.Wrap(producer, e)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(env)
		if err != nil {
			return nil, fmt.Errorf("marshal envelope %s: %w", env.EventType, err)
		}
		out = append(out, Message{
			EventID:   env.EventID,
			Topic:     e.AggregateType(),
			Key:       e.AggregateID().String(),
			EventType: env.EventType,
			Payload:   b,
			CreatedAt: env.OccurredAt,
		})
	}
	return out, nil
}
