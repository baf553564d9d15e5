package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const EnvelopeVersion = 1

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // aggregate id
	Payload       json.RawMessage `json:"payload"`
}

// Wrap serializes e into a versioned envelope.
func Wrap(producer string, e Event) (Envelope, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", e.EventType(), err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     e.EventType(),
		EventVersion:  EnvelopeVersion,
		OccurredAt:    e.OccurredAt(),
		Producer:      producer,
		CorrelationID: e.AggregateID().String(),
		Payload:       payload,
	}, nil
}

// PartitionKey keeps every event of one aggregate on one partition, in order.
func PartitionKey(aggregateID string) []byte { return []byte(aggregateID) }
