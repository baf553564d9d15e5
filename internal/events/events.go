// Package events is the domain-event channel shared by the aggregates.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record of something that happened to one aggregate.
type Event interface {
	EventType() string
	AggregateType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// Recorder buffers events for the aggregate that embeds it. Aggregates are
// not safe for concurrent use, and neither is the recorder.
type Recorder struct {
	pending []Event
}

func (r *Recorder) Record(e Event) {
	r.pending = append(r.pending, e)
}

// PendingEvents returns a copy of the buffer without clearing it.
func (r *Recorder) PendingEvents() []Event {
	if len(r.pending) == 0 {
		return nil
	}
	out := make([]Event, len(r.pending))
	copy(out, r.pending)
	return out
}

// PullEvents returns the buffered events and empties the buffer.
func (r *Recorder) PullEvents() []Event {
	out := r.pending
	r.pending = nil
	return out
}

// Source is implemented by every aggregate.
type Source interface {
	PendingEvents() []Event
	PullEvents() []Event
}

// Meta carries the fields every event shares; event structs embed it.
type Meta struct {
	ID uuid.UUID `json:"aggregate_id"`
	At time.Time `json:"occurred_at"`
}

func NewMeta(id uuid.UUID, at time.Time) Meta { return Meta{ID: id, At: at} }

func (m Meta) AggregateID() uuid.UUID { return m.ID }
func (m Meta) OccurredAt() time.Time  { return m.At }
