package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinged struct {
	Meta
	Note string `json:"note"`
}

func (pinged) EventType() string     { return "test.thing.pinged" }
func (pinged) AggregateType() string { return "test.thing" }

func TestRecorder_PullClearsPendingDoesNot(t *testing.T) {
	var r Recorder
	id := uuid.New()
	r.Record(pinged{Meta: NewMeta(id, time.Now()), Note: "a"})
	r.Record(pinged{Meta: NewMeta(id, time.Now()), Note: "b"})

	assert.Len(t, r.PendingEvents(), 2)
	assert.Len(t, r.PendingEvents(), 2)

	pulled := r.PullEvents()
	require.Len(t, pulled, 2)
	assert.Equal(t, "a", pulled[0].(pinged).Note)
	assert.Empty(t, r.PullEvents())
	assert.Empty(t, r.PendingEvents())
}

func TestWrap(t *testing.T) {
	id := uuid.New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	env, err := Wrap("catalog-api", pinged{Meta: NewMeta(id, at), Note: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "test.thing.pinged", env.EventType)
	assert.Equal(t, EnvelopeVersion, env.EventVersion)
	assert.Equal(t, id.String(), env.CorrelationID)
	assert.Equal(t, at, env.OccurredAt)
	assert.NotEmpty(t, env.EventID)

	var back pinged
	require.NoError(t, json.Unmarshal(env.Payload, &back))
	assert.Equal(t, "hi", back.Note)
	assert.Equal(t, id, back.AggregateID())
}

func TestSetClock(t *testing.T) {
	fixed := time.Date(2030, 5, 6, 7, 8, 9, 0, time.FixedZone("X", 3600))
	restore := SetClock(func() time.Time { return fixed })
	assert.Equal(t, fixed.UTC(), Now())
	assert.Equal(t, time.UTC, Now().Location())
	restore()
	assert.NotEqual(t, fixed.UTC(), Now())
}

func TestMultiDispatcher_JoinsErrors(t *testing.T) {
	var calls int
	ok := DispatcherFunc(func(context.Context, []Event) error { calls++; return nil })
	boom := errors.New("boom")
	bad := DispatcherFunc(func(context.Context, []Event) error { calls++; return boom })

	err := MultiDispatcher{ok, bad, ok}.Dispatch(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	assert.NoError(t, Discard.Dispatch(context.Background(), nil))
}
