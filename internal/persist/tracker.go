package persist

import (
	"github.com/ariefcatur/go-commerce-core/internal/catalog"
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/orders"
	"github.com/ariefcatur/go-commerce-core/internal/payments"
	"github.com/google/uuid"
)

type Aggregate interface {
	events.Source
	ID() uuid.UUID
}

// Entry is one aggregate tracked by a unit of work.
type Entry struct {
	Aggregate Aggregate
	// Version is the stored version the aggregate was loaded at; 0 for new ones.
	Version int
	New     bool
}

// Dirty reports whether the entry has to be written.
func (e *Entry) Dirty() bool {
	return e.New || len(e.Aggregate.PendingEvents()) > 0
}

// Tracker is the identity map shared by the store implementations.
type Tracker struct {
	entries []*Entry
	byID    map[uuid.UUID]*Entry
	failed  bool
}

func (t *Tracker) Track(a Aggregate, version int, isNew bool) {
	if t.byID == nil {
		t.byID = make(map[uuid.UUID]*Entry)
	}
	if _, ok := t.byID[a.ID()]; ok {
		return
	}
	e := &Entry{Aggregate: a, Version: version, New: isNew}
	t.entries = append(t.entries, e)
	t.byID[a.ID()] = e
}

func (t *Tracker) Lookup(id uuid.UUID) (*Entry, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// Dirty returns the entries SaveChanges must write, in tracking order.
func (t *Tracker) Dirty() []*Entry {
	var out []*Entry
	for _, e := range t.entries {
		if e.Dirty() {
			out = append(out, e)
		}
	}
	return out
}

// Committed marks the written entries as stored at their next version.
func (t *Tracker) Committed(written []*Entry) {
	for _, e := range written {
		e.New = false
		e.Version++
	}
}

func (t *Tracker) Fail()        { t.failed = true }
func (t *Tracker) Failed() bool { return t.failed }

func (t *Tracker) PullEvents() []events.Event {
	var out []events.Event
	for _, e := range t.entries {
		out = append(out, e.Aggregate.PullEvents()...)
	}
	return out
}

// Lookup helpers keep the type assertions in one place.

func (t *Tracker) Product(id uuid.UUID) (*catalog.Product, bool) {
	e, ok := t.Lookup(id)
	if !ok {
		return nil, false
	}
	p, ok := e.Aggregate.(*catalog.Product)
	return p, ok
}

func (t *Tracker) Order(id uuid.UUID) (*orders.Order, bool) {
	e, ok := t.Lookup(id)
	if !ok {
		return nil, false
	}
	o, ok := e.Aggregate.(*orders.Order)
	return o, ok
}

func (t *Tracker) Payment(id uuid.UUID) (*payments.Payment, bool) {
	e, ok := t.Lookup(id)
	if !ok {
		return nil, false
	}
	p, ok := e.Aggregate.(*payments.Payment)
	return p, ok
}

// PaymentByKey finds a tracked payment by idempotency key.
func (t *Tracker) PaymentByKey(key string) (*payments.Payment, bool) {
	for _, e := range t.entries {
		if p, ok := e.Aggregate.(*payments.Payment); ok && p.IdempotencyKey() == key {
			return p, true
		}
	}
	return nil, false
}
