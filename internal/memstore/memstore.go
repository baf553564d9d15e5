// Package memstore is an in-process persist.Store. It keeps aggregate
// snapshots and the outbox in maps guarded by one mutex and follows the
// same commit contract as the postgres store.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/catalog"
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/orders"
	"github.com/ariefcatur/go-commerce-core/internal/outbox"
	"github.com/ariefcatur/go-commerce-core/internal/payments"
	"github.com/ariefcatur/go-commerce-core/internal/persist"
	"github.com/google/uuid"
)

type versioned[S any] struct {
	snap    S
	version int
}

type Store struct {
	producer string

	mu       sync.Mutex
	products map[uuid.UUID]versioned[catalog.Snapshot]
	orders   map[uuid.UUID]versioned[orders.Snapshot]
	payments map[uuid.UUID]versioned[payments.Snapshot]
	outbox   []outbox.Message
	sent     map[int64]time.Time
	nextID   int64
}

func New(producer string) *Store {
	return &Store{
		producer: producer,
		products: make(map[uuid.UUID]versioned[catalog.Snapshot]),
		orders:   make(map[uuid.UUID]versioned[orders.Snapshot]),
		payments: make(map[uuid.UUID]versioned[payments.Snapshot]),
		sent:     make(map[int64]time.Time),
	}
}

func (s *Store) Begin() persist.UnitOfWork {
	return &unit{store: s}
}

func (s *Store) version(a persist.Aggregate) (int, bool) {
	switch a := a.(type) {
	case *catalog.Product:
		v, ok := s.products[a.ID()]
		return v.version, ok
	case *orders.Order:
		v, ok := s.orders[a.ID()]
		return v.version, ok
	case *payments.Payment:
		v, ok := s.payments[a.ID()]
		return v.version, ok
	}
	return 0, false
}

func (s *Store) keyTaken(key string, owner uuid.UUID) bool {
	for id, v := range s.payments {
		if id != owner && v.snap.IdempotencyKey == key {
			return true
		}
	}
	return false
}

func (s *Store) put(a persist.Aggregate, version int) {
	switch a := a.(type) {
	case *catalog.Product:
		s.products[a.ID()] = versioned[catalog.Snapshot]{a.Snapshot(), version}
	case *orders.Order:
		s.orders[a.ID()] = versioned[orders.Snapshot]{a.Snapshot(), version}
	case *payments.Payment:
		s.payments[a.ID()] = versioned[payments.Snapshot]{a.Snapshot(), version}
	}
}

func (s *Store) commit(dirty []*persist.Entry) error {
	var pending []events.Event
	for _, e := range dirty {
		pending = append(pending, e.Aggregate.PendingEvents()...)
	}
	msgs, err := outbox.FromEvents(s.producer, pending)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range dirty {
		stored, exists := s.version(e.Aggregate)
		switch {
		case e.New && exists:
			return fmt.Errorf("insert %s: %w", e.Aggregate.ID(), persist.ErrConcurrencyConflict)
		case !e.New && stored != e.Version:
			return fmt.Errorf("update %s at version %d: %w", e.Aggregate.ID(), e.Version, persist.ErrConcurrencyConflict)
		}
		if p, ok := e.Aggregate.(*payments.Payment); ok && e.New && s.keyTaken(p.IdempotencyKey(), p.ID()) {
			return payments.ErrDuplicateIdempotency
		}
	}
	for _, e := range dirty {
		s.put(e.Aggregate, e.Version+1)
	}
	for _, m := range msgs {
		s.nextID++
		m.ID = s.nextID
		s.outbox = append(s.outbox, m)
	}
	return nil
}

// FetchPending returns up to limit unsent messages in insertion order.
func (s *Store) FetchPending(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []outbox.Message
	for _, m := range s.outbox {
		if _, done := s.sent[m.ID]; done {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkSent(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, id := range ids {
		s.sent[id] = now
	}
	return nil
}

// Messages returns every outbox message ever written, sent or not.
func (s *Store) Messages() []outbox.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]outbox.Message, len(s.outbox))
	copy(out, s.outbox)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
