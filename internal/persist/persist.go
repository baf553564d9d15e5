// Package persist is the boundary between the aggregates and storage: a
// unit of work hands out repositories, commits everything it tracked in one
// step, and only then releases the buffered events.
package persist

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-commerce-core/internal/catalog"
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/orders"
	"github.com/ariefcatur/go-commerce-core/internal/payments"
)

var (
	// ErrConcurrencyConflict means another writer committed the aggregate
	// after it was loaded. Reload and retry the operation.
	ErrConcurrencyConflict = errors.New("aggregate was modified concurrently")
	// ErrDiscarded is returned by a unit of work whose commit already failed.
	ErrDiscarded = errors.New("unit of work discarded after failed commit")
)

type UnitOfWork interface {
	Products() catalog.Repository
	Orders() orders.Repository
	Payments() payments.Repository
	// SaveChanges writes every new or changed aggregate and its pending
	// events atomically and returns how many aggregates were written.
	SaveChanges(ctx context.Context) (int, error)
	// PullEvents drains the tracked aggregates. Call it only after
	// SaveChanges succeeded.
	PullEvents() []events.Event
}

type Store interface {
	Begin() UnitOfWork
}
