// Package service holds the use cases. Each one opens a unit of work, runs
// a single aggregate operation, commits, and only then hands the drained
// events to the dispatcher.
package service

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/logger"
	"github.com/ariefcatur/go-commerce-core/internal/persist"
)

const maxAttempts = 3

type runner struct {
	store    persist.Store
	dispatch events.Dispatcher
	log      *logger.Logger
}

func newRunner(store persist.Store, d events.Dispatcher, log *logger.Logger) runner {
	if d == nil {
		d = events.Discard
	}
	if log == nil {
		log = logger.Nop()
	}
	return runner{store: store, dispatch: d, log: log}
}

// run executes fn in a fresh unit of work. Business failures from fn are
// returned unchanged and nothing is written.
func (r runner) run(ctx context.Context, op string, fn func(persist.UnitOfWork) error) error {
	uow := r.store.Begin()
	if err := fn(uow); err != nil {
		return err
	}
	n, err := uow.SaveChanges(ctx)
	if err != nil {
		return err
	}
	evs := uow.PullEvents()
	r.log.Debug("committed", "op", op, "aggregates", n, "events", len(evs))
	if len(evs) == 0 {
		return nil
	}
	// the outbox already holds a durable copy; dispatch failures are not the caller's
	if err := r.dispatch.Dispatch(ctx, evs); err != nil {
		r.log.Warn("dispatch failed", "op", op, "err", err)
	}
	return nil
}

// retry reruns fn from a fresh load while the commit loses an optimistic race.
func (r runner) retry(ctx context.Context, op string, fn func(persist.UnitOfWork) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = r.run(ctx, op, fn)
		if !errors.Is(err, persist.ErrConcurrencyConflict) {
			return err
		}
		r.log.Info("concurrent update, retrying", "op", op, "attempt", attempt)
	}
	return err
}
