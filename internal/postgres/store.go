// Package postgres is the pgx-backed persistence boundary. Aggregates are
// loaded through the pool; SaveChanges writes every changed aggregate and
// its outbox rows in one transaction guarded by row versions.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-commerce-core/internal/catalog"
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/orders"
	"github.com/ariefcatur/go-commerce-core/internal/outbox"
	"github.com/ariefcatur/go-commerce-core/internal/payments"
	"github.com/ariefcatur/go-commerce-core/internal/persist"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const idempotencyKeyIndex = "payments_idempotency_key_key"

type Store struct {
	pool     *pgxpool.Pool
	producer string
}

func NewStore(pool *pgxpool.Pool, producer string) *Store {
	return &Store{pool: pool, producer: producer}
}

func (s *Store) Begin() persist.UnitOfWork {
	return &unit{store: s}
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

type unit struct {
	store   *Store
	tracker persist.Tracker
}

func (u *unit) Products() catalog.Repository  { return productRepo{u} }
func (u *unit) Orders() orders.Repository     { return orderRepo{u} }
func (u *unit) Payments() payments.Repository { return paymentRepo{u} }

func (u *unit) PullEvents() []events.Event { return u.tracker.PullEvents() }

func (u *unit) SaveChanges(ctx context.Context) (int, error) {
	if u.tracker.Failed() {
		return 0, persist.ErrDiscarded
	}
	dirty := u.tracker.Dirty()
	if len(dirty) == 0 {
		return 0, nil
	}
	if err := u.store.commit(ctx, dirty); err != nil {
		u.tracker.Fail()
		return 0, err
	}
	u.tracker.Committed(dirty)
	return len(dirty), nil
}

func (s *Store) commit(ctx context.Context, dirty []*persist.Entry) error {
	var pending []events.Event
	for _, e := range dirty {
		pending = append(pending, e.Aggregate.PendingEvents()...)
	}
	msgs, err := outbox.FromEvents(s.producer, pending)
	if err != nil {
		return err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, e := range dirty {
		if err := save(ctx, tx, e); err != nil {
			return mapWriteErr(err)
		}
	}
	if err := insertOutbox(ctx, tx, msgs); err != nil {
		return mapWriteErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", mapWriteErr(err))
	}
	return nil
}

func save(ctx context.Context, q querier, e *persist.Entry) error {
	switch a := e.Aggregate.(type) {
	case *catalog.Product:
		return saveProduct(ctx, q, a, e.Version, e.New)
	case *orders.Order:
		return saveOrder(ctx, q, a, e.Version, e.New)
	case *payments.Payment:
		return savePayment(ctx, q, a, e.Version, e.New)
	}
	return fmt.Errorf("unsupported aggregate %T", e.Aggregate)
}

// checkVersion turns a guarded update that touched no row into a conflict.
func checkVersion(tag pgconn.CommandTag, table string, version int) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s at version %d: %w", table, version, persist.ErrConcurrencyConflict)
	}
	return nil
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if pgErr.ConstraintName == idempotencyKeyIndex {
			return payments.ErrDuplicateIdempotency
		}
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, persist.ErrConcurrencyConflict)
	}
	return err
}

func execBatch(ctx context.Context, q querier, b *pgx.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	br := q.SendBatch(ctx, b)
	defer br.Close()
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return br.Close()
}
