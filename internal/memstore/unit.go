package memstore

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-commerce-core/internal/catalog"
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/orders"
	"github.com/ariefcatur/go-commerce-core/internal/payments"
	"github.com/ariefcatur/go-commerce-core/internal/persist"
	"github.com/google/uuid"
)

type unit struct {
	store   *Store
	tracker persist.Tracker
}

func (u *unit) Products() catalog.Repository  { return productRepo{u} }
func (u *unit) Orders() orders.Repository     { return orderRepo{u} }
func (u *unit) Payments() payments.Repository { return paymentRepo{u} }

func (u *unit) SaveChanges(ctx context.Context) (int, error) {
	if u.tracker.Failed() {
		return 0, persist.ErrDiscarded
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	dirty := u.tracker.Dirty()
	if len(dirty) == 0 {
		return 0, nil
	}
	if err := u.store.commit(dirty); err != nil {
		u.tracker.Fail()
		return 0, fmt.Errorf("memstore commit: %w", err)
	}
	u.tracker.Committed(dirty)
	return len(dirty), nil
}

func (u *unit) PullEvents() []events.Event { return u.tracker.PullEvents() }

type productRepo struct{ u *unit }

func (r productRepo) Get(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.u.tracker.Product(id); ok {
		return p, nil
	}
	s := r.u.store
	s.mu.Lock()
	v, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		return nil, catalog.ErrNotFound
	}
	p := catalog.Restore(v.snap)
	r.u.tracker.Track(p, v.version, false)
	return p, nil
}

func (r productRepo) Add(p *catalog.Product) { r.u.tracker.Track(p, 0, true) }

type orderRepo struct{ u *unit }

func (r orderRepo) Get(_ context.Context, id uuid.UUID) (*orders.Order, error) {
	if o, ok := r.u.tracker.Order(id); ok {
		return o, nil
	}
	s := r.u.store
	s.mu.Lock()
	v, ok := s.orders[id]
	s.mu.Unlock()
	if !ok {
		return nil, orders.ErrNotFound
	}
	o := orders.Restore(v.snap)
	r.u.tracker.Track(o, v.version, false)
	return o, nil
}

func (r orderRepo) Add(o *orders.Order) { r.u.tracker.Track(o, 0, true) }

type paymentRepo struct{ u *unit }

func (r paymentRepo) Get(_ context.Context, id uuid.UUID) (*payments.Payment, error) {
	if p, ok := r.u.tracker.Payment(id); ok {
		return p, nil
	}
	s := r.u.store
	s.mu.Lock()
	v, ok := s.payments[id]
	s.mu.Unlock()
	if !ok {
		return nil, payments.ErrNotFound
	}
	p := payments.Restore(v.snap)
	r.u.tracker.Track(p, v.version, false)
	return p, nil
}

func (r paymentRepo) FindByIdempotencyKey(ctx context.Context, key string) (*payments.Payment, error) {
	if p, ok := r.u.tracker.PaymentByKey(key); ok {
		return p, nil
	}
	s := r.u.store
	s.mu.Lock()
	var found uuid.UUID
	for id, v := range s.payments {
		if v.snap.IdempotencyKey == key {
			found = id
			break
		}
	}
	s.mu.Unlock()
	if found == uuid.Nil {
		return nil, payments.ErrNotFound
	}
	return r.Get(ctx, found)
}

func (r paymentRepo) Add(p *payments.Payment) { r.u.tracker.Track(p, 0, true) }
