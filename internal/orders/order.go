// Package orders holds the Order aggregate.
package orders

import (
	"context"
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/ariefcatur/go-commerce-core/internal/textval"
	"github.com/google/uuid"
)

type Repository interface {
	// Get returns ErrNotFound when no order has the id.
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	Add(o *Order)
}

type Order struct {
	events.Recorder

	id            uuid.UUID
	customerEmail string
	items         []Item
	total         money.Money
	status        Status
	createdAt     time.Time
	updatedAt     *time.Time
}

func stamp(id uuid.UUID, at time.Time) orderEvent {
	return orderEvent{events.NewMeta(id, at)}
}

// Create places an order. A nil items slice and an empty one fail with
// different codes.
func Create(customerEmail string, items []Item) (*Order, error) {
	email, ok := textval.NewNonEmpty(customerEmail)
	if !ok {
		return nil, ErrCustomerEmailRequired
	}
	if items == nil {
		return nil, ErrOrderItemsCannotBeNull
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	currency := items[0].lineTotal.Currency()
	if currency == money.None {
		return nil, ErrInvalidUnitPrice
	}
	total := money.Zero(currency)
	for _, it := range items {
		if it.lineTotal.Currency() != currency {
			return nil, ErrCurrencyMismatch
		}
		total = total.Add(it.lineTotal)
	}

	now := events.Now()
	o := &Order{
		id:            uuid.New(),
		customerEmail: email.String(),
		items:         append([]Item(nil), items...),
		total:         total,
		status:        StatusCreated,
		createdAt:     now,
	}
	o.Record(OrderCreated{orderEvent: stamp(o.id, now), CustomerEmail: o.customerEmail, Total: total, ItemCount: len(items)})
	return o, nil
}

func (o *Order) ID() uuid.UUID         { return o.id }
func (o *Order) CustomerEmail() string { return o.customerEmail }
func (o *Order) Total() money.Money    { return o.total }
func (o *Order) Status() Status        { return o.status }
func (o *Order) CreatedAt() time.Time  { return o.createdAt }

func (o *Order) UpdatedAt() (time.Time, bool) {
	if o.updatedAt == nil {
		return time.Time{}, false
	}
	return *o.updatedAt, true
}

func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) moveTo(to Status) (time.Time, error) {
	if err := decide(o.status, to); err != nil {
		return time.Time{}, err
	}
	now := events.Now()
	o.status = to
	o.updatedAt = &now
	return now, nil
}

func (o *Order) SubmitForPayment() error {
	if o.status == StatusCreated && len(o.items) == 0 {
		return ErrEmptyOrder
	}
	now, err := o.moveTo(StatusAwaitingPayment)
	if err != nil {
		return err
	}
	o.Record(OrderSubmittedForPayment{orderEvent: stamp(o.id, now), Total: o.total})
	return nil
}

func (o *Order) MarkAsPaid() error {
	now, err := o.moveTo(StatusPaid)
	if err != nil {
		return err
	}
	o.Record(OrderPaid{orderEvent: stamp(o.id, now), Total: o.total})
	return nil
}

// Cancel is allowed before payment only. A blank reason is recorded as absent.
func (o *Order) Cancel(reason string) error {
	now, err := o.moveTo(StatusCancelled)
	if err != nil {
		return err
	}
	o.Record(OrderCancelled{orderEvent: stamp(o.id, now), Reason: textval.Optional(reason)})
	return nil
}
