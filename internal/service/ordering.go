package service

import (
	"context"

	"github.com/ariefcatur/go-commerce-core/internal/catalog"
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/logger"
	"github.com/ariefcatur/go-commerce-core/internal/orders"
	"github.com/ariefcatur/go-commerce-core/internal/persist"
	"github.com/google/uuid"
)

type Ordering struct {
	runner
}

func NewOrdering(store persist.Store, d events.Dispatcher, log *logger.Logger) *Ordering {
	return &Ordering{newRunner(store, d, log)}
}

// Line asks for a quantity of a catalog product; the unit price is taken
// from the product when the order is placed.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrder prices every line from an active product and creates the order.
// A nil lines slice is passed through so the order reports it as missing.
func (o *Ordering) PlaceOrder(ctx context.Context, customerEmail string, lines []Line) (uuid.UUID, error) {
	var id uuid.UUID
	err := o.run(ctx, "orders.place", func(uow persist.UnitOfWork) error {
		var items []orders.Item
		if lines != nil {
			items = make([]orders.Item, 0, len(lines))
		}
		for _, l := range lines {
			if l.ProductID == uuid.Nil {
				return orders.ErrInvalidProductID
			}
			p, err := uow.Products().Get(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p.Status() != catalog.StatusActive {
				return catalog.ErrNotActive
			}
			it, err := orders.NewItem(p.ID(), l.Quantity, p.Price())
			if err != nil {
				return err
			}
			items = append(items, it)
		}
		ord, err := orders.Create(customerEmail, items)
		if err != nil {
			return err
		}
		uow.Orders().Add(ord)
		id = ord.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (o *Ordering) modify(ctx context.Context, op string, id uuid.UUID, fn func(*orders.Order) error) error {
	return o.retry(ctx, op, func(uow persist.UnitOfWork) error {
		ord, err := uow.Orders().Get(ctx, id)
		if err != nil {
			return err
		}
		return fn(ord)
	})
}

func (o *Ordering) SubmitForPayment(ctx context.Context, id uuid.UUID) error {
	return o.modify(ctx, "orders.submit", id, (*orders.Order).SubmitForPayment)
}

func (o *Ordering) MarkAsPaid(ctx context.Context, id uuid.UUID) error {
	return o.modify(ctx, "orders.mark_paid", id, (*orders.Order).MarkAsPaid)
}

func (o *Ordering) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	return o.modify(ctx, "orders.cancel", id, func(ord *orders.Order) error {
		return ord.Cancel(reason)
	})
}

// HandlePaymentSucceeded settles the order a successful payment belongs to.
// Redelivery for an order that is already paid is a no-op.
func (o *Ordering) HandlePaymentSucceeded(ctx context.Context, orderID uuid.UUID) error {
	return o.modify(ctx, "orders.payment_succeeded", orderID, func(ord *orders.Order) error {
		if ord.Status() == orders.StatusPaid {
			return nil
		}
		return ord.MarkAsPaid()
	})
}
