package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/ariefcatur/go-commerce-core/internal/orders"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type orderRepo struct{ u *unit }

func (r orderRepo) Get(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	if o, ok := r.u.tracker.Order(id); ok {
		return o, nil
	}
	o, version, err := loadOrder(ctx, r.u.store.pool, id)
	if err != nil {
		return nil, err
	}
	r.u.tracker.Track(o, version, false)
	return o, nil
}

func (r orderRepo) Add(o *orders.Order) { r.u.tracker.Track(o, 0, true) }

func loadOrder(ctx context.Context, q querier, id uuid.UUID) (*orders.Order, int, error) {
	var (
		s                orders.Snapshot
		amount, currency string
		status           string
		version          int
	)
	err := q.QueryRow(ctx, `
		SELECT customer_email, total_amount::text, total_currency, status, created_at, updated_at, version
		FROM orders WHERE id = $1`, id).
		Scan(&s.CustomerEmail, &amount, &currency, &status, &s.CreatedAt, &s.UpdatedAt, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, orders.ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load order %s: %w", id, err)
	}
	s.ID = id
	s.Status = orders.Status(status)
	if s.Total, err = money.Parse(amount, currency); err != nil {
		return nil, 0, fmt.Errorf("order %s total: %w", id, err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, product_id, quantity, unit_price_amount::text, unit_price_currency
		FROM order_items WHERE order_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, 0, fmt.Errorf("load items of %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it   orders.ItemSnapshot
			a, c string
		)
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &a, &c); err != nil {
			return nil, 0, err
		}
		if it.UnitPrice, err = money.Parse(a, c); err != nil {
			return nil, 0, fmt.Errorf("order %s item %s price: %w", id, it.ID, err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders.Restore(s), version, nil
}

// saveOrder writes the lines only on insert; they never change afterwards.
func saveOrder(ctx context.Context, q querier, o *orders.Order, version int, isNew bool) error {
	s := o.Snapshot()
	if !isNew {
		tag, err := q.Exec(ctx, `
			UPDATE orders SET status = $3, updated_at = $4, version = version + 1
			WHERE id = $1 AND version = $2`,
			s.ID, version, string(s.Status), s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update order %s: %w", s.ID, err)
		}
		return checkVersion(tag, "orders", version)
	}

	_, err := q.Exec(ctx, `
		INSERT INTO orders (id, customer_email, total_amount, total_currency, status, created_at, updated_at, version)
		VALUES ($1, $2, $3::text::numeric, $4, $5, $6, $7, 1)`,
		s.ID, s.CustomerEmail, s.Total.Amount().String(), s.Total.Currency().Code(), string(s.Status),
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", s.ID, err)
	}
	b := &pgx.Batch{}
	for i, it := range s.Items {
		b.Queue(`
			INSERT INTO order_items (id, order_id, line_no, product_id, quantity, unit_price_amount, unit_price_currency)
			VALUES ($1, $2, $3, $4, $5, $6::text::numeric, $7)`,
			it.ID, s.ID, i, it.ProductID, it.Quantity, it.UnitPrice.Amount().String(), it.UnitPrice.Currency().Code())
	}
	if err := execBatch(ctx, q, b); err != nil {
		return fmt.Errorf("insert items of %s: %w", s.ID, err)
	}
	return nil
}
