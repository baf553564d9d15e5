package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-commerce-core/internal/catalog"
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type productRepo struct{ u *unit }

func (r productRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.u.tracker.Product(id); ok {
		return p, nil
	}
	p, version, err := loadProduct(ctx, r.u.store.pool, id)
	if err != nil {
		return nil, err
	}
	r.u.tracker.Track(p, version, false)
	return p, nil
}

func (r productRepo) Add(p *catalog.Product) { r.u.tracker.Track(p, 0, true) }

func loadProduct(ctx context.Context, q querier, id uuid.UUID) (*catalog.Product, int, error) {
	var (
		s                catalog.Snapshot
		amount, currency string
		status           string
		version          int
	)
	err := q.QueryRow(ctx, `
		SELECT name, description, price_amount::text, price_currency, category_id, sku, status,
		       created_at, updated_at, version
		FROM products WHERE id = $1`, id).
		Scan(&s.Name, &s.Description, &amount, &currency, &s.CategoryID, &s.Sku, &status,
			&s.CreatedAt, &s.UpdatedAt, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, catalog.ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load product %s: %w", id, err)
	}
	s.ID = id
	s.Status = catalog.Status(status)
	if s.Price, err = money.Parse(amount, currency); err != nil {
		return nil, 0, fmt.Errorf("product %s price: %w", id, err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, name, value, display_order, created_at, updated_at
		FROM product_features WHERE product_id = $1
		ORDER BY position`, id)
	if err != nil {
		return nil, 0, fmt.Errorf("load features of %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var f catalog.FeatureSnapshot
		if err := rows.Scan(&f.ID, &f.Name, &f.Value, &f.DisplayOrder, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, 0, err
		}
		s.Features = append(s.Features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return catalog.Restore(s), version, nil
}

func saveProduct(ctx context.Context, q querier, p *catalog.Product, version int, isNew bool) error {
	s := p.Snapshot()
	if isNew {
		_, err := q.Exec(ctx, `
			INSERT INTO products (id, name, description, price_amount, price_currency, category_id, sku,
			                      status, created_at, updated_at, version)
			VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7, $8, $9, $10, 1)`,
			s.ID, s.Name, s.Description, s.Price.Amount().String(), s.Price.Currency().Code(), s.CategoryID,
			s.Sku, string(s.Status), s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", s.ID, err)
		}
	} else {
		tag, err := q.Exec(ctx, `
			UPDATE products
			SET name = $3, description = $4, price_amount = $5::text::numeric, price_currency = $6,
			    category_id = $7, sku = $8, status = $9, updated_at = $10, version = version + 1
			WHERE id = $1 AND version = $2`,
			s.ID, version, s.Name, s.Description, s.Price.Amount().String(), s.Price.Currency().Code(),
			s.CategoryID, s.Sku, string(s.Status), s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update product %s: %w", s.ID, err)
		}
		if err := checkVersion(tag, "products", version); err != nil {
			return err
		}
	}

	// features are owned by the row version just written; rewrite them whole
	b := &pgx.Batch{}
	if !isNew {
		b.Queue(`DELETE FROM product_features WHERE product_id = $1`, s.ID)
	}
	for i, f := range s.Features {
		b.Queue(`
			INSERT INTO product_features (id, product_id, name, value, display_order, position, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			f.ID, s.ID, f.Name, f.Value, f.DisplayOrder, i, f.CreatedAt, f.UpdatedAt)
	}
	if err := execBatch(ctx, q, b); err != nil {
		return fmt.Errorf("write features of %s: %w", s.ID, err)
	}
	return nil
}
