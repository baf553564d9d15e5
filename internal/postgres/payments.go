package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/ariefcatur/go-commerce-core/internal/payments"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type paymentRepo struct{ u *unit }

func (r paymentRepo) Get(ctx context.Context, id uuid.UUID) (*payments.Payment, error) {
	if p, ok := r.u.tracker.Payment(id); ok {
		return p, nil
	}
	return r.load(ctx, `WHERE id = $1`, id)
}

func (r paymentRepo) FindByIdempotencyKey(ctx context.Context, key string) (*payments.Payment, error) {
	if p, ok := r.u.tracker.PaymentByKey(key); ok {
		return p, nil
	}
	return r.load(ctx, `WHERE idempotency_key = $1`, key)
}

func (r paymentRepo) Add(p *payments.Payment) { r.u.tracker.Track(p, 0, true) }

func (r paymentRepo) load(ctx context.Context, where string, arg any) (*payments.Payment, error) {
	var (
		s                payments.Snapshot
		amount, currency string
		status           string
		version          int
	)
	err := r.u.store.pool.QueryRow(ctx, `
		SELECT id, order_id, amount::text, currency, status, provider, provider_reference, failure_reason,
		       idempotency_key, created_at, updated_at, version
		FROM payments `+where, arg).
		Scan(&s.ID, &s.OrderID, &amount, &currency, &status, &s.Provider, &s.ProviderReference,
			&s.FailureReason, &s.IdempotencyKey, &s.CreatedAt, &s.UpdatedAt, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, payments.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load payment: %w", err)
	}
	// the row may already be tracked when it was first found by key
	if p, ok := r.u.tracker.Payment(s.ID); ok {
		return p, nil
	}
	s.Status = payments.Status(status)
	if s.Amount, err = money.Parse(amount, currency); err != nil {
		return nil, fmt.Errorf("payment %s amount: %w", s.ID, err)
	}
	p := payments.Restore(s)
	r.u.tracker.Track(p, version, false)
	return p, nil
}

func savePayment(ctx context.Context, q querier, p *payments.Payment, version int, isNew bool) error {
	s := p.Snapshot()
	if isNew {
		_, err := q.Exec(ctx, `
			INSERT INTO payments (id, order_id, amount, currency, status, provider, provider_reference,
			                      failure_reason, idempotency_key, created_at, updated_at, version)
			VALUES ($1, $2, $3::text::numeric, $4, $5, $6, $7, $8, $9, $10, $11, 1)`,
			s.ID, s.OrderID, s.Amount.Amount().String(), s.Amount.Currency().Code(), string(s.Status),
			s.Provider, s.ProviderReference, s.FailureReason, s.IdempotencyKey, s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert payment %s: %w", s.ID, err)
		}
		return nil
	}
	tag, err := q.Exec(ctx, `
		UPDATE payments
		SET status = $3, provider_reference = $4, failure_reason = $5, updated_at = $6, version = version + 1
		WHERE id = $1 AND version = $2`,
		s.ID, version, string(s.Status), s.ProviderReference, s.FailureReason, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update payment %s: %w", s.ID, err)
	}
	return checkVersion(tag, "payments", version)
}
