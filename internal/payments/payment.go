// Package payments holds the Payment aggregate: the outcome of one payment
// attempt as reported by an external gateway.
package payments

import (
	"context"
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/ariefcatur/go-commerce-core/internal/textval"
	"github.com/google/uuid"
)

type Repository interface {
	// Get returns ErrNotFound when no payment has the id.
	Get(ctx context.Context, id uuid.UUID) (*Payment, error)
	// FindByIdempotencyKey returns ErrNotFound when the key is unused.
	FindByIdempotencyKey(ctx context.Context, key string) (*Payment, error)
	Add(p *Payment)
}

type Payment struct {
	events.Recorder

	id                uuid.UUID
	orderID           uuid.UUID
	amount            money.Money
	status            Status
	provider          string
	providerReference string
	failureReason     string
	idempotencyKey    string
	createdAt         time.Time
	updatedAt         *time.Time
}

func stamp(id uuid.UUID, at time.Time) paymentEvent {
	return paymentEvent{events.NewMeta(id, at)}
}

// Create starts a payment in Initiated. Key uniqueness is checked by the caller.
func Create(orderID uuid.UUID, amount money.Money, provider, idempotencyKey string) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, ErrInvalidOrderID
	}
	if !amount.IsSet() || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	prov, ok := textval.NewNonEmpty(provider)
	if !ok {
		return nil, ErrProviderRequired
	}
	key, ok := textval.NewNonEmpty(idempotencyKey)
	if !ok {
		return nil, ErrIdempotencyKeyRequired
	}

	now := events.Now()
	p := &Payment{
		id:             uuid.New(),
		orderID:        orderID,
		amount:         amount,
		status:         StatusInitiated,
		provider:       prov.String(),
		idempotencyKey: key.String(),
		createdAt:      now,
	}
	p.Record(PaymentInitiated{
		paymentEvent:   stamp(p.id, now),
		OrderID:        orderID,
		Amount:         amount,
		Provider:       p.provider,
		IdempotencyKey: p.idempotencyKey,
	})
	return p, nil
}

func (p *Payment) ID() uuid.UUID             { return p.id }
func (p *Payment) OrderID() uuid.UUID        { return p.orderID }
func (p *Payment) Amount() money.Money       { return p.amount }
func (p *Payment) Status() Status            { return p.status }
func (p *Payment) Provider() string          { return p.provider }
func (p *Payment) ProviderReference() string { return p.providerReference }
func (p *Payment) FailureReason() string     { return p.failureReason }
func (p *Payment) IdempotencyKey() string    { return p.idempotencyKey }
func (p *Payment) CreatedAt() time.Time      { return p.createdAt }

func (p *Payment) UpdatedAt() (time.Time, bool) {
	if p.updatedAt == nil {
		return time.Time{}, false
	}
	return *p.updatedAt, true
}

// MarkAsSucceeded is safe to retry with the same reference; a different
// reference after success is a conflict.
func (p *Payment) MarkAsSucceeded(providerReference string) error {
	ref, ok := textval.NewNonEmpty(providerReference)
	if !ok {
		return ErrProviderReferenceRequired
	}
	t, err := decide(p.status, outcomeSucceeded)
	if err != nil {
		return err
	}
	if t.noop {
		if p.providerReference == ref.String() {
			return nil
		}
		return ErrProviderReferenceConflict
	}

	now := events.Now()
	p.status = t.to
	p.providerReference = ref.String()
	p.updatedAt = &now
	p.Record(PaymentSucceeded{
		paymentEvent:      stamp(p.id, now),
		OrderID:           p.orderID,
		Amount:            p.amount,
		ProviderReference: p.providerReference,
	})
	return nil
}

// MarkAsFailed is a no-op success when the payment already failed.
func (p *Payment) MarkAsFailed(reason string) error {
	t, err := decide(p.status, outcomeFailed)
	if err != nil {
		return err
	}
	if t.noop {
		return nil
	}

	now := events.Now()
	p.status = t.to
	p.failureReason = textval.Optional(reason)
	p.updatedAt = &now
	p.Record(PaymentFailed{
		paymentEvent:  stamp(p.id, now),
		OrderID:       p.orderID,
		Amount:        p.amount,
		FailureReason: p.failureReason,
	})
	return nil
}
