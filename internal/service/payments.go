package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/logger"
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/ariefcatur/go-commerce-core/internal/orders"
	"github.com/ariefcatur/go-commerce-core/internal/payments"
	"github.com/ariefcatur/go-commerce-core/internal/persist"
	"github.com/google/uuid"
)

// IdempotencyRegistry reserves an idempotency key for one payment id before
// the payment is stored. Claim returns the id that owns the key.
type IdempotencyRegistry interface {
	Claim(ctx context.Context, key string, paymentID uuid.UUID) (uuid.UUID, error)
	Release(ctx context.Context, key string, paymentID uuid.UUID) error
}

var ErrUnknownOutcome = errors.New("unknown gateway outcome")

type Payments struct {
	runner
	registry IdempotencyRegistry
}

// NewPayments wires the payment use cases; registry may be nil, in which
// case the store's unique key is the only guard.
func NewPayments(store persist.Store, registry IdempotencyRegistry, d events.Dispatcher, log *logger.Logger) *Payments {
	return &Payments{runner: newRunner(store, d, log), registry: registry}
}

type InitiateRequest struct {
	OrderID        uuid.UUID
	Amount         money.Money
	Provider       string
	IdempotencyKey string
}

type Initiated struct {
	PaymentID uuid.UUID
	// Replayed is set when the key was already used for the same order and
	// amount and the existing payment is returned.
	Replayed bool
}

// Initiate starts a payment for an order awaiting payment.
func (s *Payments) Initiate(ctx context.Context, req InitiateRequest) (Initiated, error) {
	var (
		res     Initiated
		claimed string
	)
	err := s.run(ctx, "payments.initiate", func(uow persist.UnitOfWork) error {
		key := strings.TrimSpace(req.IdempotencyKey)
		if key != "" {
			prev, err := uow.Payments().FindByIdempotencyKey(ctx, key)
			switch {
			case err == nil:
				if prev.OrderID() != req.OrderID || !prev.Amount().Equal(req.Amount) {
					return payments.ErrDuplicateIdempotency
				}
				res = Initiated{PaymentID: prev.ID(), Replayed: true}
				return nil
			case !errors.Is(err, payments.ErrNotFound):
				return err
			}
		}

		p, err := payments.Create(req.OrderID, req.Amount, req.Provider, req.IdempotencyKey)
		if err != nil {
			return err
		}
		ord, err := uow.Orders().Get(ctx, p.OrderID())
		if err != nil {
			return err
		}
		if ord.Status() != orders.StatusAwaitingPayment {
			return orders.ErrNotAwaitingPayment
		}
		if ord.Total().Currency() != p.Amount().Currency() {
			return payments.ErrOrderCurrencyMismatch
		}

		if s.registry != nil {
			owner, err := s.registry.Claim(ctx, p.IdempotencyKey(), p.ID())
			if err != nil {
				return fmt.Errorf("claim idempotency key: %w", err)
			}
			if owner != p.ID() {
				return payments.ErrDuplicateIdempotency
			}
			claimed = p.IdempotencyKey()
		}
		uow.Payments().Add(p)
		res = Initiated{PaymentID: p.ID()}
		return nil
	})
	if err != nil {
		if claimed != "" {
			if rerr := s.registry.Release(ctx, claimed, res.PaymentID); rerr != nil {
				s.log.Warn("release idempotency key", "key", claimed, "err", rerr)
			}
		}
		return Initiated{}, err
	}
	return res, nil
}

func (s *Payments) modify(ctx context.Context, op string, id uuid.UUID, fn func(*payments.Payment) error) error {
	return s.retry(ctx, op, func(uow persist.UnitOfWork) error {
		p, err := uow.Payments().Get(ctx, id)
		if err != nil {
			return err
		}
		return fn(p)
	})
}

func (s *Payments) ReportSucceeded(ctx context.Context, id uuid.UUID, providerReference string) error {
	return s.modify(ctx, "payments.succeeded", id, func(p *payments.Payment) error {
		return p.MarkAsSucceeded(providerReference)
	})
}

func (s *Payments) ReportFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return s.modify(ctx, "payments.failed", id, func(p *payments.Payment) error {
		return p.MarkAsFailed(reason)
	})
}

// GatewayOutcome is the message a payment gateway adapter publishes.
type GatewayOutcome struct {
	PaymentID         uuid.UUID `json:"payment_id"`
	Outcome           string    `json:"outcome"` // succeeded | failed
	ProviderReference string    `json:"provider_reference,omitempty"`
	Reason            string    `json:"reason,omitempty"`
}

func (s *Payments) HandleGatewayOutcome(ctx context.Context, o GatewayOutcome) error {
	switch strings.ToLower(strings.TrimSpace(o.Outcome)) {
	case "succeeded", "success":
		return s.ReportSucceeded(ctx, o.PaymentID, o.ProviderReference)
	case "failed", "failure":
		return s.ReportFailed(ctx, o.PaymentID, o.Reason)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, o.Outcome)
	}
}
