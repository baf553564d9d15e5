package payments

import (
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/google/uuid"
)

type Snapshot struct {
	ID                uuid.UUID
	OrderID           uuid.UUID
	Amount            money.Money
	Status            Status
	Provider          string
	ProviderReference string
	FailureReason     string
	IdempotencyKey    string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

func (p *Payment) Snapshot() Snapshot {
	return Snapshot{
		ID:                p.id,
		OrderID:           p.orderID,
		Amount:            p.amount,
		Status:            p.status,
		Provider:          p.provider,
		ProviderReference: p.providerReference,
		FailureReason:     p.failureReason,
		IdempotencyKey:    p.idempotencyKey,
		CreatedAt:         p.createdAt,
		UpdatedAt:         p.updatedAt,
	}
}

func Restore(s Snapshot) *Payment {
	return &Payment{
		id:                s.ID,
		orderID:           s.OrderID,
		amount:            s.Amount,
		status:            s.Status,
		provider:          s.Provider,
		providerReference: s.ProviderReference,
		failureReason:     s.FailureReason,
		idempotencyKey:    s.IdempotencyKey,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
}
