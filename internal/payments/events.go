package payments

import (
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/google/uuid"
)

const AggregateType = "payments.payment"

const (
	EventPaymentInitiated = "payments.payment.initiated"
	EventPaymentSucceeded = "payments.payment.succeeded"
	EventPaymentFailed    = "payments.payment.failed"
)

type paymentEvent struct{ events.Meta }

func (paymentEvent) AggregateType() string { return AggregateType }

type PaymentInitiated struct {
	paymentEvent
	OrderID        uuid.UUID   `json:"order_id"`
	Amount         money.Money `json:"amount"`
	Provider       string      `json:"provider"`
	IdempotencyKey string      `json:"idempotency_key"`
}

func (PaymentInitiated) EventType() string { return EventPaymentInitiated }

type PaymentSucceeded struct {
	paymentEvent
	OrderID           uuid.UUID   `json:"order_id"`
	Amount            money.Money `json:"amount"`
	ProviderReference string      `json:"provider_reference"`
}

func (PaymentSucceeded) EventType() string { return EventPaymentSucceeded }

type PaymentFailed struct {
	paymentEvent
	OrderID       uuid.UUID   `json:"order_id"`
	Amount        money.Money `json:"amount"`
	FailureReason string      `json:"failure_reason,omitempty"`
}

func (PaymentFailed) EventType() string { return EventPaymentFailed }
