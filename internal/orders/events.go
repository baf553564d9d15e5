package orders

import (
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/money"
)

const AggregateType = "orders.order"

const (
	EventOrderCreated             = "orders.order.created"
	EventOrderSubmittedForPayment = "orders.order.submitted_for_payment"
	EventOrderPaid                = "orders.order.paid"
	EventOrderCancelled           = "orders.order.cancelled"
)

type orderEvent struct{ events.Meta }

func (orderEvent) AggregateType() string { return AggregateType }

type OrderCreated struct {
	orderEvent
	CustomerEmail string      `json:"customer_email"`
	Total         money.Money `json:"total"`
	ItemCount     int         `json:"item_count"`
}

func (OrderCreated) EventType() string { return EventOrderCreated }

type OrderSubmittedForPayment struct {
	orderEvent
	Total money.Money `json:"total"`
}

func (OrderSubmittedForPayment) EventType() string { return EventOrderSubmittedForPayment }

type OrderPaid struct {
	orderEvent
	Total money.Money `json:"total"`
}

func (OrderPaid) EventType() string { return EventOrderPaid }

type OrderCancelled struct {
	orderEvent
	Reason string `json:"reason,omitempty"`
}

func (OrderCancelled) EventType() string { return EventOrderCancelled }
