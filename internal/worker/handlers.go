// Package worker turns Kafka messages into use-case calls.
package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ariefcatur/go-commerce-core/internal/apperr"
	"github.com/ariefcatur/go-commerce-core/internal/kafka"
	"github.com/ariefcatur/go-commerce-core/internal/logger"
	"github.com/ariefcatur/go-commerce-core/internal/metrics"
	"github.com/ariefcatur/go-commerce-core/internal/payments"
	"github.com/ariefcatur/go-commerce-core/internal/service"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Deduper remembers processed event ids.
type Deduper interface {
	Mark(ctx context.Context, eventID string) (seen bool, err error)
	Forget(ctx context.Context, eventID string) error
}

type Handlers struct {
	Ordering *service.Ordering
	Payments *service.Payments
	Dedup    Deduper
	Log      *logger.Logger
	Metrics  *metrics.Metrics
}

func (h *Handlers) count(m kafkago.Message, result string) {
	if h.Metrics != nil {
		h.Metrics.ConsumerMessages.WithLabelValues(m.Topic, result).Inc()
	}
}

// settle maps a handler error to the commit decision: business failures and
// undecodable messages are logged and committed so they do not block the
// partition; anything else is returned and the consumer retries the message.
func (h *Handlers) settle(m kafkago.Message, err error) error {
	switch {
	case err == nil:
		h.count(m, "ok")
		return nil
	case apperr.IsBusiness(err), errors.Is(err, errPoison):
		h.count(m, "rejected")
		h.Log.Warn("message rejected", "topic", m.Topic, "offset", m.Offset, "key", string(m.Key), "err", err)
		return nil
	default:
		h.count(m, "error")
		return err
	}
}

var errPoison = errors.New("undecodable message")

// GatewayOutcome handles the payment gateway's succeeded/failed reports.
// The payment aggregate is idempotent for repeats, so no dedup is needed.
func (h *Handlers) GatewayOutcome(ctx context.Context, m kafkago.Message) error {
	var o service.GatewayOutcome
	if err := json.Unmarshal(m.Value, &o); err != nil || o.PaymentID == uuid.Nil {
		return h.settle(m, errors.Join(errPoison, err))
	}
	err := h.Payments.HandleGatewayOutcome(ctx, o)
	if errors.Is(err, service.ErrUnknownOutcome) {
		err = errors.Join(errPoison, err)
	}
	return h.settle(m, err)
}

// PaymentEvents reacts to the payment event stream: a succeeded payment
// marks its order paid.
func (h *Handlers) PaymentEvents(ctx context.Context, m kafkago.Message) error {
	env, err := kafka.DecodeEnvelope(m.Value)
	if err != nil {
		return h.settle(m, errors.Join(errPoison, err))
	}
	if env.EventType != payments.EventPaymentSucceeded {
		h.count(m, "skipped")
		return nil
	}
	ev, err := kafka.UnwrapPayload[payments.PaymentSucceeded](env.Payload)
	if err != nil {
		return h.settle(m, errors.Join(errPoison, err))
	}

	seen, err := h.Dedup.Mark(ctx, env.EventID)
	if err != nil {
		return h.settle(m, err)
	}
	if seen {
		h.count(m, "duplicate")
		return nil
	}
	err = h.Ordering.HandlePaymentSucceeded(ctx, ev.OrderID)
	if err != nil && !apperr.IsBusiness(err) {
		if ferr := h.Dedup.Forget(ctx, env.EventID); ferr != nil {
			h.Log.Warn("forget dedup mark", "event_id", env.EventID, "err", ferr)
		}
	}
	return h.settle(m, err)
}
