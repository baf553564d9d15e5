package payments

import "github.com/ariefcatur/go-commerce-core/internal/apperr"

var (
	ErrNotFound     = apperr.New("Payment.NotFound", "Payment was not found.")
	ErrInvalidState = apperr.New("Payment.InvalidState", "Payment is in an invalid state for this operation.")

	// creation
	ErrInvalidOrderID         = apperr.New("Payment.InvalidOrderId", "OrderId cannot be empty.")
	ErrInvalidAmount          = apperr.New("Payment.InvalidAmount", "Payment amount must be greater than zero.")
	ErrProviderRequired       = apperr.New("Payment.ProviderRequired", "Provider is required.")
	ErrIdempotencyKeyRequired = apperr.New("Payment.IdempotencyKeyRequired", "Idempotency key is required.")
	ErrDuplicateIdempotency   = apperr.New("Payment.DuplicateIdempotencyKey", "A payment with this idempotency key already exists.")
	ErrOrderCurrencyMismatch  = apperr.New("Payment.CurrencyMismatch", "Payment currency must match the order currency.")

	// outcomes
	ErrProviderReferenceRequired = apperr.New("Payment.ProviderReferenceRequired", "Provider reference is required.")
	ErrProviderReferenceConflict = apperr.New("Payment.ProviderReferenceConflict", "Payment already succeeded with a different provider reference.")
	ErrCannotSucceedFailed       = apperr.New("Payment.CannotSucceedFailedPayment", "Cannot mark a failed payment as succeeded.")
	ErrCannotFailSucceeded       = apperr.New("Payment.CannotFailSucceededPayment", "Cannot mark a succeeded payment as failed.")
)
