package orders

import "github.com/ariefcatur/go-commerce-core/internal/apperr"

var (
	ErrNotFound     = apperr.New("Order.NotFound", "Order was not found.")
	ErrInvalidState = apperr.New("Order.InvalidState", "Order is in an invalid state for this operation.")

	// creation and items
	ErrCustomerEmailRequired  = apperr.New("Order.CustomerEmailRequired", "Customer email is required.")
	ErrOrderItemsCannotBeNull = apperr.New("Order.OrderItemsCannotBeNull", "Order items cannot be null.")
	ErrEmptyOrder             = apperr.New("Order.EmptyOrder", "Order must contain at least one item.")
	ErrCurrencyMismatch       = apperr.New("Order.CurrencyMismatch", "All order items must have the same currency.")
	ErrInvalidProductID       = apperr.New("Order.InvalidProductId", "ProductId cannot be empty.")
	ErrInvalidQuantity        = apperr.New("Order.InvalidQuantity", "Quantity must be greater than zero.")
	ErrInvalidUnitPrice       = apperr.New("Order.InvalidUnitPrice", "Unit price is required.")

	// submit / pay / cancel
	ErrNotCreated            = apperr.New("Order.NotCreated", "Only created orders can be submitted for payment.")
	ErrNotAwaitingPayment    = apperr.New("Order.NotAwaitingPayment", "Only orders awaiting payment can be marked as paid.")
	ErrAlreadyCancelled      = apperr.New("Order.AlreadyCancelled", "Order is already cancelled.")
	ErrCannotCancelPaidOrder = apperr.New("Order.CannotCancelPaidOrder", "Paid orders cannot be cancelled.")
)
