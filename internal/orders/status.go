package orders

import "github.com/ariefcatur/go-commerce-core/internal/apperr"

type Status string

const (
	StatusCreated         Status = "CREATED"
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"
	StatusPaid            Status = "PAID"
	StatusCancelled       Status = "CANCELLED"
)

var validNext = map[Status]map[Status]bool{
	StatusCreated:         {StatusAwaitingPayment: true, StatusCancelled: true},
	StatusAwaitingPayment: {StatusPaid: true, StatusCancelled: true},
	StatusPaid:            {},
	StatusCancelled:       {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// rejection is the failure for moving from -> to when validNext forbids it.
func rejection(from, to Status) *apperr.Error {
	switch to {
	case StatusAwaitingPayment:
		return ErrNotCreated
	case StatusPaid:
		return ErrNotAwaitingPayment
	case StatusCancelled:
		switch from {
		case StatusCancelled:
			return ErrAlreadyCancelled
		case StatusPaid:
			return ErrCannotCancelPaidOrder
		}
	}
	return ErrInvalidState
}

func decide(from, to Status) error {
	if CanTransition(from, to) {
		return nil
	}
	return rejection(from, to)
}
