// Package apperr holds the business-rule failure type shared by the aggregates.
//
// A nil error is a successful outcome. A non-nil *Error is an expected
// business failure with a stable dotted code ("Order.CannotCancelPaidOrder")
// that callers match on; anything else is an infrastructure error.
package apperr

import "errors"

type Error struct {
	Code    string
	Message string
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

// Is matches any *Error with the same code, so errors.Is works against the
// package-level values even after wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// As extracts the business failure from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the failure code, or "" for nil and non-business errors.
func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

func Is(err error, target *Error) bool {
	return errors.Is(err, target)
}

// IsBusiness reports whether err is an expected business failure.
func IsBusiness(err error) bool {
	_, ok := As(err)
	return ok
}
