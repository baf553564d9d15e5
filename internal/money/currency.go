package money

import (
	"errors"
	"fmt"
	"strings"
)

// Currency is an ISO 4217 code from the supported set.
type Currency string

const (
	None Currency = ""
	USD  Currency = "USD"
	EUR  Currency = "EUR"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

var supported = []Currency{USD, EUR}

// FromCode resolves a currency code case-insensitively.
func FromCode(code string) (Currency, error) {
	code = strings.TrimSpace(code)
	for _, c := range supported {
		if strings.EqualFold(string(c), code) {
			return c, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
}

func (c Currency) Code() string { return string(c) }

func (c Currency) IsSupported() bool {
	for _, s := range supported {
		if s == c {
			return true
		}
	}
	return false
}
