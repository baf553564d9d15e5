package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount   = errors.New("money amount cannot be negative")
	ErrCurrencyRequired = errors.New("money currency is required")
)

// Money is an immutable amount in a single currency. The zero value has no
// currency and is treated as "not set" by the aggregates.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func New(amount decimal.Decimal, currency Currency) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	if currency == None {
		return Money{}, ErrCurrencyRequired
	}
	if !currency.IsSupported() {
		return Money{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, string(currency))
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustNew is New for values known to be valid; it panics otherwise.
func MustNew(amount decimal.Decimal, currency Currency) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Parse builds Money from a decimal string and a currency code.
func Parse(amount, code string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	c, err := FromCode(code)
	if err != nil {
		return Money{}, err
	}
	return New(d, c)
}

func Zero(currency Currency) Money {
	return MustNew(decimal.Zero, currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() Currency      { return m.currency }

// IsSet reports whether m was built through a constructor.
func (m Money) IsSet() bool { return m.currency != None }

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// Add panics when the currencies differ: mixing currencies is a caller bug.
func (m Money) Add(other Money) Money {
	if m.currency != other.currency {
		panic(fmt.Sprintf("money: cannot add %s to %s", other.currency, m.currency))
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}
}

// Multiply panics on a negative factor.
func (m Money) Multiply(factor int) Money {
	if factor < 0 {
		panic(fmt.Sprintf("money: negative multiplier %d", factor))
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(factor))), currency: m.currency}
}

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + string(m.currency)
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.String(), Currency: string(m.currency)})
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := Parse(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
