package catalog

import (
	"strings"
	"unicode/utf8"
)

const maxSkuLen = 64

// Sku is a trimmed, upper-cased stock-keeping identifier.
type Sku string

func NewSku(s string) (Sku, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || utf8.RuneCountInString(s) > maxSkuLen {
		return "", ErrInvalidSku
	}
	return Sku(s), nil
}

func (s Sku) String() string { return string(s) }
