// Package textval normalizes the free-text inputs the aggregates accept.
package textval

import "strings"

// NonEmpty is a string that was trimmed and found non-blank.
type NonEmpty string

func NewNonEmpty(s string) (NonEmpty, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", false
	}
	return NonEmpty(t), true
}

func (n NonEmpty) String() string { return string(n) }

// Optional trims s; a blank input means "absent" and comes back as "".
func Optional(s string) string {
	return strings.TrimSpace(s)
}

// FoldedName is a trimmed name compared case-insensitively.
type FoldedName struct {
	display string
}

func NewFoldedName(s string) (FoldedName, bool) {
	n, ok := NewNonEmpty(s)
	if !ok {
		return FoldedName{}, false
	}
	return FoldedName{display: string(n)}, true
}

func (f FoldedName) String() string { return f.display }

func (f FoldedName) Matches(other FoldedName) bool {
	return strings.EqualFold(f.display, other.display)
}
