package payments

import "github.com/ariefcatur/go-commerce-core/internal/apperr"

type Status string

const (
	StatusInitiated Status = "INITIATED"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

type outcome string

const (
	outcomeSucceeded outcome = "succeeded"
	outcomeFailed    outcome = "failed"
)

// transition: noop means the status already reflects the outcome (a retry).
type transition struct {
	to   Status
	noop bool
	err  *apperr.Error
}

var transitions = map[outcome]map[Status]transition{
	outcomeSucceeded: {
		StatusInitiated: {to: StatusSucceeded},
		StatusSucceeded: {to: StatusSucceeded, noop: true},
		StatusFailed:    {err: ErrCannotSucceedFailed},
	},
	outcomeFailed: {
		StatusInitiated: {to: StatusFailed},
		StatusFailed:    {to: StatusFailed, noop: true},
		StatusSucceeded: {err: ErrCannotFailSucceeded},
	},
}

func decide(from Status, o outcome) (transition, error) {
	t, ok := transitions[o][from]
	if !ok {
		return transition{}, ErrInvalidState
	}
	if t.err != nil {
		return transition{}, t.err
	}
	return t, nil
}
