package catalog

import "github.com/ariefcatur/go-commerce-core/internal/apperr"

type Status string

const (
	StatusDraft        Status = "DRAFT"
	StatusActive       Status = "ACTIVE"
	StatusInactive     Status = "INACTIVE"
	StatusDiscontinued Status = "DISCONTINUED"
)

type action string

const (
	actPublish     action = "publish"
	actDeactivate  action = "deactivate"
	actDiscontinue action = "discontinue"
	actModify      action = "modify" // price, category, features
)

// transition: empty to means "stay in the current status".
type transition struct {
	to  Status
	err *apperr.Error
}

var transitions = map[action]map[Status]transition{
	actPublish: {
		StatusDraft:        {to: StatusActive},
		StatusInactive:     {to: StatusActive},
		StatusActive:       {err: ErrAlreadyActive},
		StatusDiscontinued: {err: ErrInvalidStatus},
	},
	actDeactivate: {
		StatusActive: {to: StatusInactive},
	},
	actDiscontinue: {
		StatusDraft:        {to: StatusDiscontinued},
		StatusActive:       {to: StatusDiscontinued},
		StatusInactive:     {to: StatusDiscontinued},
		StatusDiscontinued: {err: ErrAlreadyDiscontinued},
	},
	actModify: {
		StatusDraft:        {},
		StatusActive:       {},
		StatusInactive:     {},
		StatusDiscontinued: {err: ErrDiscontinuedCannotBeModified},
	},
}

// fallback is the failure for a status the action has no entry for.
var fallback = map[action]*apperr.Error{
	actPublish:     ErrInvalidStatus,
	actDeactivate:  ErrNotActive,
	actDiscontinue: ErrInvalidState,
	actModify:      ErrInvalidState,
}

// decide is the product state machine: the status after a, or the failure.
func decide(from Status, a action) (Status, error) {
	t, ok := transitions[a][from]
	if !ok {
		return from, fallback[a]
	}
	if t.err != nil {
		return from, t.err
	}
	if t.to == "" {
		return from, nil
	}
	return t.to, nil
}
