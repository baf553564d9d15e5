package catalog

import (
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/textval"
	"github.com/google/uuid"
)

// Feature is a named attribute owned by a Product.
type Feature struct {
	id           uuid.UUID
	name         textval.FoldedName
	value        textval.NonEmpty
	displayOrder int
	createdAt    time.Time
	updatedAt    *time.Time
}

func (f Feature) ID() uuid.UUID        { return f.id }
func (f Feature) Name() string         { return f.name.String() }
func (f Feature) Value() string        { return f.value.String() }
func (f Feature) DisplayOrder() int    { return f.displayOrder }
func (f Feature) CreatedAt() time.Time { return f.createdAt }

func (f Feature) UpdatedAt() (time.Time, bool) {
	if f.updatedAt == nil {
		return time.Time{}, false
	}
	return *f.updatedAt, true
}
