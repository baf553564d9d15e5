package catalog

import (
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/ariefcatur/go-commerce-core/internal/textval"
	"github.com/google/uuid"
)

// Snapshot is the persisted shape of a Product.
type Snapshot struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       money.Money
	CategoryID  uuid.UUID
	Sku         string
	Status      Status
	Features    []FeatureSnapshot
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type FeatureSnapshot struct {
	ID           uuid.UUID
	Name         string
	Value        string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (p *Product) Snapshot() Snapshot {
	s := Snapshot{
		ID:          p.id,
		Name:        p.name,
		Description: p.description,
		Price:       p.price,
		CategoryID:  p.categoryID,
		Sku:         p.sku.String(),
		Status:      p.status,
		CreatedAt:   p.createdAt,
		UpdatedAt:   p.updatedAt,
	}
	for _, f := range p.features {
		s.Features = append(s.Features, FeatureSnapshot{
			ID:           f.id,
			Name:         f.name.String(),
			Value:        f.value.String(),
			DisplayOrder: f.displayOrder,
			CreatedAt:    f.createdAt,
			UpdatedAt:    f.updatedAt,
		})
	}
	return s
}

// Restore rebuilds a stored product. It trusts the snapshot and records no events.
func Restore(s Snapshot) *Product {
	p := &Product{
		id:          s.ID,
		name:        s.Name,
		description: s.Description,
		price:       s.Price,
		categoryID:  s.CategoryID,
		sku:         Sku(s.Sku),
		status:      s.Status,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}
	for _, f := range s.Features {
		name, _ := textval.NewFoldedName(f.Name)
		value, _ := textval.NewNonEmpty(f.Value)
		p.features = append(p.features, Feature{
			id:           f.ID,
			name:         name,
			value:        value,
			displayOrder: f.DisplayOrder,
			createdAt:    f.CreatedAt,
			updatedAt:    f.UpdatedAt,
		})
	}
	return p
}
