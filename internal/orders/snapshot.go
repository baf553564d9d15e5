package orders

import (
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/google/uuid"
)

type Snapshot struct {
	ID            uuid.UUID
	CustomerEmail string
	Items         []ItemSnapshot
	Total         money.Money
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

type ItemSnapshot struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice money.Money
}

func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		ID:            o.id,
		CustomerEmail: o.customerEmail,
		Total:         o.total,
		Status:        o.status,
		CreatedAt:     o.createdAt,
		UpdatedAt:     o.updatedAt,
	}
	for _, it := range o.items {
		s.Items = append(s.Items, ItemSnapshot{
			ID:        it.id,
			ProductID: it.productID,
			Quantity:  it.quantity,
			UnitPrice: it.unitPrice,
		})
	}
	return s
}

// Restore rebuilds a stored order; line totals are recomputed from the lines.
func Restore(s Snapshot) *Order {
	o := &Order{
		id:            s.ID,
		customerEmail: s.CustomerEmail,
		total:         s.Total,
		status:        s.Status,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
	for _, it := range s.Items {
		o.items = append(o.items, Item{
			id:        it.ID,
			productID: it.ProductID,
			quantity:  it.Quantity,
			unitPrice: it.UnitPrice,
			lineTotal: it.UnitPrice.Multiply(it.Quantity),
		})
	}
	return o
}
