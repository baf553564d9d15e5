package orders

import (
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/google/uuid"
)

// Item is one order line. It is fixed once the order exists.
type Item struct {
	id        uuid.UUID
	productID uuid.UUID
	quantity  int
	unitPrice money.Money
	lineTotal money.Money
}

func NewItem(productID uuid.UUID, quantity int, unitPrice money.Money) (Item, error) {
	if productID == uuid.Nil {
		return Item{}, ErrInvalidProductID
	}
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	if !unitPrice.IsSet() {
		return Item{}, ErrInvalidUnitPrice
	}
	return Item{
		id:        uuid.New(),
		productID: productID,
		quantity:  quantity,
		unitPrice: unitPrice,
		lineTotal: unitPrice.Multiply(quantity),
	}, nil
}

func (i Item) ID() uuid.UUID          { return i.id }
func (i Item) ProductID() uuid.UUID   { return i.productID }
func (i Item) Quantity() int          { return i.quantity }
func (i Item) UnitPrice() money.Money { return i.unitPrice }
func (i Item) LineTotal() money.Money { return i.lineTotal }
