// Package catalog holds the Product aggregate.
package catalog

import (
	"context"
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/ariefcatur/go-commerce-core/internal/textval"
	"github.com/google/uuid"
)

type Repository interface {
	// Get returns ErrNotFound when no product has the id.
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	Add(p *Product)
}

type Product struct {
	events.Recorder

	id          uuid.UUID
	name        string
	description string
	price       money.Money
	categoryID  uuid.UUID
	sku         Sku
	status      Status
	features    []Feature
	createdAt   time.Time
	updatedAt   *time.Time
}

func stamp(id uuid.UUID, at time.Time) productEvent {
	return productEvent{events.NewMeta(id, at)}
}

// Create builds a Draft product.
func Create(name, description string, price money.Money, categoryID uuid.UUID, sku string) (*Product, error) {
	n, ok := textval.NewNonEmpty(name)
	if !ok {
		return nil, ErrInvalidName
	}
	if !price.IsSet() {
		return nil, ErrInvalidPrice
	}
	if categoryID == uuid.Nil {
		return nil, ErrInvalidCategoryID
	}
	s, err := NewSku(sku)
	if err != nil {
		return nil, err
	}

	now := events.Now()
	p := &Product{
		id:          uuid.New(),
		name:        n.String(),
		description: textval.Optional(description),
		price:       price,
		categoryID:  categoryID,
		sku:         s,
		status:      StatusDraft,
		createdAt:   now,
	}
	p.Record(ProductCreated{productEvent: stamp(p.id, now), CategoryID: categoryID, Sku: s.String()})
	return p, nil
}

func (p *Product) ID() uuid.UUID         { return p.id }
func (p *Product) Name() string          { return p.name }
func (p *Product) Description() string   { return p.description }
func (p *Product) Price() money.Money    { return p.price }
func (p *Product) CategoryID() uuid.UUID { return p.categoryID }
func (p *Product) Sku() Sku              { return p.sku }
func (p *Product) Status() Status        { return p.status }
func (p *Product) CreatedAt() time.Time  { return p.createdAt }

func (p *Product) UpdatedAt() (time.Time, bool) {
	if p.updatedAt == nil {
		return time.Time{}, false
	}
	return *p.updatedAt, true
}

// Features returns a copy of the feature list in insertion order.
func (p *Product) Features() []Feature {
	out := make([]Feature, len(p.features))
	copy(out, p.features)
	return out
}

func (p *Product) touch(at time.Time) { p.updatedAt = &at }

func (p *Product) changeStatus(a action, event func(productEvent) events.Event) error {
	next, err := decide(p.status, a)
	if err != nil {
		return err
	}
	now := events.Now()
	p.status = next
	p.touch(now)
	p.Record(event(stamp(p.id, now)))
	return nil
}

// Publish makes a Draft or Inactive product Active.
func (p *Product) Publish() error {
	return p.changeStatus(actPublish, func(e productEvent) events.Event { return ProductActivated{e} })
}

func (p *Product) Deactivate() error {
	return p.changeStatus(actDeactivate, func(e productEvent) events.Event { return ProductDeactivated{e} })
}

// Discontinue is terminal: nothing can change the product afterwards.
func (p *Product) Discontinue() error {
	return p.changeStatus(actDiscontinue, func(e productEvent) events.Event { return ProductDiscontinued{e} })
}

func (p *Product) ensureModifiable() error {
	_, err := decide(p.status, actModify)
	return err
}

func (p *Product) ChangePrice(newPrice money.Money) error {
	if !newPrice.IsSet() || newPrice.Amount().IsNegative() {
		return ErrInvalidPrice
	}
	if err := p.ensureModifiable(); err != nil {
		return err
	}
	if p.price.Equal(newPrice) {
		return ErrPriceUnchanged
	}

	now := events.Now()
	old := p.price
	p.price = newPrice
	p.touch(now)
	p.Record(ProductPriceChanged{productEvent: stamp(p.id, now), OldPrice: old, NewPrice: newPrice})
	return nil
}

func (p *Product) ChangeCategory(newCategoryID uuid.UUID) error {
	if newCategoryID == uuid.Nil {
		return ErrInvalidCategoryID
	}
	if err := p.ensureModifiable(); err != nil {
		return err
	}
	if p.categoryID == newCategoryID {
		return ErrCategoryUnchanged
	}

	now := events.Now()
	old := p.categoryID
	p.categoryID = newCategoryID
	p.touch(now)
	p.Record(ProductCategoryChanged{productEvent: stamp(p.id, now), OldCategoryID: old, NewCategoryID: newCategoryID})
	return nil
}

func (p *Product) findFeature(id uuid.UUID) int {
	for i := range p.features {
		if p.features[i].id == id {
			return i
		}
	}
	return -1
}

// AddFeature appends a feature; ids and names (case-insensitive) stay unique.
func (p *Product) AddFeature(featureID uuid.UUID, name, value string, displayOrder int) error {
	if featureID == uuid.Nil {
		return ErrInvalidFeatureID
	}
	n, ok := textval.NewFoldedName(name)
	if !ok {
		return ErrInvalidFeatureName
	}
	v, ok := textval.NewNonEmpty(value)
	if !ok {
		return ErrInvalidFeatureValue
	}
	if err := p.ensureModifiable(); err != nil {
		return err
	}
	if p.findFeature(featureID) >= 0 {
		return ErrDuplicateFeatureID
	}
	for _, f := range p.features {
		if f.name.Matches(n) {
			return ErrFeatureExists
		}
	}

	now := events.Now()
	p.features = append(p.features, Feature{
		id:           featureID,
		name:         n,
		value:        v,
		displayOrder: displayOrder,
		createdAt:    now,
	})
	p.touch(now)
	p.Record(ProductFeatureAdded{
		productEvent: stamp(p.id, now),
		FeatureID:    featureID,
		Name:         n.String(),
		Value:        v.String(),
		DisplayOrder: displayOrder,
	})
	return nil
}

// UpdateFeatureValue is a no-op success when the value does not change.
func (p *Product) UpdateFeatureValue(featureID uuid.UUID, newValue string) error {
	if featureID == uuid.Nil {
		return ErrInvalidFeatureID
	}
	v, ok := textval.NewNonEmpty(newValue)
	if !ok {
		return ErrInvalidFeatureValue
	}
	if err := p.ensureModifiable(); err != nil {
		return err
	}
	i := p.findFeature(featureID)
	if i < 0 {
		return ErrFeatureNotFound
	}
	f := &p.features[i]
	if f.value == v {
		return nil
	}

	now := events.Now()
	old := f.value
	f.value = v
	f.updatedAt = &now
	p.touch(now)
	p.Record(ProductFeatureUpdated{
		productEvent: stamp(p.id, now),
		FeatureID:    featureID,
		Name:         f.name.String(),
		OldValue:     old.String(),
		NewValue:     v.String(),
	})
	return nil
}

func (p *Product) RemoveFeature(featureID uuid.UUID) error {
	if featureID == uuid.Nil {
		return ErrInvalidFeatureID
	}
	if err := p.ensureModifiable(); err != nil {
		return err
	}
	i := p.findFeature(featureID)
	if i < 0 {
		return ErrFeatureNotFound
	}

	now := events.Now()
	removed := p.features[i]
	p.features = append(p.features[:i], p.features[i+1:]...)
	p.touch(now)
	p.Record(ProductFeatureRemoved{productEvent: stamp(p.id, now), FeatureID: featureID, Name: removed.name.String()})
	return nil
}
