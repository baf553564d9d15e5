package catalog

import (
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/google/uuid"
)

const AggregateType = "catalog.product"

const (
	EventProductCreated         = "catalog.product.created"
	EventProductActivated       = "catalog.product.activated"
	EventProductDeactivated     = "catalog.product.deactivated"
	EventProductDiscontinued    = "catalog.product.discontinued"
	EventProductPriceChanged    = "catalog.product.price_changed"
	EventProductCategoryChanged = "catalog.product.category_changed"
	EventProductFeatureAdded    = "catalog.product.feature_added"
	EventProductFeatureUpdated  = "catalog.product.feature_updated"
	EventProductFeatureRemoved  = "catalog.product.feature_removed"
)

type productEvent struct{ events.Meta }

func (productEvent) AggregateType() string { return AggregateType }

type ProductCreated struct {
	productEvent
	CategoryID uuid.UUID `json:"category_id"`
	Sku        string    `json:"sku"`
}

func (ProductCreated) EventType() string { return EventProductCreated }

type ProductActivated struct{ productEvent }

func (ProductActivated) EventType() string { return EventProductActivated }

type ProductDeactivated struct{ productEvent }

func (ProductDeactivated) EventType() string { return EventProductDeactivated }

type ProductDiscontinued struct{ productEvent }

func (ProductDiscontinued) EventType() string { return EventProductDiscontinued }

type ProductPriceChanged struct {
	productEvent
	OldPrice money.Money `json:"old_price"`
	NewPrice money.Money `json:"new_price"`
}

func (ProductPriceChanged) EventType() string { return EventProductPriceChanged }

type ProductCategoryChanged struct {
	productEvent
	OldCategoryID uuid.UUID `json:"old_category_id"`
	NewCategoryID uuid.UUID `json:"new_category_id"`
}

func (ProductCategoryChanged) EventType() string { return EventProductCategoryChanged }

type ProductFeatureAdded struct {
	productEvent
	FeatureID    uuid.UUID `json:"feature_id"`
	Name         string    `json:"name"`
	Value        string    `json:"value"`
	DisplayOrder int       `json:"display_order"`
}

func (ProductFeatureAdded) EventType() string { return EventProductFeatureAdded }

type ProductFeatureUpdated struct {
	productEvent
	FeatureID uuid.UUID `json:"feature_id"`
	Name      string    `json:"name"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
}

func (ProductFeatureUpdated) EventType() string { return EventProductFeatureUpdated }

type ProductFeatureRemoved struct {
	productEvent
	FeatureID uuid.UUID `json:"feature_id"`
	Name      string    `json:"name"`
}

func (ProductFeatureRemoved) EventType() string { return EventProductFeatureRemoved }
