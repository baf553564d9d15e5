package service

import (
	"context"

	"github.com/ariefcatur/go-commerce-core/internal/catalog"
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/logger"
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/ariefcatur/go-commerce-core/internal/persist"
	"github.com/google/uuid"
)

type Catalog struct {
	runner
}

func NewCatalog(store persist.Store, d events.Dispatcher, log *logger.Logger) *Catalog {
	return &Catalog{newRunner(store, d, log)}
}

type NewProduct struct {
	Name        string
	Description string
	Price       money.Money
	CategoryID  uuid.UUID
	Sku         string
}

func (c *Catalog) CreateProduct(ctx context.Context, in NewProduct) (uuid.UUID, error) {
	var id uuid.UUID
	err := c.run(ctx, "catalog.create", func(uow persist.UnitOfWork) error {
		p, err := catalog.Create(in.Name, in.Description, in.Price, in.CategoryID, in.Sku)
		if err != nil {
			return err
		}
		uow.Products().Add(p)
		id = p.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (c *Catalog) modify(ctx context.Context, op string, id uuid.UUID, fn func(*catalog.Product) error) error {
	return c.retry(ctx, op, func(uow persist.UnitOfWork) error {
		p, err := uow.Products().Get(ctx, id)
		if err != nil {
			return err
		}
		return fn(p)
	})
}

func (c *Catalog) Publish(ctx context.Context, id uuid.UUID) error {
	return c.modify(ctx, "catalog.publish", id, (*catalog.Product).Publish)
}

func (c *Catalog) Deactivate(ctx context.Context, id uuid.UUID) error {
	return c.modify(ctx, "catalog.deactivate", id, (*catalog.Product).Deactivate)
}

func (c *Catalog) Discontinue(ctx context.Context, id uuid.UUID) error {
	return c.modify(ctx, "catalog.discontinue", id, (*catalog.Product).Discontinue)
}

func (c *Catalog) ChangePrice(ctx context.Context, id uuid.UUID, price money.Money) error {
	return c.modify(ctx, "catalog.change_price", id, func(p *catalog.Product) error {
		return p.ChangePrice(price)
	})
}

func (c *Catalog) ChangeCategory(ctx context.Context, id, categoryID uuid.UUID) error {
	return c.modify(ctx, "catalog.change_category", id, func(p *catalog.Product) error {
		return p.ChangeCategory(categoryID)
	})
}

func (c *Catalog) AddFeature(ctx context.Context, id, featureID uuid.UUID, name, value string, displayOrder int) error {
	return c.modify(ctx, "catalog.add_feature", id, func(p *catalog.Product) error {
		return p.AddFeature(featureID, name, value, displayOrder)
	})
}

func (c *Catalog) UpdateFeatureValue(ctx context.Context, id, featureID uuid.UUID, value string) error {
	return c.modify(ctx, "catalog.update_feature", id, func(p *catalog.Product) error {
		return p.UpdateFeatureValue(featureID, value)
	})
}

func (c *Catalog) RemoveFeature(ctx context.Context, id, featureID uuid.UUID) error {
	return c.modify(ctx, "catalog.remove_feature", id, func(p *catalog.Product) error {
		return p.RemoveFeature(featureID)
	})
}
