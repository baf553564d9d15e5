package catalog

import (
	"testing"
	"time"

	"github.com/ariefcatur/go-commerce-core/internal/apperr"
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func usd(s string) money.Money {
	return money.MustNew(decimal.RequireFromString(s), money.USD)
}

func newDraft(t *testing.T) *Product {
	t.Helper()
	t.Cleanup(events.SetClock(func() time.Time { return fixedNow }))
	p, err := Create("  Desk Lamp ", " warm light ", usd("10.00"), uuid.New(), "lamp-01")
	require.NoError(t, err)
	p.PullEvents()
	return p
}

func TestCreate(t *testing.T) {
	t.Cleanup(events.SetClock(func() time.Time { return fixedNow }))
	cat := uuid.New()

	p, err := Create(" Desk Lamp ", "", usd("10.00"), cat, " lamp-01 ")
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", p.Name())
	assert.Equal(t, StatusDraft, p.Status())
	assert.Equal(t, Sku("LAMP-01"), p.Sku())
	assert.Equal(t, fixedNow, p.CreatedAt())
	_, updated := p.UpdatedAt()
	assert.False(t, updated)

	evs := p.PullEvents()
	require.Len(t, evs, 1)
	created, ok := evs[0].(ProductCreated)
	require.True(t, ok)
	assert.Equal(t, p.ID(), created.AggregateID())
	assert.Equal(t, cat, created.CategoryID)
	assert.Equal(t, AggregateType, created.AggregateType())
}

func TestCreate_Validation(t *testing.T) {
	cat := uuid.New()
	tests := []struct {
		name    string
		pname   string
		price   money.Money
		cat     uuid.UUID
		sku     string
		wantErr *apperr.Error
	}{
		{"blank name", "  ", usd("1"), cat, "A", ErrInvalidName},
		{"unset price", "Lamp", money.Money{}, cat, "A", ErrInvalidPrice},
		{"nil category", "Lamp", usd("1"), uuid.Nil, "A", ErrInvalidCategoryID},
		{"blank sku", "Lamp", usd("1"), cat, " ", ErrInvalidSku},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Create(tt.pname, "", tt.price, tt.cat, tt.sku)
			assert.Nil(t, p)
			assert.True(t, apperr.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestPublish_ThenPublishAgain(t *testing.T) {
	p := newDraft(t)

	require.NoError(t, p.Publish())
	assert.Equal(t, StatusActive, p.Status())
	at, ok := p.UpdatedAt()
	assert.True(t, ok)
	assert.Equal(t, fixedNow, at)

	evs := p.PendingEvents()
	require.Len(t, evs, 1)
	assert.IsType(t, ProductActivated{}, evs[0])
	assert.Equal(t, fixedNow, evs[0].OccurredAt())

	err := p.Publish()
	assert.True(t, apperr.Is(err, ErrAlreadyActive))
	assert.Equal(t, StatusActive, p.Status())
	assert.Len(t, p.PendingEvents(), 1)
}

func TestDeactivate(t *testing.T) {
	p := newDraft(t)
	assert.True(t, apperr.Is(p.Deactivate(), ErrNotActive))

	require.NoError(t, p.Publish())
	require.NoError(t, p.Deactivate())
	assert.Equal(t, StatusInactive, p.Status())

	require.NoError(t, p.Publish(), "inactive products can be published again")
	evs := p.PullEvents()
	require.Len(t, evs, 3)
	assert.IsType(t, ProductDeactivated{}, evs[1])
}

func TestDiscontinue_LocksProduct(t *testing.T) {
	p := newDraft(t)
	require.NoError(t, p.AddFeature(uuid.New(), "Color", "Red", 1))
	require.NoError(t, p.Discontinue())
	assert.Equal(t, StatusDiscontinued, p.Status())
	p.PullEvents()

	before := p.Snapshot()

	assert.True(t, apperr.Is(p.Discontinue(), ErrAlreadyDiscontinued))
	assert.True(t, apperr.Is(p.Publish(), ErrInvalidStatus))
	assert.True(t, apperr.Is(p.Deactivate(), ErrNotActive))
	assert.True(t, apperr.Is(p.ChangePrice(usd("12")), ErrDiscontinuedCannotBeModified))
	assert.True(t, apperr.Is(p.ChangeCategory(uuid.New()), ErrDiscontinuedCannotBeModified))
	assert.True(t, apperr.Is(p.AddFeature(uuid.New(), "Size", "L", 2), ErrDiscontinuedCannotBeModified))
	fid := before.Features[0].ID
	assert.True(t, apperr.Is(p.UpdateFeatureValue(fid, "Blue"), ErrDiscontinuedCannotBeModified))
	assert.True(t, apperr.Is(p.RemoveFeature(fid), ErrDiscontinuedCannotBeModified))

	assert.Equal(t, before, p.Snapshot())
	assert.Empty(t, p.PendingEvents())
}

func TestChangePrice(t *testing.T) {
	p := newDraft(t)

	assert.True(t, apperr.Is(p.ChangePrice(money.Money{}), ErrInvalidPrice))
	assert.True(t, apperr.Is(p.ChangePrice(usd("10")), ErrPriceUnchanged))

	require.NoError(t, p.ChangePrice(usd("12.99")))
	assert.True(t, p.Price().Equal(usd("12.99")))

	evs := p.PullEvents()
	require.Len(t, evs, 1)
	changed := evs[0].(ProductPriceChanged)
	assert.True(t, changed.OldPrice.Equal(usd("10")))
	assert.True(t, changed.NewPrice.Equal(usd("12.99")))
}

func TestChangeCategory(t *testing.T) {
	p := newDraft(t)
	current := p.CategoryID()

	assert.True(t, apperr.Is(p.ChangeCategory(uuid.Nil), ErrInvalidCategoryID))
	assert.True(t, apperr.Is(p.ChangeCategory(current), ErrCategoryUnchanged))

	next := uuid.New()
	require.NoError(t, p.ChangeCategory(next))
	assert.Equal(t, next, p.CategoryID())

	evs := p.PullEvents()
	require.Len(t, evs, 1)
	changed := evs[0].(ProductCategoryChanged)
	assert.Equal(t, current, changed.OldCategoryID)
	assert.Equal(t, next, changed.NewCategoryID)
}

func TestAddFeature(t *testing.T) {
	p := newDraft(t)
	id := uuid.New()

	require.NoError(t, p.AddFeature(id, "  Color ", " Red ", 3))
	fs := p.Features()
	require.Len(t, fs, 1)
	assert.Equal(t, "Color", fs[0].Name())
	assert.Equal(t, "Red", fs[0].Value())
	assert.Equal(t, 3, fs[0].DisplayOrder())

	assert.True(t, apperr.Is(p.AddFeature(uuid.Nil, "Size", "L", 1), ErrInvalidFeatureID))
	assert.True(t, apperr.Is(p.AddFeature(uuid.New(), " ", "L", 1), ErrInvalidFeatureName))
	assert.True(t, apperr.Is(p.AddFeature(uuid.New(), "Size", " ", 1), ErrInvalidFeatureValue))
	assert.True(t, apperr.Is(p.AddFeature(id, "Size", "L", 1), ErrDuplicateFeatureID))
	assert.True(t, apperr.Is(p.AddFeature(uuid.New(), "COLOR", "Blue", 1), ErrFeatureExists))

	require.NoError(t, p.AddFeature(uuid.New(), "Size", "L", 3), "display order may repeat")
	assert.Len(t, p.Features(), 2)

	evs := p.PullEvents()
	require.Len(t, evs, 2)
	added := evs[0].(ProductFeatureAdded)
	assert.Equal(t, id, added.FeatureID)
	assert.Equal(t, "Color", added.Name)
	assert.Equal(t, "Red", added.Value)
}

func TestUpdateFeatureValue(t *testing.T) {
	p := newDraft(t)
	id := uuid.New()
	require.NoError(t, p.AddFeature(id, "Color", "Red", 1))
	p.PullEvents()

	assert.True(t, apperr.Is(p.UpdateFeatureValue(uuid.New(), "Blue"), ErrFeatureNotFound))
	assert.True(t, apperr.Is(p.UpdateFeatureValue(id, "  "), ErrInvalidFeatureValue))

	require.NoError(t, p.UpdateFeatureValue(id, " Red "))
	assert.Empty(t, p.PendingEvents(), "unchanged value records nothing")

	require.NoError(t, p.UpdateFeatureValue(id, "Blue"))
	assert.Equal(t, "Blue", p.Features()[0].Value())
	_, updated := p.Features()[0].UpdatedAt()
	assert.True(t, updated)

	evs := p.PullEvents()
	require.Len(t, evs, 1)
	upd := evs[0].(ProductFeatureUpdated)
	assert.Equal(t, "Red", upd.OldValue)
	assert.Equal(t, "Blue", upd.NewValue)
}

func TestRemoveFeature(t *testing.T) {
	p := newDraft(t)
	keep, drop := uuid.New(), uuid.New()
	require.NoError(t, p.AddFeature(keep, "Color", "Red", 1))
	require.NoError(t, p.AddFeature(drop, "Size", "L", 2))
	p.PullEvents()

	assert.True(t, apperr.Is(p.RemoveFeature(uuid.Nil), ErrInvalidFeatureID))
	assert.True(t, apperr.Is(p.RemoveFeature(uuid.New()), ErrFeatureNotFound))

	require.NoError(t, p.RemoveFeature(drop))
	fs := p.Features()
	require.Len(t, fs, 1)
	assert.Equal(t, keep, fs[0].ID())

	evs := p.PullEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, "Size", evs[0].(ProductFeatureRemoved).Name)

	require.NoError(t, p.AddFeature(uuid.New(), "size", "M", 2), "removed names can be reused")
}

func TestSnapshotRestore(t *testing.T) {
	p := newDraft(t)
	require.NoError(t, p.AddFeature(uuid.New(), "Color", "Red", 1))
	require.NoError(t, p.Publish())

	restored := Restore(p.Snapshot())
	assert.Equal(t, p.Snapshot(), restored.Snapshot())
	assert.Empty(t, restored.PendingEvents())
	assert.True(t, apperr.Is(restored.AddFeature(uuid.New(), "COLOR", "x", 1), ErrFeatureExists))
}
