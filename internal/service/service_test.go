package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ariefcatur/go-commerce-core/internal/apperr"
	"github.com/ariefcatur/go-commerce-core/internal/catalog"
	"github.com/ariefcatur/go-commerce-core/internal/events"
	"github.com/ariefcatur/go-commerce-core/internal/memstore"
	"github.com/ariefcatur/go-commerce-core/internal/money"
	"github.com/ariefcatur/go-commerce-core/internal/orders"
	"github.com/ariefcatur/go-commerce-core/internal/payments"
	"github.com/ariefcatur/go-commerce-core/internal/persist"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(s string) money.Money {
	return money.MustNew(decimal.RequireFromString(s), money.USD)
}

func eur(s string) money.Money {
	return money.MustNew(decimal.RequireFromString(s), money.EUR)
}

type recorder struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *recorder) Dispatch(_ context.Context, evs []events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, evs...)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.got))
	for _, e := range r.got {
		out = append(out, e.EventType())
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.got = nil
	r.mu.Unlock()
}

type fixture struct {
	store    *memstore.Store
	events   *recorder
	catalog  *Catalog
	ordering *Ordering
	payments *Payments
	registry *memRegistry
}

func newFixture() *fixture {
	f := &fixture{store: memstore.New("test"), events: &recorder{}, registry: newMemRegistry()}
	f.catalog = NewCatalog(f.store, f.events, nil)
	f.ordering = NewOrdering(f.store, f.events, nil)
	f.payments = NewPayments(f.store, f.registry, f.events, nil)
	return f
}

func (f *fixture) activeProduct(t *testing.T, price money.Money) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	id, err := f.catalog.CreateProduct(ctx, NewProduct{Name: "Mug", Price: price, CategoryID: uuid.New(), Sku: "mug-" + uuid.NewString()[:8]})
	require.NoError(t, err)
	require.NoError(t, f.catalog.Publish(ctx, id))
	return id
}

func (f *fixture) awaitingOrder(t *testing.T) (uuid.UUID, money.Money) {
	t.Helper()
	ctx := context.Background()
	pid := f.activeProduct(t, usd("10.00"))
	oid, err := f.ordering.PlaceOrder(ctx, "a@example.com", []Line{{ProductID: pid, Quantity: 2}})
	require.NoError(t, err)
	require.NoError(t, f.ordering.SubmitForPayment(ctx, oid))
	return oid, usd("20.00")
}

// flakyStore fails the first n commits with a concurrency conflict.
type flakyStore struct {
	persist.Store
	mu sync.Mutex
	n  int
}

func (s *flakyStore) Begin() persist.UnitOfWork { return &flakyUnit{UnitOfWork: s.Store.Begin(), s: s} }

type flakyUnit struct {
	persist.UnitOfWork
	s *flakyStore
}

func (u *flakyUnit) SaveChanges(ctx context.Context) (int, error) {
	u.s.mu.Lock()
	fail := u.s.n > 0
	if fail {
		u.s.n--
	}
	u.s.mu.Unlock()
	if fail {
		return 0, persist.ErrConcurrencyConflict
	}
	return u.UnitOfWork.SaveChanges(ctx)
}

func TestCatalog_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	id, err := f.catalog.CreateProduct(ctx, NewProduct{Name: "Mug", Price: usd("9.90"), CategoryID: uuid.New(), Sku: "mug-1"})
	require.NoError(t, err)
	require.NoError(t, f.catalog.Publish(ctx, id))
	require.NoError(t, f.catalog.ChangePrice(ctx, id, usd("11.00")))
	require.NoError(t, f.catalog.ChangeCategory(ctx, id, uuid.New()))

	feature := uuid.New()
	require.NoError(t, f.catalog.AddFeature(ctx, id, feature, "Color", "Red", 1))
	require.NoError(t, f.catalog.UpdateFeatureValue(ctx, id, feature, "Blue"))
	require.NoError(t, f.catalog.RemoveFeature(ctx, id, feature))
	require.NoError(t, f.catalog.Deactivate(ctx, id))
	require.NoError(t, f.catalog.Discontinue(ctx, id))

	assert.Equal(t, []string{
		catalog.EventProductCreated,
		catalog.EventProductActivated,
		catalog.EventProductPriceChanged,
		catalog.EventProductCategoryChanged,
		catalog.EventProductFeatureAdded,
		catalog.EventProductFeatureUpdated,
		catalog.EventProductFeatureRemoved,
		catalog.EventProductDeactivated,
		catalog.EventProductDiscontinued,
	}, f.events.types())
	assert.Len(t, f.store.Messages(), 9)

	err = f.catalog.ChangePrice(ctx, id, usd("1.00"))
	assert.True(t, apperr.Is(err, catalog.ErrDiscontinuedCannotBeModified))
	assert.Len(t, f.store.Messages(), 9)
}

func TestCatalog_FailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.catalog.CreateProduct(ctx, NewProduct{Name: " ", Price: usd("1.00"), CategoryID: uuid.New(), Sku: "x"})
	assert.True(t, apperr.Is(err, catalog.ErrInvalidName))

	err = f.catalog.Publish(ctx, uuid.New())
	assert.True(t, apperr.Is(err, catalog.ErrNotFound))

	assert.Empty(t, f.store.Messages())
	assert.Empty(t, f.events.types())
}

func TestCatalog_RetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New("test")
	flaky := &flakyStore{Store: mem}
	svc := NewCatalog(flaky, nil, nil)

	id, err := svc.CreateProduct(ctx, NewProduct{Name: "Mug", Price: usd("1.00"), CategoryID: uuid.New(), Sku: "m"})
	require.NoError(t, err)

	flaky.n = 2
	require.NoError(t, svc.Publish(ctx, id))

	flaky.n = maxAttempts
	err = svc.Deactivate(ctx, id)
	assert.ErrorIs(t, err, persist.ErrConcurrencyConflict)
}

func TestOrdering_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.activeProduct(t, usd("10.00"))
	b := f.activeProduct(t, usd("2.50"))
	f.events.reset()

	id, err := f.ordering.PlaceOrder(ctx, "a@example.com", []Line{{ProductID: a, Quantity: 1}, {ProductID: b, Quantity: 4}})
	require.NoError(t, err)
	assert.Equal(t, []string{orders.EventOrderCreated}, f.events.types())

	ord, err := f.store.Begin().Orders().Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, ord.Total().Equal(usd("20.00")))
	assert.Len(t, ord.Items(), 2)
}

func TestOrdering_PlaceOrder_Failures(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	active := f.activeProduct(t, usd("10.00"))
	euro := f.activeProduct(t, eur("3.00"))
	draft, err := f.catalog.CreateProduct(ctx, NewProduct{Name: "Draft", Price: usd("1.00"), CategoryID: uuid.New(), Sku: "d"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
		lines []Line
		want  *apperr.Error
	}{
		{"nil lines", "a@example.com", nil, orders.ErrOrderItemsCannotBeNull},
		{"empty lines", "a@example.com", []Line{}, orders.ErrEmptyOrder},
		{"no email", " ", []Line{{ProductID: active, Quantity: 1}}, orders.ErrCustomerEmailRequired},
		{"unknown product", "a@example.com", []Line{{ProductID: uuid.New(), Quantity: 1}}, catalog.ErrNotFound},
		{"nil product", "a@example.com", []Line{{Quantity: 1}}, orders.ErrInvalidProductID},
		{"draft product", "a@example.com", []Line{{ProductID: draft, Quantity: 1}}, catalog.ErrNotActive},
		{"zero quantity", "a@example.com", []Line{{ProductID: active, Quantity: 0}}, orders.ErrInvalidQuantity},
		{"mixed currency", "a@example.com", []Line{{ProductID: active, Quantity: 1}, {ProductID: euro, Quantity: 1}}, orders.ErrCurrencyMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ordering.PlaceOrder(ctx, tt.email, tt.lines)
			assert.True(t, apperr.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestOrdering_Transitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	oid, _ := f.awaitingOrder(t)

	err := f.ordering.SubmitForPayment(ctx, oid)
	assert.True(t, apperr.Is(err, orders.ErrNotCreated))

	require.NoError(t, f.ordering.MarkAsPaid(ctx, oid))
	err = f.ordering.Cancel(ctx, oid, "late")
	assert.True(t, apperr.Is(err, orders.ErrCannotCancelPaidOrder))

	// redelivered payment outcome
	require.NoError(t, f.ordering.HandlePaymentSucceeded(ctx, oid))
}

func TestOrdering_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	pid := f.activeProduct(t, usd("1.00"))
	oid, err := f.ordering.PlaceOrder(ctx, "a@example.com", []Line{{ProductID: pid, Quantity: 1}})
	require.NoError(t, err)

	require.NoError(t, f.ordering.Cancel(ctx, oid, " "))
	err = f.ordering.Cancel(ctx, oid, "again")
	assert.True(t, apperr.Is(err, orders.ErrAlreadyCancelled))
	err = f.ordering.HandlePaymentSucceeded(ctx, oid)
	assert.True(t, apperr.Is(err, orders.ErrNotAwaitingPayment))
}

func TestPayments_InitiateAndSettle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	oid, total := f.awaitingOrder(t)
	f.events.reset()

	res, err := f.payments.Initiate(ctx, InitiateRequest{OrderID: oid, Amount: total, Provider: "stripe", IdempotencyKey: "k-1"})
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, res.PaymentID, f.registry.owner("k-1"))

	again, err := f.payments.Initiate(ctx, InitiateRequest{OrderID: oid, Amount: total, Provider: "stripe", IdempotencyKey: " k-1 "})
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, res.PaymentID, again.PaymentID)

	_, err = f.payments.Initiate(ctx, InitiateRequest{OrderID: oid, Amount: usd("1.00"), Provider: "stripe", IdempotencyKey: "k-1"})
	assert.True(t, apperr.Is(err, payments.ErrDuplicateIdempotency))

	require.NoError(t, f.payments.HandleGatewayOutcome(ctx, GatewayOutcome{PaymentID: res.PaymentID, Outcome: "succeeded", ProviderReference: "ch_1"}))
	require.NoError(t, f.payments.ReportSucceeded(ctx, res.PaymentID, "ch_1"))
	err = f.payments.ReportFailed(ctx, res.PaymentID, "declined")
	assert.True(t, apperr.Is(err, payments.ErrCannotFailSucceeded))

	assert.Equal(t, []string{payments.EventPaymentInitiated, payments.EventPaymentSucceeded}, f.events.types())
}

func TestPayments_InitiateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	oid, total := f.awaitingOrder(t)
	pid := f.activeProduct(t, usd("1.00"))
	created, err := f.ordering.PlaceOrder(ctx, "a@example.com", []Line{{ProductID: pid, Quantity: 1}})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  InitiateRequest
		want *apperr.Error
	}{
		{"no order id", InitiateRequest{Amount: total, Provider: "p", IdempotencyKey: "a"}, payments.ErrInvalidOrderID},
		{"unknown order", InitiateRequest{OrderID: uuid.New(), Amount: total, Provider: "p", IdempotencyKey: "b"}, orders.ErrNotFound},
		{"order not submitted", InitiateRequest{OrderID: created, Amount: usd("1.00"), Provider: "p", IdempotencyKey: "c"}, orders.ErrNotAwaitingPayment},
		{"currency", InitiateRequest{OrderID: oid, Amount: eur("20.00"), Provider: "p", IdempotencyKey: "d"}, payments.ErrOrderCurrencyMismatch},
		{"no key", InitiateRequest{OrderID: oid, Amount: total, Provider: "p"}, payments.ErrIdempotencyKeyRequired},
		{"no provider", InitiateRequest{OrderID: oid, Amount: total, IdempotencyKey: "e"}, payments.ErrProviderRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.payments.Initiate(ctx, tt.req)
			assert.True(t, apperr.Is(err, tt.want), "got %v", err)
		})
	}
	assert.Zero(t, f.registry.size())
}

func TestPayments_KeyClaimedElsewhere(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	oid, total := f.awaitingOrder(t)
	f.registry.claims["k-9"] = uuid.New()

	_, err := f.payments.Initiate(ctx, InitiateRequest{OrderID: oid, Amount: total, Provider: "p", IdempotencyKey: "k-9"})
	assert.True(t, apperr.Is(err, payments.ErrDuplicateIdempotency))
}

func TestPayments_ReleasesClaimWhenCommitFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	oid, total := f.awaitingOrder(t)
	svc := NewPayments(&flakyStore{Store: f.store, n: 1}, f.registry, nil, nil)

	_, err := svc.Initiate(ctx, InitiateRequest{OrderID: oid, Amount: total, Provider: "p", IdempotencyKey: "k-2"})
	assert.ErrorIs(t, err, persist.ErrConcurrencyConflict)
	assert.Zero(t, f.registry.size())
}

func TestPayments_GatewayOutcome(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	oid, total := f.awaitingOrder(t)
	res, err := f.payments.Initiate(ctx, InitiateRequest{OrderID: oid, Amount: total, Provider: "p", IdempotencyKey: "k"})
	require.NoError(t, err)

	err = f.payments.HandleGatewayOutcome(ctx, GatewayOutcome{PaymentID: res.PaymentID, Outcome: "refunded"})
	assert.True(t, errors.Is(err, ErrUnknownOutcome))

	require.NoError(t, f.payments.HandleGatewayOutcome(ctx, GatewayOutcome{PaymentID: res.PaymentID, Outcome: "FAILED", Reason: "declined"}))
	require.NoError(t, f.payments.HandleGatewayOutcome(ctx, GatewayOutcome{PaymentID: res.PaymentID, Outcome: "failed", Reason: "declined"}))

	err = f.payments.HandleGatewayOutcome(ctx, GatewayOutcome{PaymentID: res.PaymentID, Outcome: "succeeded", ProviderReference: "x"})
	assert.True(t, apperr.Is(err, payments.ErrCannotSucceedFailed))
}

type memRegistry struct {
	mu     sync.Mutex
	claims map[string]uuid.UUID
}

func newMemRegistry() *memRegistry { return &memRegistry{claims: map[string]uuid.UUID{}} }

func (r *memRegistry) Claim(_ context.Context, key string, id uuid.UUID) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.claims[key]; ok {
		return owner, nil
	}
	r.claims[key] = id
	return id, nil
}

func (r *memRegistry) Release(_ context.Context, key string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claims[key] == id {
		delete(r.claims, key)
	}
	return nil
}

func (r *memRegistry) owner(key string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.claims[key]
}

func (r *memRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.claims)
}
