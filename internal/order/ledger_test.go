package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petalmart/storefront/internal/cart"
	"github.com/petalmart/storefront/internal/store"
)

func testLedger(t *testing.T) (*Ledger, *store.MemoryStore, *time.Time) {
	t.Helper()
	kv := store.NewMemoryStore()
	ledger := NewLedger(kv)
	clock := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return clock }
	return ledger, kv, &clock
}

func lineItems() []cart.LineItem {
	return []cart.LineItem{
		{ID: "p1", Name: "product p1", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
	}
}

func TestCreate_SnapshotsCartIntoCreatedOrder(t *testing.T) {
	ledger, _, _ := testLedger(t)
	ctx := context.Background()

	created := ledger.Create(ctx, store.GuestScope, lineItems())

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, StatusCreated, created.Status)
	assert.True(t, created.Total.Equal(decimal.NewFromInt(200)), "total should be 200, got %s", created.Total)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "p1", created.Items[0].ID)
	assert.Equal(t, 2, created.Items[0].Quantity)

	orders := ledger.Orders(ctx, store.GuestScope)
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, orders[0].ID)
}

func TestCreate_AppendsOldestFirst(t *testing.T) {
	ledger, _, _ := testLedger(t)
	ctx := context.Background()

	first := ledger.Create(ctx, store.GuestScope, lineItems())
	second := ledger.Create(ctx, store.GuestScope, lineItems())

	orders := ledger.Orders(ctx, store.GuestScope)
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)
}

func TestAdvance_WalksProgressionAndStopsAtDelivered(t *testing.T) {
	ledger, _, clock := testLedger(t)
	ctx := context.Background()

	created := ledger.Create(ctx, store.GuestScope, lineItems())

	for i := 0; i < 3; i++ {
		*clock = clock.Add(time.Minute)
		updated := ledger.Advance(ctx, store.GuestScope, created.ID)
		require.NotNil(t, updated)
	}
	current, ok := ledger.Order(ctx, store.GuestScope, created.ID)
	require.True(t, ok)
	assert.Equal(t, StatusShipped, current.Status)

	*clock = clock.Add(time.Minute)
	updated := ledger.Advance(ctx, store.GuestScope, created.ID)
	require.NotNil(t, updated)
	assert.Equal(t, StatusDelivered, updated.Status)
	deliveredAt := updated.UpdatedAt

	// A further advance is a no-op, updatedAt untouched.
	*clock = clock.Add(time.Minute)
	updated = ledger.Advance(ctx, store.GuestScope, created.ID)
	require.NotNil(t, updated)
	assert.Equal(t, StatusDelivered, updated.Status)
	assert.Equal(t, deliveredAt, updated.UpdatedAt)
}

func TestAdvance_TerminalBranchDoesNotAdvance(t *testing.T) {
	ledger, _, _ := testLedger(t)
	ctx := context.Background()

	created := ledger.Create(ctx, store.GuestScope, lineItems())
	ledger.SetStatus(ctx, store.GuestScope, created.ID, StatusCancelled)

	updated := ledger.Advance(ctx, store.GuestScope, created.ID)
	require.NotNil(t, updated)
	assert.Equal(t, StatusCancelled, updated.Status)
}

func TestAdvance_UnknownOrderReturnsNil(t *testing.T) {
	ledger, _, _ := testLedger(t)

	assert.Nil(t, ledger.Advance(context.Background(), store.GuestScope, "missing"))
}

func TestSetStatus_IsUnguardedOverride(t *testing.T) {
	ledger, _, clock := testLedger(t)
	ctx := context.Background()

	created := ledger.Create(ctx, store.GuestScope, lineItems())
	ledger.SetStatus(ctx, store.GuestScope, created.ID, StatusDelivered)

	// The override may resurrect a terminal order.
	*clock = clock.Add(time.Minute)
	updated := ledger.SetStatus(ctx, store.GuestScope, created.ID, StatusProcessing)
	require.NotNil(t, updated)
	assert.Equal(t, StatusProcessing, updated.Status)
	assert.Equal(t, *clock, updated.UpdatedAt)

	assert.Nil(t, ledger.SetStatus(ctx, store.GuestScope, "missing", StatusPaid))
}

func TestOrders_ScopesAreIsolated(t *testing.T) {
	ledger, _, _ := testLedger(t)
	ctx := context.Background()

	ledger.Create(ctx, "alice", lineItems())

	assert.Empty(t, ledger.Orders(ctx, store.GuestScope))
	assert.Len(t, ledger.Orders(ctx, "alice"), 1)
}

func TestOrders_CorruptStoredOrdersAreEmpty(t *testing.T) {
	ledger, kv, _ := testLedger(t)
	ctx := context.Background()

	kv.Set(ctx, store.OrdersKey(store.GuestScope), "[broken")

	assert.Empty(t, ledger.Orders(ctx, store.GuestScope))
}

func TestOrder_Lookup(t *testing.T) {
	ledger, _, _ := testLedger(t)
	ctx := context.Background()

	created := ledger.Create(ctx, store.GuestScope, lineItems())

	found, ok := ledger.Order(ctx, store.GuestScope, created.ID)
	assert.True(t, ok)
	assert.Equal(t, created.ID, found.ID)

	_, ok = ledger.Order(ctx, store.GuestScope, "missing")
	assert.False(t, ok)
}
