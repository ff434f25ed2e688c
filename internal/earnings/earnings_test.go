package earnings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petalmart/storefront/internal/cart"
	"github.com/petalmart/storefront/internal/order"
	"github.com/petalmart/storefront/internal/remote"
	"github.com/petalmart/storefront/internal/store"
)

func createOrder(
	t *testing.T,
	ledger *order.Ledger,
	scope string,
	total int64,
	status order.Status,
) order.Order {
	t.Helper()
	created := ledger.Create(context.Background(), scope, []cart.LineItem{
		{
			ID:         "p1",
			Name:       "product",
			SellerName: "petal co",
			UnitPrice:  decimal.NewFromInt(total),
			Quantity:   1,
		},
	})
	if status != order.StatusCreated {
		updated := ledger.SetStatus(context.Background(), scope, created.ID, status)
		require.NotNil(t, updated)
		return *updated
	}
	return created
}

func TestEarnings_CountsOnlyRevenueStatuses(t *testing.T) {
	ledger := order.NewLedger(store.NewMemoryStore())
	source := remote.NewSource(nil, ledger)
	aggregator := NewAggregator(source, decimal.RequireFromString("0.1"))
	ctx := context.Background()

	createOrder(t, ledger, "u1", 50, order.StatusCreated)
	createOrder(t, ledger, "u1", 100, order.StatusPaid)
	createOrder(t, ledger, "u1", 200, order.StatusDelivered)
	createOrder(t, ledger, "u1", 75, order.StatusCancelled)
	createOrder(t, ledger, "u1", 80, order.StatusFailed)

	report := aggregator.Earnings(ctx, "u1")
	assert.Equal(t, 2, report.Orders)
	assert.True(t, report.Gross.Equal(decimal.NewFromInt(300)), "gross=%s", report.Gross)
	assert.True(t, report.Commission.Equal(decimal.NewFromInt(30)), "commission=%s", report.Commission)
	assert.True(t, report.Net.Equal(decimal.NewFromInt(270)), "net=%s", report.Net)
	require.Contains(t, report.BySeller, "petal co")
	assert.True(t, report.BySeller["petal co"].Equal(decimal.NewFromInt(300)))
}

func TestEarnings_EmptyLedger(t *testing.T) {
	ledger := order.NewLedger(store.NewMemoryStore())
	source := remote.NewSource(nil, ledger)
	aggregator := NewAggregator(source, decimal.RequireFromString("0.1"))

	report := aggregator.Earnings(context.Background(), "u1")
	assert.Equal(t, 0, report.Orders)
	assert.True(t, report.Gross.IsZero())
	assert.True(t, report.Commission.IsZero())
	assert.True(t, report.Net.IsZero())
}

func TestEarnings_ScopedToUser(t *testing.T) {
	ledger := order.NewLedger(store.NewMemoryStore())
	source := remote.NewSource(nil, ledger)
	aggregator := NewAggregator(source, decimal.RequireFromString("0.2"))

	createOrder(t, ledger, "u1", 100, order.StatusPaid)
	createOrder(t, ledger, "u2", 999, order.StatusPaid)

	report := aggregator.Earnings(context.Background(), "u1")
	assert.Equal(t, 1, report.Orders)
	assert.True(t, report.Gross.Equal(decimal.NewFromInt(100)))
}
