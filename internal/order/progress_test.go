package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petalmart/storefront/internal/notify"
	"github.com/petalmart/storefront/internal/store"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	kinds    []notify.Kind
}

func (n *recordingNotifier) Notify(_ context.Context, message string, kind notify.Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	n.kinds = append(n.kinds, kind)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func TestProgressor_AdvancesToDeliveredAndStops(t *testing.T) {
	ledger := NewLedger(store.NewMemoryStore())
	notifier := &recordingNotifier{}
	progressor := NewProgressor(ledger, notifier, 5*time.Millisecond)
	defer progressor.Shutdown()
	ctx := context.Background()

	created := ledger.Create(ctx, store.GuestScope, lineItems())

	require.True(t, progressor.Enable(ctx, store.GuestScope, created.ID))
	assert.True(t, progressor.Enabled(store.GuestScope, created.ID))

	require.Eventually(t, func() bool {
		current, ok := ledger.Order(ctx, store.GuestScope, created.ID)
		return ok && current.Status == StatusDelivered
	}, time.Second, 5*time.Millisecond)

	// The timer removes itself once the order is terminal.
	require.Eventually(t, func() bool {
		return !progressor.Enabled(store.GuestScope, created.ID)
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return notifier.count() == 1
	}, time.Second, 5*time.Millisecond)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Contains(t, notifier.messages[0], created.ID)
	assert.Contains(t, notifier.messages[0], "DELIVERED")
	assert.Equal(t, notify.KindSuccess, notifier.kinds[0])
}

func TestProgressor_DisableStopsBeforeNextTick(t *testing.T) {
	ledger := NewLedger(store.NewMemoryStore())
	progressor := NewProgressor(ledger, notify.LogNotifier{}, 50*time.Millisecond)
	defer progressor.Shutdown()
	ctx := context.Background()

	created := ledger.Create(ctx, store.GuestScope, lineItems())

	require.True(t, progressor.Enable(ctx, store.GuestScope, created.ID))
	progressor.Disable(ctx, store.GuestScope, created.ID)
	assert.False(t, progressor.Enabled(store.GuestScope, created.ID))

	time.Sleep(120 * time.Millisecond)
	current, ok := ledger.Order(ctx, store.GuestScope, created.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCreated, current.Status)
}

func TestProgressor_EnableRejectsMissingAndTerminal(t *testing.T) {
	ledger := NewLedger(store.NewMemoryStore())
	progressor := NewProgressor(ledger, notify.LogNotifier{}, time.Minute)
	defer progressor.Shutdown()
	ctx := context.Background()

	assert.False(t, progressor.Enable(ctx, store.GuestScope, "missing"))

	created := ledger.Create(ctx, store.GuestScope, lineItems())
	ledger.SetStatus(ctx, store.GuestScope, created.ID, StatusCancelled)
	assert.False(t, progressor.Enable(ctx, store.GuestScope, created.ID))
}

func TestProgressor_EnableReplacesPreviousTimer(t *testing.T) {
	ledger := NewLedger(store.NewMemoryStore())
	progressor := NewProgressor(ledger, notify.LogNotifier{}, time.Minute)
	defer progressor.Shutdown()
	ctx := context.Background()

	created := ledger.Create(ctx, store.GuestScope, lineItems())

	require.True(t, progressor.Enable(ctx, store.GuestScope, created.ID))
	require.True(t, progressor.Enable(ctx, store.GuestScope, created.ID))
	assert.True(t, progressor.Enabled(store.GuestScope, created.ID))

	progressor.Disable(ctx, store.GuestScope, created.ID)
	assert.False(t, progressor.Enabled(store.GuestScope, created.ID))
}

func TestProgressor_ShutdownDrainsTimers(t *testing.T) {
	ledger := NewLedger(store.NewMemoryStore())
	progressor := NewProgressor(ledger, notify.LogNotifier{}, time.Minute)
	ctx := context.Background()

	first := ledger.Create(ctx, store.GuestScope, lineItems())
	second := ledger.Create(ctx, "alice", lineItems())
	require.True(t, progressor.Enable(ctx, store.GuestScope, first.ID))
	require.True(t, progressor.Enable(ctx, "alice", second.ID))

	progressor.Shutdown()

	assert.False(t, progressor.Enabled(store.GuestScope, first.ID))
	assert.False(t, progressor.Enabled("alice", second.ID))
}
