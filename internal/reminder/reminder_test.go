package reminder

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
}

func (n *recordingNotifier) Notify(_ context.Context, message string, _ notify.Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func testService(t *testing.T) (*ReminderService, *recordingNotifier, *time.Time) {
	t.Helper()
	notifier := &recordingNotifier{}
	svc := NewReminderService(store.NewMemoryStore(), notifier)
	clock := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	return svc, notifier, &clock
}

func TestAddAndList(t *testing.T) {
	svc, _, clock := testService(t)
	ctx := context.Background()

	created := svc.Add(ctx, store.GuestScope, "water the plants", clock.Add(time.Hour), []string{"push"})
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Notified)

	reminders := svc.Reminders(ctx, store.GuestScope)
	require.Len(t, reminders, 1)
	assert.Equal(t, "water the plants", reminders[0].Title)
	assert.Empty(t, svc.Reminders(ctx, "alice"))
}

func TestRemove(t *testing.T) {
	svc, _, clock := testService(t)
	ctx := context.Background()

	created := svc.Add(ctx, store.GuestScope, "call supplier", clock.Add(time.Hour), nil)
	svc.Remove(ctx, store.GuestScope, created.ID)

	assert.Empty(t, svc.Reminders(ctx, store.GuestScope))
}

func TestCheckDue_FiresOnceAndMarksNotified(t *testing.T) {
	svc, notifier, clock := testService(t)
	ctx := context.Background()

	svc.Add(ctx, store.GuestScope, "send invoice", clock.Add(-time.Minute), nil)
	svc.Add(ctx, store.GuestScope, "not yet", clock.Add(time.Hour), nil)

	fired := svc.CheckDue(ctx, store.GuestScope)
	assert.Equal(t, 1, fired)
	require.Equal(t, 1, notifier.count())
	assert.Contains(t, notifier.messages[0], "send invoice")

	reminders := svc.Reminders(ctx, store.GuestScope)
	require.Len(t, reminders, 2)
	assert.True(t, reminders[0].Notified)
	assert.False(t, reminders[1].Notified)

	// Already-notified reminders never fire again.
	assert.Equal(t, 0, svc.CheckDue(ctx, store.GuestScope))
	assert.Equal(t, 1, notifier.count())
}

func TestCheckDue_FutureReminderFiresOnceDue(t *testing.T) {
	svc, notifier, clock := testService(t)
	ctx := context.Background()

	svc.Add(ctx, store.GuestScope, "restock shelf", clock.Add(30*time.Minute), nil)
	assert.Equal(t, 0, svc.CheckDue(ctx, store.GuestScope))

	*clock = clock.Add(time.Hour)
	assert.Equal(t, 1, svc.CheckDue(ctx, store.GuestScope))
	assert.Equal(t, 1, notifier.count())
}

func TestAdd_IndexesScopeForScheduler(t *testing.T) {
	svc, _, clock := testService(t)
	ctx := context.Background()

	svc.Add(ctx, "alice", "a", clock.Add(time.Hour), nil)
	svc.Add(ctx, "alice", "b", clock.Add(time.Hour), nil)
	svc.Add(ctx, "bob", "c", clock.Add(time.Hour), nil)

	scopes := svc.indexedScopes(ctx)
	assert.ElementsMatch(t, []string{"alice", "bob"}, scopes)
}
