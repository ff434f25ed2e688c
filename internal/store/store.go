package store

import "context"

// Store is the scoped persistent key-value store backing carts, local
// orders and reminders. Implementations never surface failures to the
// caller: a failed read degrades to absent, a failed write to a no-op.
type Store interface {
	Get(c context.Context, key string) (string, bool)
	Set(c context.Context, key string, value string)
	Remove(c context.Context, key string)
}

// Key layout is a contract; other tooling reads these keys directly.
const (
	GuestScope = "guest"

	CouponKey = "couponCode"

	cartKeyPrefix      = "cart:"
	ordersKeyPrefix    = "orders:"
	remindersKeyPrefix = "reminders:"
)

func CartKey(scope string) string {
	return cartKeyPrefix + scope
}

func OrdersKey(scope string) string {
	return ordersKeyPrefix + scope
}

func RemindersKey(scope string) string {
	return remindersKeyPrefix + scope
}
