package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/petalmart/storefront/internal/cart"
	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/otel"
	"github.com/petalmart/storefront/internal/store"
)

// Item is the order-time snapshot of a cart line item. Once an order is
// created its items and total never change.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Seller   string          `json:"seller,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"imageUrl"`
}

type Order struct {
	ID        string          `json:"id"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Ledger synthesizes and stores orders per identity scope when the remote
// order service is unavailable. Reads of corrupt stored JSON degrade to an
// empty collection so the ledger always recovers.
type Ledger struct {
	kv  store.Store
	now func() time.Time
}

func NewLedger(kv store.Store) *Ledger {
	return &Ledger{kv: kv, now: time.Now}
}

// Create snapshots the given cart items into a new CREATED order and
// appends it to the scope's collection. The cart itself is left to the
// caller.
func (l *Ledger) Create(c context.Context, scope string, items []cart.LineItem) Order {
	c, span := otel.Tracer.Start(c, "Ledger Create")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Ledger Create").
		Str(log.KeyScope, scope).
		Logger()

	snapshot := make([]Item, len(items))
	total := decimal.Zero
	for i, item := range items {
		snapshot[i] = Item{
			ID:       item.ID,
			Name:     item.Name,
			Seller:   item.SellerName,
			Price:    item.UnitPrice,
			Quantity: item.Quantity,
			ImageURL: item.ImageURL,
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	now := l.now()
	order := Order{
		ID:        uuid.NewString(),
		Items:     snapshot,
		Total:     total,
		Status:    StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	orders := append(l.Orders(c, scope), order)
	l.persist(c, scope, orders)

	logger.Info().
		Str(log.KeyOrderID, order.ID).
		Str(log.KeyOrderStatus, order.Status.String()).
		Msg("created local order")
	return order
}

// Orders returns the scope's order collection, oldest first.
func (l *Ledger) Orders(c context.Context, scope string) []Order {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Ledger Orders").
		Str(log.KeyStorageKey, store.OrdersKey(scope)).
		Logger()

	value, ok := l.kv.Get(c, store.OrdersKey(scope))
	if !ok {
		return []Order{}
	}

	orders := []Order{}
	if err := json.Unmarshal([]byte(value), &orders); err != nil {
		logger.Warn().Err(err).Msg("stored orders are corrupt, treating as empty")
		return []Order{}
	}
	return orders
}

// Order returns the order with the given id, or false when absent.
func (l *Ledger) Order(c context.Context, scope string, orderID string) (Order, bool) {
	for _, order := range l.Orders(c, scope) {
		if order.ID == orderID {
			return order, true
		}
	}
	return Order{}, false
}

// Advance moves the order one step along the progression. At DELIVERED or
// on a terminal branch it returns the order unchanged, updatedAt
// untouched. Returns nil when the order does not exist.
func (l *Ledger) Advance(c context.Context, scope string, orderID string) *Order {
	c, span := otel.Tracer.Start(c, "Ledger Advance")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Ledger Advance").
		Str(log.KeyScope, scope).
		Str(log.KeyOrderID, orderID).
		Logger()

	orders := l.Orders(c, scope)
	for i, order := range orders {
		if order.ID != orderID {
			continue
		}

		next, ok := order.Status.Next()
		if !ok {
			logger.Info().
				Str(log.KeyOrderStatus, order.Status.String()).
				Msg("order status cannot advance further")
			return &orders[i]
		}

		orders[i].Status = next
		orders[i].UpdatedAt = l.now()
		l.persist(c, scope, orders)

		logger.Info().
			Str(log.KeyOrderStatus, next.String()).
			Msg("advanced order status")
		return &orders[i]
	}

	logger.Warn().Msg("order not found, nothing to advance")
	return nil
}

// SetStatus force-sets any enumerated status. This is the admin override:
// it is not guarded by the progression and may resurrect a terminal order.
func (l *Ledger) SetStatus(c context.Context, scope string, orderID string, status Status) *Order {
	c, span := otel.Tracer.Start(c, "Ledger SetStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Ledger SetStatus").
		Str(log.KeyScope, scope).
		Str(log.KeyOrderID, orderID).
		Str(log.KeyOrderStatus, status.String()).
		Logger()

	orders := l.Orders(c, scope)
	for i, order := range orders {
		if order.ID != orderID {
			continue
		}
		orders[i].Status = status
		orders[i].UpdatedAt = l.now()
		l.persist(c, scope, orders)
		logger.Info().Msg("set order status")
		return &orders[i]
	}

	logger.Warn().Msg("order not found, nothing to update")
	return nil
}

func (l *Ledger) persist(c context.Context, scope string, orders []Order) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Ledger persist").
		Str(log.KeyStorageKey, store.OrdersKey(scope)).
		Logger()

	value, err := json.Marshal(orders)
	if err != nil {
		logger.Warn().Err(err).Msg("failed marshaling orders, dropping write")
		return
	}
	l.kv.Set(c, store.OrdersKey(scope), string(value))
}
