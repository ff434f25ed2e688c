package cart

import (
	"context"
	"encoding/json"
	"math"

	"github.com/rs/zerolog"

	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/otel"
	"github.com/petalmart/storefront/internal/store"
)

// CartService owns the per-identity cart: an ordered sequence of line
// items, unique by product id, persisted in full after every mutation.
// Invalid input is a silent no-op, never an error.
type CartService struct {
	kv store.Store
}

func NewCartService(kv store.Store) *CartService {
	return &CartService{kv: kv}
}

func (s *CartService) Items(c context.Context, scope string) []LineItem {
	c, span := otel.Tracer.Start(c, "CartService Items")
	defer span.End()
	return s.load(c, scope)
}

func (s *CartService) AddToCart(
	c context.Context,
	scope string,
	product Product,
	raw json.RawMessage,
	quantity int,
) {
	c, span := otel.Tracer.Start(c, "CartService AddToCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddToCart").
		Str(log.KeyScope, scope).
		Str(log.KeyProductID, product.ID).
		Logger()

	if quantity < 1 {
		quantity = 1
	}

	item, ok := normalize(product, raw, quantity)
	if !ok {
		logger.Warn().Msg("product has no id, ignoring add")
		return
	}

	items := s.load(c, scope)
	merged := false
	for i, existing := range items {
		if existing.ID != item.ID {
			continue
		}
		items[i].Quantity += quantity
		merged = true
		break
	}
	if !merged {
		items = append(items, item)
	}

	s.persist(c, scope, items)
	logger.Info().
		Int(log.KeyQuantity, quantity).
		Bool("merged", merged).
		Msg("added product to cart")
}

func (s *CartService) RemoveFromCart(c context.Context, scope string, productID string) {
	c, span := otel.Tracer.Start(c, "CartService RemoveFromCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveFromCart").
		Str(log.KeyScope, scope).
		Str(log.KeyProductID, productID).
		Logger()

	items := s.load(c, scope)
	kept := items[:0]
	removed := false
	for _, item := range items {
		if item.ID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return
	}

	s.persist(c, scope, kept)
	logger.Info().Msg("removed product from cart")
}

// UpdateQuantity takes the raw numeric quantity so the non-finite guard
// lives in exactly one place. Non-finite values are ignored; zero or
// negative removes the item.
func (s *CartService) UpdateQuantity(
	c context.Context,
	scope string,
	productID string,
	quantity float64,
) {
	c, span := otel.Tracer.Start(c, "CartService UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateQuantity").
		Str(log.KeyScope, scope).
		Str(log.KeyProductID, productID).
		Float64(log.KeyQuantity, quantity).
		Logger()

	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		logger.Warn().Msg("quantity is not finite, ignoring update")
		return
	}
	if quantity <= 0 {
		s.RemoveFromCart(c, scope, productID)
		return
	}

	items := s.load(c, scope)
	for i, item := range items {
		if item.ID != productID {
			continue
		}
		items[i].Quantity = int(math.Trunc(quantity))
		s.persist(c, scope, items)
		logger.Info().Msg("updated cart item quantity")
		return
	}
}

func (s *CartService) ClearCart(c context.Context, scope string) {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Str(log.KeyScope, scope).
		Logger()

	s.persist(c, scope, []LineItem{})
	logger.Info().Msg("cleared cart")
}

func (s *CartService) load(c context.Context, scope string) []LineItem {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService load").
		Str(log.KeyStorageKey, store.CartKey(scope)).
		Logger()

	value, ok := s.kv.Get(c, store.CartKey(scope))
	if !ok {
		return []LineItem{}
	}

	items := []LineItem{}
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		logger.Warn().Err(err).Msg("stored cart is corrupt, treating as empty")
		return []LineItem{}
	}
	return items
}

func (s *CartService) persist(c context.Context, scope string, items []LineItem) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService persist").
		Str(log.KeyStorageKey, store.CartKey(scope)).
		Logger()

	value, err := json.Marshal(items)
	if err != nil {
		logger.Warn().Err(err).Msg("failed marshaling cart, dropping write")
		return
	}
	s.kv.Set(c, store.CartKey(scope), string(value))
}
