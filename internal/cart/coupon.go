package cart

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/otel"
	"github.com/petalmart/storefront/internal/store"
)

// The coupon code is a single global value, deliberately not scoped to an
// identity.

func (s *CartService) ApplyCoupon(c context.Context, code string) {
	c, span := otel.Tracer.Start(c, "CartService ApplyCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ApplyCoupon").
		Str(log.KeyCouponCode, code).
		Logger()

	if code == "" {
		return
	}
	s.kv.Set(c, store.CouponKey, code)
	logger.Info().Msg("applied coupon code")
}

func (s *CartService) CouponCode(c context.Context) (string, bool) {
	c, span := otel.Tracer.Start(c, "CartService CouponCode")
	defer span.End()
	return s.kv.Get(c, store.CouponKey)
}

func (s *CartService) ClearCoupon(c context.Context) {
	c, span := otel.Tracer.Start(c, "CartService ClearCoupon")
	defer span.End()
	s.kv.Remove(c, store.CouponKey)
}
