package remote

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/petalmart/storefront/internal/identity"
	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/order"
	"github.com/petalmart/storefront/internal/otel"
)

// Source serves orders from the remote API when it responds and from the
// local ledger otherwise. Remote unavailability is the designed trigger
// for the fallback, so it never escapes as an error.
type Source struct {
	client *Client
	ledger *order.Ledger
}

func NewSource(client *Client, ledger *order.Ledger) *Source {
	return &Source{client: client, ledger: ledger}
}

func (s *Source) OrdersFor(c context.Context, userID string) []order.Order {
	c, span := otel.Tracer.Start(c, "Source OrdersFor")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Source OrdersFor").
		Str(log.KeyUserID, userID).
		Logger()

	if s.client != nil {
		orders, err := s.client.FetchMyOrders(c, userID)
		if err == nil {
			return orders
		}
		logger.Warn().Err(err).Msg("remote order api unavailable, using local ledger")
	}

	return s.ledger.Orders(c, identity.Scope(userID))
}

func (s *Source) OrderFor(c context.Context, userID string, orderID string) (order.Order, bool) {
	c, span := otel.Tracer.Start(c, "Source OrderFor")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Source OrderFor").
		Str(log.KeyUserID, userID).
		Str(log.KeyOrderID, orderID).
		Logger()

	if s.client != nil {
		fetched, err := s.client.FetchOrder(c, orderID)
		if err == nil {
			return fetched, true
		}
		logger.Warn().Err(err).Msg("remote order api unavailable, using local ledger")
	}

	return s.ledger.Order(c, identity.Scope(userID), orderID)
}
