package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	inErrors "github.com/petalmart/storefront/internal/errors"
	inHttp "github.com/petalmart/storefront/internal/http"
	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/order"
	"github.com/petalmart/storefront/internal/otel"
)

// Client talks to the remote order API. Its failures are expected and are
// handled by the fallback source, never surfaced past it.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

func (r *Client) FetchMyOrders(c context.Context, userID string) ([]order.Order, error) {
	c, span := otel.Tracer.Start(c, "Client FetchMyOrders")
	defer span.End()

	url := fmt.Sprintf("%s/users/%s/orders", r.baseURL, userID)
	orders := []order.Order{}
	if err := r.getJSON(c, url, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Client) FetchOrder(c context.Context, orderID string) (order.Order, error) {
	c, span := otel.Tracer.Start(c, "Client FetchOrder")
	defer span.End()

	url := fmt.Sprintf("%s/orders/%s", r.baseURL, orderID)
	fetched := order.Order{}
	if err := r.getJSON(c, url, &fetched); err != nil {
		return order.Order{}, err
	}
	return fetched, nil
}

func (r *Client) getJSON(c context.Context, url string, out interface{}) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Client getJSON").
		Str(log.KeyRequestURL, url).
		Logger()

	req, err := http.NewRequestWithContext(c, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if requestID := log.RequestIDFromContext(c); requestID != "" {
		req.Header.Add(inHttp.HeaderRequestID, requestID)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed requesting remote order api with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf(
			"remote order api returned status code=%d: %w",
			resp.StatusCode,
			inErrors.ErrRemoteOrderAPI,
		)
		logger.Warn().Err(err).Msg(err.Error())
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("failed decoding remote order api response with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return err
	}
	return nil
}
