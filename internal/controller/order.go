package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/petalmart/storefront/internal/cart"
	inErrors "github.com/petalmart/storefront/internal/errors"
	inHttp "github.com/petalmart/storefront/internal/http"
	"github.com/petalmart/storefront/internal/identity"
	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/order"
	"github.com/petalmart/storefront/internal/otel"
	"github.com/petalmart/storefront/internal/remote"
	"github.com/petalmart/storefront/internal/request"
)

type OrderController struct {
	ledger     *order.Ledger
	progressor *order.Progressor
	source     *remote.Source
	carts      *cart.CartService
}

func AttachOrderController(
	router *mux.Router,
	ledger *order.Ledger,
	progressor *order.Progressor,
	source *remote.Source,
	carts *cart.CartService,
) {
	controller := OrderController{
		ledger:     ledger,
		progressor: progressor,
		source:     source,
		carts:      carts,
	}

	sub := router.PathPrefix("/orders").Subrouter()
	sub.HandleFunc("", controller.Checkout).Methods(http.MethodPost)
	sub.HandleFunc("", controller.Orders).Methods(http.MethodGet)
	sub.HandleFunc("/{orderId}", controller.Order).Methods(http.MethodGet)
	sub.HandleFunc("/{orderId}/advance", controller.Advance).Methods(http.MethodPost)
	sub.HandleFunc("/{orderId}/status", controller.SetStatus).Methods(http.MethodPut)
	sub.HandleFunc("/{orderId}/auto-progress", controller.EnableAutoProgress).
		Methods(http.MethodPost)
	sub.HandleFunc("/{orderId}/auto-progress", controller.DisableAutoProgress).
		Methods(http.MethodDelete)
}

// Checkout snapshots the caller's cart into a local order and clears the
// cart afterwards.
func (t OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController Checkout").
		Logger()

	scope := identity.ScopeFromContext(c)
	logger = logger.With().Str(log.KeyScope, scope).Logger()
	c = logger.WithContext(c)

	items := t.carts.Items(c, scope)
	if len(items) == 0 {
		err := fmt.Errorf("cart for scope=%s is empty", scope)
		inErrors.HandleError(err, span)
		logger.Warn().Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    "cart is empty",
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "creating local order").Logger()
	c = logger.WithContext(c)
	created := t.ledger.Create(c, scope, items)
	t.carts.ClearCart(c, scope)
	logger.Info().Str(log.KeyOrderID, created.ID).Msg("checked out cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "created order",
		"data": map[string]interface{}{
			"order": created,
		},
	})
}

func (t OrderController) Orders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController Orders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController Orders").
		Logger()
	c = logger.WithContext(c)

	orders := t.source.OrdersFor(c, identity.FromContext(c))

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "orders found",
		"data": map[string]interface{}{
			"orders": orders,
		},
	})
}

func (t OrderController) Order(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController Order")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController Order").
		Logger()

	orderID := mux.Vars(r)["orderId"]
	logger = logger.With().Str(log.KeyOrderID, orderID).Logger()
	c = logger.WithContext(c)

	found, ok := t.source.OrderFor(c, identity.FromContext(c), orderID)
	if !ok {
		inErrors.HandleError(inErrors.ErrOrderNotFound, span)
		logger.Warn().Msg(inErrors.ErrOrderNotFound.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusNotFound,
			"message":    inErrors.ErrOrderNotFound.Error(),
		})
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "order found",
		"data": map[string]interface{}{
			"order": found,
		},
	})
}

func (t OrderController) Advance(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController Advance")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController Advance").
		Logger()

	orderID := mux.Vars(r)["orderId"]
	scope := identity.ScopeFromContext(c)
	logger = logger.With().
		Str(log.KeyOrderID, orderID).
		Str(log.KeyScope, scope).
		Logger()
	c = logger.WithContext(c)

	updated := t.ledger.Advance(c, scope, orderID)
	if updated == nil {
		inErrors.HandleError(inErrors.ErrOrderNotFound, span)
		logger.Warn().Msg(inErrors.ErrOrderNotFound.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusNotFound,
			"message":    inErrors.ErrOrderNotFound.Error(),
		})
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "advanced order status",
		"data": map[string]interface{}{
			"order": updated,
		},
	})
}

func (t OrderController) SetStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController SetStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController SetStatus").
		Logger()

	orderID := mux.Vars(r)["orderId"]
	logger = logger.With().Str(log.KeyOrderID, orderID).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	reqBody := request.SetOrderStatus{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}

	status, err := order.ParseStatus(reqBody.Status)
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}

	scope := identity.ScopeFromContext(c)
	logger = logger.With().
		Str(log.KeyProcess, "setting order status").
		Str(log.KeyScope, scope).
		Str(log.KeyOrderStatus, status.String()).
		Logger()
	c = logger.WithContext(c)
	updated := t.ledger.SetStatus(c, scope, orderID, status)
	if updated == nil {
		inErrors.HandleError(inErrors.ErrOrderNotFound, span)
		logger.Warn().Msg(inErrors.ErrOrderNotFound.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusNotFound,
			"message":    inErrors.ErrOrderNotFound.Error(),
		})
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "set order status",
		"data": map[string]interface{}{
			"order": updated,
		},
	})
}

func (t OrderController) EnableAutoProgress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController EnableAutoProgress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController EnableAutoProgress").
		Logger()

	orderID := mux.Vars(r)["orderId"]
	scope := identity.ScopeFromContext(c)
	logger = logger.With().
		Str(log.KeyOrderID, orderID).
		Str(log.KeyScope, scope).
		Logger()
	c = logger.WithContext(c)

	if !t.progressor.Enable(c, scope, orderID) {
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    "order not found or already terminal",
		})
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "enabled auto-progress",
	})
}

func (t OrderController) DisableAutoProgress(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController DisableAutoProgress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController DisableAutoProgress").
		Logger()

	orderID := mux.Vars(r)["orderId"]
	scope := identity.ScopeFromContext(c)
	logger = logger.With().
		Str(log.KeyOrderID, orderID).
		Str(log.KeyScope, scope).
		Logger()
	c = logger.WithContext(c)

	t.progressor.Disable(c, scope, orderID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "disabled auto-progress",
	})
}
