package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/petalmart/storefront/internal/earnings"
	inHttp "github.com/petalmart/storefront/internal/http"
	"github.com/petalmart/storefront/internal/identity"
	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/otel"
)

type EarningsController struct {
	aggregator *earnings.Aggregator
}

func AttachEarningsController(router *mux.Router, aggregator *earnings.Aggregator) {
	controller := EarningsController{aggregator: aggregator}

	sub := router.PathPrefix("/earnings").Subrouter()
	sub.HandleFunc("", controller.Earnings).Methods(http.MethodGet)
}

func (t EarningsController) Earnings(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "EarningsController Earnings")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "EarningsController Earnings").
		Logger()

	userID := identity.FromContext(c)
	logger = logger.With().Str(log.KeyUserID, userID).Logger()
	c = logger.WithContext(c)
	report := t.aggregator.Earnings(c, userID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "earnings computed",
		"data": map[string]interface{}{
			"earnings": report,
		},
	})
}
