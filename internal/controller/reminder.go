package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/petalmart/storefront/internal/errors"
	inHttp "github.com/petalmart/storefront/internal/http"
	"github.com/petalmart/storefront/internal/identity"
	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/otel"
	"github.com/petalmart/storefront/internal/reminder"
	"github.com/petalmart/storefront/internal/request"
)

type ReminderController struct {
	service *reminder.ReminderService
}

func AttachReminderController(router *mux.Router, service *reminder.ReminderService) {
	controller := ReminderController{service: service}

	sub := router.PathPrefix("/reminders").Subrouter()
	sub.HandleFunc("", controller.CreateReminder).Methods(http.MethodPost)
	sub.HandleFunc("", controller.Reminders).Methods(http.MethodGet)
	sub.HandleFunc("/{reminderId}", controller.RemoveReminder).Methods(http.MethodDelete)
}

func (t ReminderController) CreateReminder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReminderController CreateReminder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReminderController CreateReminder").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	reqBody := request.CreateReminder{}
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

	scope := identity.ScopeFromContext(c)
	logger = logger.With().
		Str(log.KeyProcess, "adding reminder").
		Str(log.KeyScope, scope).
		Logger()
	c = logger.WithContext(c)
	created := t.service.Add(c, scope, reqBody.Title, reqBody.Datetime, reqBody.Channels)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "created reminder",
		"data": map[string]interface{}{
			"reminder": created,
		},
	})
}

func (t ReminderController) Reminders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReminderController Reminders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReminderController Reminders").
		Logger()

	scope := identity.ScopeFromContext(c)
	logger = logger.With().Str(log.KeyScope, scope).Logger()
	c = logger.WithContext(c)
	reminders := t.service.Reminders(c, scope)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "reminders found",
		"data": map[string]interface{}{
			"reminders": reminders,
		},
	})
}

func (t ReminderController) RemoveReminder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ReminderController RemoveReminder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReminderController RemoveReminder").
		Logger()

	reminderID := mux.Vars(r)["reminderId"]
	scope := identity.ScopeFromContext(c)
	logger = logger.With().
		Str(log.KeyReminderID, reminderID).
		Str(log.KeyScope, scope).
		Logger()
	c = logger.WithContext(c)
	t.service.Remove(c, scope, reminderID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "removed reminder",
	})
}
