package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/petalmart/storefront/internal/cart"
	"github.com/petalmart/storefront/internal/config"
	"github.com/petalmart/storefront/internal/controller"
	"github.com/petalmart/storefront/internal/earnings"
	inErrors "github.com/petalmart/storefront/internal/errors"
	"github.com/petalmart/storefront/internal/infra"
	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/middleware"
	"github.com/petalmart/storefront/internal/notify"
	"github.com/petalmart/storefront/internal/order"
	"github.com/petalmart/storefront/internal/otel"
	"github.com/petalmart/storefront/internal/reminder"
	"github.com/petalmart/storefront/internal/remote"
	"github.com/petalmart/storefront/internal/store"
)

func RunStorefrontService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunStorefrontService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, "storefront").
		Str(log.KeyTag, "main RunStorefrontService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, "storefront")
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		err = otel.ShutdownOtel(c, otelShutdowns)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "shutting down cache").Logger()
		logger.Info().Msg("shutting down cache")
		err = cache.Close()
		if err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	kv := store.NewRedisStore(cache)
	notifier := notify.NewRedisNotifier(cache)
	cartService := cart.NewCartService(kv)
	ledger := order.NewLedger(kv)
	progressor := order.NewProgressor(
		ledger,
		notifier,
		time.Duration(cfg.Storefront.AutoProgressIntervalSec)*time.Second,
	)
	defer progressor.Shutdown()
	remoteClient := remote.NewClient(
		cfg.Remote.OrderBaseURL,
		time.Duration(cfg.Remote.TimeoutSec)*time.Second,
	)
	source := remote.NewSource(remoteClient, ledger)
	commissionRate, err := decimal.NewFromString(cfg.Storefront.CommissionRate)
	if err != nil {
		err = fmt.Errorf("failed parsing commission rate with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	aggregator := earnings.NewAggregator(source, commissionRate)
	reminderService := reminder.NewReminderService(kv, notifier)
	logger.Info().Msg("initialized services")

	logger = logger.With().Str(log.KeyProcess, "initializing reminder scheduler").Logger()
	logger.Info().Msg("initializing reminder scheduler")
	scheduler := reminder.NewScheduler(
		reminderService,
		time.Duration(cfg.Storefront.ReminderCheckSec)*time.Second,
	)
	go scheduler.Run(c)
	logger.Info().Msg("initialized reminder scheduler")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware("storefront"),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.Auth(cfg.Application.SecretKey),
	)
	controller.AttachCartController(router, cartService)
	controller.AttachOrderController(router, ledger, progressor, source, cartService)
	controller.AttachReminderController(router, reminderService)
	controller.AttachEarningsController(router, aggregator)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger = logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)

		logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())

			c = logger.WithContext(c)
			if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
				err = fmt.Errorf("failed shutting down otel with error=%w", err)
				inErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				return
			}
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")

	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("shutting down http server")
	err = httpServer.Shutdown(context.WithoutCancel(c))
	if err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}
