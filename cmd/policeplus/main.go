package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/notkisk/policeplus-api/internal/accounts"
	"github.com/notkisk/policeplus-api/internal/app"
	"github.com/notkisk/policeplus-api/internal/authz"
	"github.com/notkisk/policeplus-api/internal/insurance"
	"github.com/notkisk/policeplus-api/internal/observability"
	"github.com/notkisk/policeplus-api/internal/platform/cache"
	"github.com/notkisk/policeplus-api/internal/platform/db"
	"github.com/notkisk/policeplus-api/internal/platform/db/migrations"
	"github.com/notkisk/policeplus-api/internal/shared"
	"github.com/notkisk/policeplus-api/internal/token"
	"github.com/notkisk/policeplus-api/internal/vehicles"
	"github.com/notkisk/policeplus-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.LogFormat)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.PGAutoMigrate {
		if err := db.Migrate(ctx, dbpool, migrations.FS, migrations.CoreDir); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Redis only backs ticket idempotency and the audit queue; the API stays up without it.
		logger.Warn("redis unavailable", slog.Any("error", err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()
	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	gate := authz.Gate{Tokens: tokens, Logger: logger, EnforceRoles: cfg.EnforceOfficerRole}

	accountsRepo := accounts.NewRepository(dbpool)
	accountsService := accounts.NewService(accountsRepo, tokens)
	accountsHandler := accounts.NewHandler(logger, accountsService, cfg.LoginRateLimit)

	insuranceClient := insurance.NewClient(insurance.ClientConfig{
		BaseURL:  cfg.InsuranceBaseURL,
		Timeout:  cfg.InsuranceTimeout,
		Retries:  cfg.InsuranceRetries,
		Backoff:  cfg.InsuranceRetryBackoff,
		Observer: metrics,
	})

	vehicleCfg := vehicles.ServiceConfig{
		Repo:      vehicles.NewRepository(dbpool),
		Insurance: insuranceClient,
		Logger:    logger,
	}
	var jobHandler *jobs.Handler
	if redisClient != nil {
		vehicleCfg.Idempotency = shared.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)

		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		jobClient := jobs.NewClient(redisOpts)
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		vehicleCfg.Audit = jobClient

		inspector := asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}
	vehiclesHandler := vehicles.NewHandler(logger, vehicles.NewService(vehicleCfg), gate)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AccountsHandler: accountsHandler,
		VehiclesHandler: vehiclesHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.Bool("enforce_officer_role", cfg.EnforceOfficerRole))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
