package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/contaledger/contaledger/internal/adapter/http"
	"github.com/contaledger/contaledger/internal/adapter/http/handler"
	postgresRepo "github.com/contaledger/contaledger/internal/adapter/repository/postgres"
	redisRepo "github.com/contaledger/contaledger/internal/adapter/repository/redis"
	"github.com/contaledger/contaledger/internal/infrastructure/config"
	"github.com/contaledger/contaledger/internal/infrastructure/logger"
	"github.com/contaledger/contaledger/internal/infrastructure/metrics"
	"github.com/contaledger/contaledger/internal/infrastructure/postgres"
	"github.com/contaledger/contaledger/internal/infrastructure/redis"
	"github.com/contaledger/contaledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	switch {
	case errors.Is(err, redis.ErrDisabled):
		appLogger.Info().Msg("redis not configured, open-period cache disabled")
	case err != nil:
		return fmt.Errorf("connect to redis: %w", err)
	default:
		defer redisClient.Close()
		appLogger.Info().Msg("connected to redis")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool).WithLockTimeout(cfg.DatabaseLockTimeout)
	periodRepo := postgresRepo.NewPeriodRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger).WithMaxRetries(cfg.RetryMaxAttempts)

	openPeriods := usecase.NewOpenPeriodsCache(cacheStore(redisClient), cfg.OpenPeriodsCacheTTL)

	// Initialize use cases
	periodUC := usecase.NewPeriodUseCase(txManager, periodRepo, auditRepo, idGen).
		WithRetrier(retrier).
		WithCache(openPeriods).
		WithObserver(appMetrics).
		WithLogger(appLogger)
	closingUC := usecase.NewClosingUseCase(txManager, periodRepo, accountRepo, balanceRepo, movementRepo, auditRepo).
		WithRetrier(retrier).
		WithCache(openPeriods).
		WithObserver(appMetrics).
		WithLogger(appLogger)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, auditRepo, idGen).
		WithRetrier(retrier).
		WithLogger(appLogger)
	ledgerUC := usecase.NewLedgerUseCase(periodRepo, balanceRepo, ledgerRepo).WithLogger(appLogger)
	auditUC := usecase.NewAuditUseCase(auditRepo).WithLogger(appLogger)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PeriodHandler:  handler.NewPeriodHandler(periodUC),
		ClosingHandler: handler.NewClosingHandler(closingUC),
		AccountHandler: handler.NewAccountHandler(accountUC),
		LedgerHandler:  handler.NewLedgerHandler(ledgerUC),
		AuditHandler:   handler.NewAuditHandler(auditUC),
		HealthHandler:  handler.NewHealthHandler(pool, cachePinger(redisClient)),
		Logger:         appLogger,
		Metrics:        appMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})

	return serve(ctx, newHTTPServer(cfg, router), cfg, appLogger)
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// serve runs server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, cfg *config.Config, appLogger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info().Msg("server stopped")
	return nil
}

// cacheStore returns nil when Redis is disabled so the use cases skip caching.
func cacheStore(client *goredis.Client) usecase.Cache {
	if client == nil {
		return nil
	}
	return redisRepo.NewCache(client)
}

func cachePinger(client *goredis.Client) handler.Pinger {
	if client == nil {
		return nil
	}
	return handler.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
