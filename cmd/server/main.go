package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/openbooks/yearend/internal/adapter/http"
	"github.com/openbooks/yearend/internal/adapter/http/handler"
	"github.com/openbooks/yearend/internal/adapter/http/middleware"
	postgresRepo "github.com/openbooks/yearend/internal/adapter/repository/postgres"
	redisRepo "github.com/openbooks/yearend/internal/adapter/repository/redis"
	"github.com/openbooks/yearend/internal/infrastructure/config"
	"github.com/openbooks/yearend/internal/infrastructure/eventpublisher"
	"github.com/openbooks/yearend/internal/infrastructure/logger"
	"github.com/openbooks/yearend/internal/infrastructure/logging"
	"github.com/openbooks/yearend/internal/infrastructure/metrics"
	"github.com/openbooks/yearend/internal/infrastructure/postgres"
	"github.com/openbooks/yearend/internal/infrastructure/redis"
	"github.com/openbooks/yearend/internal/usecase"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "apply pending migrations before serving")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup loggers
	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MigrateOnStart || *migrateFlag {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, zlog); err != nil {
			zlog.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:     cfg.DatabaseURL,
		MaxConns:        cfg.DatabaseMaxConns,
		MinConns:        cfg.DatabaseMinConns,
		MaxConnLifetime: cfg.DatabaseMaxConnLifetime,
		ConnectTimeout:  cfg.DatabaseTimeout,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	zlog.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	zlog.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	repos := usecase.Repositories{
		FiscalYears: postgresRepo.NewFiscalYearRepository(pool),
		Accounts:    postgresRepo.NewAccountRepository(pool),
		Journal:     journalRepo,
		Ledger:      journalRepo,
		Settings:    postgresRepo.NewSettingsRepository(pool),
		Inventory:   postgresRepo.NewInventoryRepository(),
		Partners:    postgresRepo.NewPartnerRepository(pool),
		Outbox:      outboxRepo,
		Audit:       postgresRepo.NewAuditRepository(pool),
	}
	retrier := postgresRepo.NewRetrierWithConfig(postgresRepo.RetryConfig{
		MaxRetries:      cfg.RetryMaxAttempts,
		InitialInterval: cfg.RetryInitial,
		MaxInterval:     time.Second,
		MaxElapsedTime:  cfg.OperationTimeout,
	}, slogger)
	locker := redisRepo.NewLocker(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	opts := usecase.Options{
		RetainedEarningsPrefix: cfg.RetainedEarningsPrefix,
		LockTTL:                cfg.LockTTL,
		Timeout:                cfg.OperationTimeout,
	}
	yearsUC := usecase.NewFiscalYearUseCase(txManager, repos, locker, retrier, idGen, m, zlog, opts)
	carryUC := usecase.NewCarryForwardUseCase(txManager, repos, locker, retrier, idGen, m, zlog, opts)
	ledgerUC := usecase.NewLedgerUseCase(journalRepo, repos.Accounts)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler().
		WithCheck("postgres", pool.Ping).
		WithCheck("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		FiscalYearHandler: handler.NewFiscalYearHandler(yearsUC, carryUC),
		LedgerHandler:     handler.NewLedgerHandler(ledgerUC),
		HealthHandler:     healthHandler,
		MetricsHandler:    promhttp.Handler(),
		Metrics:           m,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       rateLimiter,
		Logger:            zlog,
	})

	// Background workers
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(slogger),
		Logger:     slogger,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})
	go func() {
		if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zlog.Error().Err(err).Msg("event publisher stopped")
		}
	}()
	go sweepLimiters(ctx, rateLimiter, time.Minute, 10*time.Minute)

	server := newHTTPServer(cfg, router)

	// Start server in goroutine
	go func() {
		zlog.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	zlog.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("server forced to shutdown")
	}

	zlog.Info().Msg("server stopped")
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

// sweepLimiters drops idle per-client limiters until ctx is done.
func sweepLimiters(ctx context.Context, rl *middleware.RateLimiter, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters(idle)
		}
	}
}

