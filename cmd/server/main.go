package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/mmconsole/internal/adapter/corebanking"
	httpAdapter "github.com/iho/mmconsole/internal/adapter/http"
	"github.com/iho/mmconsole/internal/adapter/http/handler"
	"github.com/iho/mmconsole/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/mmconsole/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/mmconsole/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/mmconsole/internal/adapter/repository/redis"
	"github.com/iho/mmconsole/internal/infrastructure/config"
	"github.com/iho/mmconsole/internal/infrastructure/logger"
	"github.com/iho/mmconsole/internal/infrastructure/metrics"
	"github.com/iho/mmconsole/internal/infrastructure/postgres"
	"github.com/iho/mmconsole/internal/infrastructure/redis"
	"github.com/iho/mmconsole/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "mmconsole",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	a, err := build(ctx, cfg, logger, metrics.New())
	if err != nil {
		return err
	}
	defer a.close()

	if a.limiter != nil {
		go sweepLimiter(ctx, a.limiter, cfg.RateLimitIdle, logger)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("port", cfg.HTTPPort).
			Str("account_backend", cfg.AccountBackend).
			Str("draft_store", cfg.DraftStore).
			Str("local_currency", cfg.LocalCurrency).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// app is the wired HTTP surface plus the resources behind it.
type app struct {
	handler http.Handler
	limiter *middleware.RateLimiter
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// backend is the set of core banking ports the use cases run against.
type backend struct {
	accounts usecase.AccountDirectory
	rates    usecase.ExchangeRateService
	gateway  usecase.TransactionGateway
}

func build(ctx context.Context, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*app, error) {
	a := &app{}
	var checks []handler.HealthCheck

	idGen := postgresRepo.NewULIDGenerator()

	var be backend
	switch cfg.AccountBackend {
	case config.BackendPostgres:
		if cfg.MigrationsPath != "" {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return nil, err
			}
		}

		dbCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
		pool, err := postgres.NewPool(dbCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		cancel()
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		logger.Info().Msg("connected to postgres")

		be = backend{
			accounts: postgresRepo.NewAccountDirectory(pool),
			rates:    postgresRepo.NewRateRepository(pool),
			gateway:  postgresRepo.NewTransactionRepository(postgresRepo.NewTxManager(pool), postgresRepo.NewRetrier(), idGen),
		}
		checks = append(checks, handler.HealthCheck{Name: "postgres", Check: pool.Ping})

	case config.BackendHTTP:
		client := corebanking.NewClient(corebanking.Config{
			BaseURL:        cfg.CoreBankingURL,
			RequestTimeout: cfg.CoreBankingTimeout,
			MaxRetries:     cfg.CoreBankingMaxRetries,
			RetryInterval:  cfg.CoreBankingRetryInterval,
		})
		be = backend{
			accounts: corebanking.NewAccountDirectory(client),
			rates:    corebanking.NewRateService(client),
			gateway:  corebanking.NewTransactionGateway(client),
		}
		logger.Info().Str("url", cfg.CoreBankingURL).Msg("using core banking service")

	default:
		return nil, fmt.Errorf("unknown account backend %q", cfg.AccountBackend)
	}

	var (
		store       usecase.DraftStore
		cache       usecase.Cache
		idempotency usecase.IdempotencyStore
	)
	switch cfg.DraftStore {
	case config.DraftStoreRedis:
		client, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, ConnectRetries: 3, RetryInterval: 200 * time.Millisecond})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { client.Close() })
		logger.Info().Msg("connected to redis")

		store = redisRepo.NewDraftStore(client, cfg.DraftTTL)
		cache = redisRepo.NewCache(client)
		idempotency = redisRepo.NewIdempotencyStore(client)
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: redis.HealthCheck(client)})

	case config.DraftStoreMemory:
		store = memoryRepo.NewDraftStore(cfg.DraftTTL)

	default:
		a.close()
		return nil, fmt.Errorf("unknown draft store %q", cfg.DraftStore)
	}

	// Initialize use cases
	accounts := usecase.NewAccountResolver(be.accounts, m)
	rates := usecase.NewRateResolver(be.rates, cache, cfg.RateCacheTTL, m)
	drafts := usecase.NewDraftUseCase(store, accounts, rates, be.gateway, idGen, cfg.LocalCurrency, m)

	if cfg.RateLimitRPS > 0 {
		a.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accounts),
		RateHandler:      handler.NewRateHandler(rates),
		DraftHandler:     handler.NewDraftHandler(drafts),
		HealthHandler:    handler.NewHealthHandler(checks...),
		IdempotencyStore: idempotency,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      a.limiter,
		Logger:           logger,
	})

	return a, nil
}

func sweepLimiter(ctx context.Context, limiter *middleware.RateLimiter, idle time.Duration, logger zerolog.Logger) {
	if idle <= 0 {
		idle = 10 * time.Minute
	}

	ticker := time.NewTicker(idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Sweep(idle); n > 0 {
				logger.Debug().Int("clients", n).Msg("swept idle rate limiter clients")
			}
		}
	}
}

