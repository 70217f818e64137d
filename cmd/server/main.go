package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/finboard/variance/internal/adapter/http"
	"github.com/finboard/variance/internal/adapter/http/handler"
	memoryRepo "github.com/finboard/variance/internal/adapter/repository/memory"
	postgresRepo "github.com/finboard/variance/internal/adapter/repository/postgres"
	redisRepo "github.com/finboard/variance/internal/adapter/repository/redis"
	"github.com/finboard/variance/internal/domain"
	"github.com/finboard/variance/internal/infrastructure/config"
	"github.com/finboard/variance/internal/infrastructure/logger"
	"github.com/finboard/variance/internal/infrastructure/metrics"
	"github.com/finboard/variance/internal/infrastructure/postgres"
	infraredis "github.com/finboard/variance/internal/infrastructure/redis"
	"github.com/finboard/variance/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

const migrationsPath = "migrations"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	appMetrics := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL when history is enabled
	var pool *pgxpool.Pool
	var history usecase.HistoryRepository
	if cfg.HistoryEnabled() {
		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath, appLogger); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		history = postgresRepo.NewHistoryRepository(pool, appMetrics)
		log.Info().Msg("connected to postgres, variance history enabled")
	} else {
		log.Info().Msg("no database configured, variance history disabled")
	}

	// Build the result cache
	var cache usecase.ResultCache
	var redisClient *goredis.Client
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		redisClient, err = infraredis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()

		cache = redisRepo.NewResultCache(redisClient, appLogger)
		log.Info().Msg("using redis result cache")
	default:
		memCache := memoryRepo.NewResultCache()
		memCache.StartSweeper(ctx, cfg.CacheSweep)
		cache = memCache
		log.Info().Msg("using in-memory result cache")
	}

	thresholds := domain.Thresholds{
		Critical:  cfg.CriticalThreshold,
		Warning:   cfg.WarningThreshold,
		Favorable: cfg.FavorableThreshold,
	}

	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	analysisUC, err := usecase.NewAnalysisUseCase(thresholds, cache, history, idGen, cfg.CacheTTL, appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid severity thresholds")
	}
	trendUC := usecase.NewTrendUseCase(history)

	// Initialize handlers
	analysisHandler := handler.NewAnalysisHandler(analysisUC, appMetrics)
	cacheHandler := handler.NewCacheHandler(analysisUC, appMetrics)
	trendHandler := handler.NewTrendHandler(trendUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AnalysisHandler: analysisHandler,
		CacheHandler:    cacheHandler,
		TrendHandler:    trendHandler,
		HealthHandler:   healthHandler,
		Logger:          appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
