// Package main is the entry point for the ad-query-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ad-query-service/internal/app/browse"
	"ad-query-service/internal/config"
	"ad-query-service/internal/domain"
	"ad-query-service/internal/infra/directory"
	"ad-query-service/internal/infra/listing"
	rediscache "ad-query-service/internal/infra/redis"
	"ad-query-service/internal/job"
	"ad-query-service/internal/logger"
	"ad-query-service/internal/transport/httpserver"
	"ad-query-service/internal/validator"
	"ad-query-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting ad-query-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Ping Redis to verify connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	// Create collaborator clients
	listingClient := listing.New(cfg.Listing.ClientConfig(), log.Logger)
	directoryClient := directory.New(cfg.Directory.ClientConfig(), log.Logger)

	// Wrap the directory in a read-through cache (optional, based on config)
	var (
		dir    domain.CategoryDirectory = directoryClient
		cached *directory.Cached
	)
	if cfg.Cache.Enabled {
		cache := rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		cached = directory.NewCached(directoryClient, cache, cfg.Cache.DirectoryTTL, log.Logger)
		dir = cached
		log.Info("directory cache enabled",
			zap.Duration("directory_ttl", cfg.Cache.DirectoryTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("directory cache disabled")
	}

	// Create the query engine and session store
	engine := browse.NewEngine(listingClient, log.Logger)
	store := browse.NewSessionStore(
		engine,
		browse.StoreConfig{
			DebounceWindow: cfg.Search.DebounceWindow,
			SiblingCount:   cfg.Search.SiblingCount,
			IdleTTL:        cfg.Session.IdleTTL,
			SweepInterval:  cfg.Session.SweepInterval,
		},
		log.Logger,
	)
	defer store.Close()

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:         cfg.App.Port,
			BodyLimit:    cfg.App.BodyLimit,
			SiblingCount: cfg.Search.SiblingCount,
		},
		engine,
		store,
		dir,
		redisClient,
		v,
		log.Logger,
	)

	// Start the cache warm scheduler with distributed locking. Only one
	// instance behind a shared Redis warms at a time.
	var scheduler *job.WarmScheduler
	if cached != nil {
		distLocker := locker.NewRedisLocker(redisClient, log.Logger)
		scheduler = job.NewWarmScheduler(
			cached,
			job.WarmConfig{
				Interval:  cfg.Warm.Interval,
				Timeout:   cfg.Warm.Timeout,
				OnStartup: cfg.Warm.OnStartup,
			},
			log.Logger,
			distLocker,
		)
		scheduler.Start(cfg.Warm.OnStartup)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		// Stop scheduler
		if scheduler != nil {
			scheduler.Stop()
		}

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
