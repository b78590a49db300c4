// Command server runs the cat catalog API.
//
// @title        Cat Catalog API
// @version      1.0
// @description  Proxy for The Cat API breed catalog plus user registration and login.
// @host         localhost:3000
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/michi-labs/catapi/internal/api"
	"github.com/michi-labs/catapi/internal/api/handler"
	"github.com/michi-labs/catapi/internal/core/service"
	"github.com/michi-labs/catapi/internal/infrastructure/catalog"
	"github.com/michi-labs/catapi/internal/infrastructure/db/mongo"
	"github.com/michi-labs/catapi/internal/infrastructure/db/redis"
	"github.com/michi-labs/catapi/internal/infrastructure/queue"
	"github.com/michi-labs/catapi/internal/infrastructure/security"
	"github.com/michi-labs/catapi/internal/pkg/config"
	"github.com/michi-labs/catapi/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catapi",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		Timeout:     cfg.Mongo.Timeout,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	userRepo := mongo.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	auditRepo := mongo.NewAuditRepository(db)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to create audit indexes")
	}

	// --- Redis (optional) ---
	var (
		rdb    *goredis.Client
		pinger handler.Pinger
	)
	if cfg.Redis.Enabled() {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, registration idempotency disabled")
			pinger = handler.UnavailablePinger{Err: err}
		} else {
			pinger = handler.RedisPinger{Client: rdb}
		}
	}

	// --- Audit workers ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
	dispatcher.Start(workerCtx)

	// --- Services ---
	opts := []service.UserServiceOption{service.WithAuditPublisher(dispatcher)}
	if rdb != nil {
		opts = append(opts, service.WithIdempotencyStore(redis.NewIdempotencyStore(rdb, 0)))
	}
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	userService := service.NewUserService(userRepo, hasher, logger.Component("users"), opts...)

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: cfg.CatAPI.BaseURL,
		APIKey:  cfg.CatAPI.APIKey,
		Timeout: cfg.CatAPI.Timeout,
	}, nil, logger.Component("catalog"))
	if cfg.CatAPI.APIKey == "" {
		log.Warn().Msg("CAT_API_KEY is empty, upstream requests are unauthenticated")
	}

	e := api.NewRouter(api.Dependencies{
		Users:   userService,
		Catalog: catalogClient,
		Mongo:   handler.MongoPinger{DB: db},
		Redis:   pinger,
		Log:     logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	dispatcher.Wait()

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}

	log.Info().Msg("server stopped")
}
