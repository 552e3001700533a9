package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/shop-backend/internal/config"
	"github.com/iliyamo/shop-backend/internal/database"
	"github.com/iliyamo/shop-backend/internal/handler"
	"github.com/iliyamo/shop-backend/internal/logger"
	"github.com/iliyamo/shop-backend/internal/middleware"
	"github.com/iliyamo/shop-backend/internal/queue"
	"github.com/iliyamo/shop-backend/internal/repository"
	"github.com/iliyamo/shop-backend/internal/router"
	"github.com/iliyamo/shop-backend/internal/service"
	"github.com/iliyamo/shop-backend/internal/storage"
	"github.com/iliyamo/shop-backend/internal/utils"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; the real environment wins

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "json", os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	if cfg.JWTSecretIsDefault {
		log.Warn().Msg("JWT_SECRET is not set; using the built-in development secret. Set JWT_SECRET before deploying.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, storeCheck, closeStore, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	checks := []handler.HealthCheck{storeCheck}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unavailable; caching and rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
		checks = append(checks, handler.HealthCheck{Name: "redis", Ping: pingRedis(rdb)})
	}

	files, err := storage.NewLocal(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, utils.WithIDValidator(stores.Users.ValidID))
	cache := middleware.NewResponseCache(cfg.Cache, rdb, log)

	var events handler.OrderEventPublisher
	if cfg.RabbitURL != "" {
		events = service.NewQueuePublisher(cfg.RabbitURL, log)
		if cfg.OrderConsumerEnabled {
			go func() {
				if err := queue.StartOrderConsumer(ctx, cfg.RabbitURL, cfg.OrderLogDir, log); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("order consumer stopped")
				}
			}()
		}
	} else {
		log.Info().Msg("RABBITMQ_URL not set; order events disabled")
	}

	e := router.New(router.Deps{
		Auth:           handler.NewAuthHandler(stores.Users, tokens, cfg.BcryptCost, log),
		Products:       handler.NewProductHandler(stores.Products, files, cache, log),
		Orders:         handler.NewOrderHandler(stores.Orders, events, log),
		Verifier:       tokens,
		Limiter:        middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
		Cache:          cache,
		Health:         checks,
		UploadDir:      files.Dir(),
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Log:            log,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStores connects the configured backend and prepares its schema.
func openStores(ctx context.Context, cfg config.Config, log zerolog.Logger) (repository.Stores, handler.HealthCheck, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return repository.Stores{}, handler.HealthCheck{}, nil, err
		}
		if err := database.MigrateMySQL(ctx, db); err != nil {
			_ = db.Close()
			return repository.Stores{}, handler.HealthCheck{}, nil, err
		}
		log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("connected to mysql")
		check := handler.HealthCheck{Name: "mysql", Ping: db.PingContext}
		return repository.NewMySQLStores(db), check, func() { _ = db.Close() }, nil

	default:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return repository.Stores{}, handler.HealthCheck{}, nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return repository.Stores{}, handler.HealthCheck{}, nil, err
		}
		log.Info().Str("db", cfg.MongoDB).Msg("connected to mongodb")
		check := handler.HealthCheck{Name: "mongodb", Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) }}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		return repository.NewMongoStores(db), check, closeFn, nil
	}
}

func pingRedis(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}
