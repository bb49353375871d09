package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"resumehub/internal/analysis"
	"resumehub/internal/api"
	"resumehub/internal/config"
	"resumehub/internal/database"
	"resumehub/internal/storage"
	"resumehub/internal/store"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var st store.Store
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := database.InitDatabase(cfg.Database)
		if err != nil {
			log.Fatalf("init database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("auto migrate: %v", err)
		}
		st = store.NewGorm(db)
		logger.Info("postgres storage ready",
			slog.String("host", cfg.Database.Host),
			slog.String("db", cfg.Database.Name),
		)
	case config.DriverMemory:
		st = store.NewMemory()
		logger.Info("in-memory storage ready")
	default:
		log.Fatalf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if err := store.EnsureSeedTemplates(context.Background(), st); err != nil {
		log.Fatalf("seed templates: %v", err)
	}
	logger.Info("seed templates ensured")

	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("ping redis: %v", err)
		}
		redisClient = client
		logger.Info("redis ready", slog.String("addr", cfg.Redis.Addr()))
	}

	var storageClient *storage.Client
	if cfg.MinIO.Enabled {
		client, err := storage.NewClient(cfg.MinIO)
		if err != nil {
			log.Fatalf("init minio: %v", err)
		}
		storageClient = client
		logger.Info("object storage ready", slog.String("bucket", cfg.MinIO.Bucket))
	}

	router := api.NewRouter(logger)
	api.RegisterRoutes(
		router,
		st,
		analysis.NewRandomEngine(),
		redisClient,
		logger,
		storageClient,
		cfg.Clamd.Addr,
		cfg.API.LoginRateLimitPerHour,
	)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening", slog.String("address", address))
	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
