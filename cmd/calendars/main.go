package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aidin1998/calendars/api"
	"github.com/Aidin1998/calendars/internal/cache"
	"github.com/Aidin1998/calendars/internal/calendars"
	"github.com/Aidin1998/calendars/internal/config"
	"github.com/Aidin1998/calendars/internal/database"
	"github.com/Aidin1998/calendars/internal/events"
	"github.com/Aidin1998/calendars/internal/redis"
	"github.com/Aidin1998/calendars/internal/server"
	"github.com/Aidin1998/calendars/internal/telemetry"
	"github.com/Aidin1998/calendars/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("Calendars service failed", zap.Error(err))
	}
	zapLogger.Info("Server exited properly")
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			zapLogger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	db, err := database.Open(cfg.Database, zapLogger)
	if err != nil {
		return err
	}
	defer database.Close(db)
	go database.CollectPoolStats(ctx, db, cfg.Database.Driver, cfg.Database.StatsInterval)

	repo := calendars.NewRepository(db)
	if cfg.Database.AutoMigrate {
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
	}

	opts := []api.Option{
		api.WithServiceName(cfg.Tracing.ServiceName),
		api.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
		api.WithHealthCheck("database", func(ctx context.Context) error { return database.Ping(ctx, db) }),
	}

	var store cache.Store = cache.NopStore{}
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Warn("Redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			store = cache.NewRedisStore(redisClient.GetClient(), cfg.Redis.TTL)
			opts = append(opts, api.WithHealthCheck("redis", redisClient.Health))
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			return err
		}
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				zapLogger.Warn("Failed to close event publisher", zap.Error(err))
			}
		}()
		publisher = kafkaPublisher
	}

	svc := calendars.NewService(repo, store, publisher, zapLogger)

	gin.SetMode(gin.ReleaseMode)
	apiServer := api.NewServer(zapLogger, svc, opts...)
	httpServer := server.New(cfg.Server, apiServer.Router(), zapLogger)

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
