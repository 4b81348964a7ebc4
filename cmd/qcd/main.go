package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"qc-tracking-backend/config"
	"qc-tracking-backend/internal/api"
	"qc-tracking-backend/internal/db"
	"qc-tracking-backend/internal/logging"
	"qc-tracking-backend/internal/notification"
	"qc-tracking-backend/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, "qcd")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("path", configPath), zap.String("store", cfg.Store.Driver))

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := api.Deps{
		Master:    cfg.Master,
		Standards: cfg.Standards,
		Logger:    logger,
	}

	var gormDB *gorm.DB
	if cfg.Store.Driver == config.StoreSQL || cfg.Push.Enabled {
		gormDB, err = db.Init(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to initialize database", zap.Error(err))
		}
	}

	switch cfg.Store.Driver {
	case config.StoreSQL:
		deps.Store = store.NewGormStore(gormDB)
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to reach redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		deps.Store = store.NewRedisStore(rdb, cfg.Redis.KeyPrefix)
	default:
		deps.Store, err = store.NewFileStore(cfg.Store.FilePath, logger)
		if err != nil {
			logger.Fatal("failed to open file store", zap.String("path", cfg.Store.FilePath), zap.Error(err))
		}
	}
	logger.Info("data store initialized")

	var workerPool *notification.WorkerPool
	if cfg.Push.Enabled {
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		subs := store.NewGormSubscriptionStore(gormDB)
		workerPool = notification.NewWorkerPool(cfg.WorkerPool.Size, subs, webpushOptions, logger)
		workerPool.Start(ctx)

		deps.Subscriptions = subs
		deps.WebPush = webpushOptions
		deps.Alerts = workerPool
		logger.Info("reject alerts enabled", zap.Int("workers", cfg.WorkerPool.Size))
	}

	router := api.NewRouter(cfg.Server, deps)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info("shutdown signal received, stopping services")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", zap.Error(err))
	}

	cancel()
	if workerPool != nil {
		workerPool.Wait()
	}
	logger.Info("server gracefully stopped")
}
