package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davronov/qrdesk/internal/auth"
	"github.com/davronov/qrdesk/internal/cache"
	"github.com/davronov/qrdesk/internal/config"
	"github.com/davronov/qrdesk/internal/database"
	"github.com/davronov/qrdesk/internal/files"
	"github.com/davronov/qrdesk/internal/handlers"
	"github.com/davronov/qrdesk/internal/logger"
	"github.com/davronov/qrdesk/internal/middleware"
	"github.com/davronov/qrdesk/internal/redis"
	"github.com/davronov/qrdesk/internal/service"
	"github.com/davronov/qrdesk/internal/storage"
)

func main() {
	log := logger.New("qr-server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := database.Migrate(cfg.Database.PrimaryDSN); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	dbManager, err := database.NewManager(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()

	fileStore, err := files.NewStore(cfg.Uploads)
	if err != nil {
		log.Fatalf("Failed to open upload dir: %v", err)
	}

	store := storage.NewPostgresStorage(dbManager)
	recordCache := cache.NewRecordCache(cfg.Cache.L1Capacity, redisClient.Raw(), cfg.Cache.L2TTL)
	denylist := auth.NewDenylist(redisClient.Raw())

	qrService := service.NewQRService(store, recordCache, log, cfg.Server.BaseURL)
	authService, err := service.NewAuthService(cfg.Auth, denylist, log)
	if err != nil {
		log.Fatalf("Failed to set up auth: %v", err)
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		QR:     handlers.NewQRHandler(qrService, fileStore, log),
		Auth:   handlers.NewAuthHandler(authService, log),
		Scan:   handlers.NewScanHandler(qrService, fileStore, log),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": dbManager,
			"redis":    redisClient,
		}),

		AuthMW:       middleware.NewAuthMiddleware(authService),
		LoginLimiter: middleware.NewRateLimiter(redisClient.Raw(), "login", 10, time.Minute),
		ScanLimiter:  middleware.NewRateLimiter(redisClient.Raw(), "scan", cfg.RateLimit.Requests, cfg.RateLimit.Window),

		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Shutdown error: %v", err)
	}
	log.Info("Stopped")
}
