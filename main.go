package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"storefront_server/api"
	"storefront_server/config"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/services"
	"storefront_server/storage"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := config.NewLogger(cfg)

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			logger.Fatal("Failed to migrate database", gecho.Field("error", err))
		}
	}

	cipher, err := lib.NewFieldCipher(cfg.Encryption.Key)
	if err != nil {
		logger.Fatal("Invalid encryption key", gecho.Field("error", err))
	}
	if !cipher.Enabled() {
		logger.Warn("ENCRYPTION_KEY is not set, shipping contacts are stored in plain text")
	}

	blobs, err := storage.NewLocalBlobStore(cfg.Storage.ImagesDir, cfg.Storage.PublicPath)
	if err != nil {
		logger.Fatal("Failed to prepare image storage", gecho.Field("error", err))
	}

	sm := services.NewServiceManager(logger, cfg, db, blobs, cipher)
	defer sm.CacheService.Close()

	if err := sm.AuthService.EnsureAdmin(context.Background()); err != nil {
		logger.Error("Failed to create admin account", gecho.Field("error", err))
	}

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, logger, config.NewRequestLogger(cfg), sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", gecho.Field("error", err))
		}
	}()

	waitForShutdown(logger, srv)
}

// waitForShutdown blocks until SIGINT or SIGTERM and drains in-flight requests
func waitForShutdown(logger *gecho.Logger, srv *http.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	logger.Info("Graceful shutdown handler initialized")

	sig := <-c
	logger.Info("Received shutdown signal", gecho.Field("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", gecho.Field("error", err))
	}
}
