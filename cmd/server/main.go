package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sampleflix/sampleflix/internal/api"
	"github.com/sampleflix/sampleflix/internal/auth"
	"github.com/sampleflix/sampleflix/internal/cache"
	"github.com/sampleflix/sampleflix/internal/config"
	"github.com/sampleflix/sampleflix/internal/models"
	"github.com/sampleflix/sampleflix/internal/observability"
	"github.com/sampleflix/sampleflix/internal/repository"
	"github.com/sampleflix/sampleflix/internal/schema"
	"github.com/sampleflix/sampleflix/internal/storage"
)

func main() {
	// A .env file is optional; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger("server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to document store", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := store.Disconnect(disconnectCtx); err != nil {
			logger.Error("store disconnect failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	readCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Fatal("failed to initialize cache", map[string]interface{}{"error": err.Error()})
	}
	if readCache != nil {
		defer func() {
			if err := readCache.Close(); err != nil {
				logger.Error("cache close failed", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	registry, err := schema.NewRegistry()
	if err != nil {
		logger.Fatal("failed to load schemas", map[string]interface{}{"error": err.Error()})
	}
	validator := schema.NewValidator(registry)

	dals := repository.NewRegistry(validator, store, repository.Options{
		Cache:           readCache,
		CacheTTL:        cfg.Cache.TTL,
		DefaultPageSize: cfg.Pagination.DefaultPageSize,
		MaxPageSize:     cfg.Pagination.MaxPageSize,
		Logger:          logger,
	})

	users, err := dals.DAL(models.KindUser)
	if err != nil {
		logger.Fatal("user data access layer missing", map[string]interface{}{"error": err.Error()})
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)
	authService := auth.NewService(users, validator, issuer, logger)

	server, err := api.NewServer(*cfg, api.Dependencies{
		Registry:    dals,
		AuthService: authService,
		Issuer:      issuer,
		Store:       store,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to build server", map[string]interface{}{"error": err.Error()})
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", map[string]interface{}{"error": err.Error()})
		}
	case sig := <-signals:
		logger.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
