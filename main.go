package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/convohq/convo/internal/config"
	"github.com/convohq/convo/internal/policy"
	"github.com/convohq/convo/internal/provider"
	"github.com/convohq/convo/internal/service"
	"github.com/convohq/convo/internal/store"
	transport "github.com/convohq/convo/internal/transport/http"
	v1 "github.com/convohq/convo/internal/transport/http/v1"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	logger.Info("starting chat backend",
		zap.Int("port", cfg.HTTPPort),
		zap.String("database", cfg.DatabaseURL),
		zap.String("model", cfg.ProviderModel))

	// Store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err), zap.String("dsn", cfg.DatabaseURL))
	}
	defer db.Close()

	// Completion provider
	completions := provider.New(cfg.ProviderMode, cfg.ProviderBaseURL, cfg.ProviderAPIKey,
		cfg.ProviderModel, cfg.ProviderTimeout, logger)

	// Request policy
	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		logger.Fatal("failed to initialize policy engine", zap.Error(err))
	}

	// Service and HTTP surface
	svc := service.New(db, completions, policyEngine, logger, cfg.SystemPrompt)
	handler := v1.NewHandler(svc, logger)
	server := transport.NewServer(handler)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.Int("port", cfg.HTTPPort))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shut down gracefully", zap.Error(err))
	}
}
