package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/api/v1/router"
	"github.com/krzotki/eleven-labs-demo/internal/config"
	"github.com/krzotki/eleven-labs-demo/internal/logger"

	"github.com/joho/godotenv"
)

// @title Roast Bot API
// @version 1.0
// @description Match analysis, quota gating and roast generation for chat integrations
// @host localhost:8080
// @BasePath /v1
// @Schemes http https

func main() {
	// 1. Load configuration
	logger := logger.New()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading config")
	}

	// 2. Build router and its dependencies
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := router.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build router")
	}
	defer app.Close()

	// 3. Create HTTP server. Roast requests chain match lookup, generation and
	// speech, so the write timeout covers all three.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.MatchTimeout + 2*cfg.GenerationTimeout + cfg.SpeechTimeout + cfg.PersistenceTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// 4. Start server in a goroutine
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Listen failed")
		}
	}()

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	logger.Info().Msg("Server shut down gracefully")
}
