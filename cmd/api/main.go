package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markdave123-py/Pressroom/internal/app"
	"github.com/markdave123-py/Pressroom/internal/config"
	"github.com/markdave123-py/Pressroom/internal/logger"
	"github.com/markdave123-py/Pressroom/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger.Init(cfg.LogLevel)

	shutdownTracer, err := telemetry.InitTracer(ctx, "pressroom", cfg.OtelEndpoint)
	if err != nil {
		log.Fatalf("tracing setup failed: %v", err)
	}

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer application.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Server.Start()
	}()

	logger.Info("Pressroom is running", "port", cfg.Port)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	shutdownTracer(shutdownCtx)
	logger.Info("shutdown complete")
}
