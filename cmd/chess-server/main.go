package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/park285/chess-api/internal/chessbuilder"
	appcfg "github.com/park285/chess-api/internal/config"
	"github.com/park285/chess-api/internal/httpapi"
	"github.com/park285/chess-api/internal/obslog"
	"go.uber.org/zap"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		logger.Fatal("config_error", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := chessbuilder.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("chess_init_error", zap.Error(err))
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Warn("chess_close_error", zap.Error(err))
		}
	}()

	if deps.MemoryLimiter != nil {
		go deps.MemoryLimiter.Run(ctx, cfg.RateLimitCleanup())
	}

	srv, err := httpapi.NewServer(deps.Service, httpapi.Options{
		Limiter:           deps.Limiter,
		Catalog:           deps.Catalog,
		Logger:            logger,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		TrustForwardedFor: cfg.TrustProxy,
	})
	if err != nil {
		logger.Fatal("http_init_error", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(cfg.Addr()) }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http_serve_error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutdown_signal")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Close(sctx); err != nil {
			logger.Warn("http_shutdown_error", zap.Error(err))
		}
		<-errCh
	}
	logger.Info("server_stopped")
}
