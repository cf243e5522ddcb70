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

	"brand-trends/internal/infrastructure/config"
	"brand-trends/internal/infrastructure/db"
	"brand-trends/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.LoadFromFile("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: load config failed: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: init logger failed: %v\n", err)
		os.Exit(1)
	}
	if cfg.Log.Format == "json" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info("configuration loaded", zap.String("addr", cfg.HTTP.Addr))

	os.Exit(finish(log, run(cfg, log)))
}

// finish 記錄結束原因並 flush logger，回傳 process exit code。
func finish(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("server stopped", zap.Error(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	pool, err := db.Connect(connectCtx, cfg.DB)
	cancel()
	switch {
	case err != nil:
		log.Warn("database connection failed, falling back to in-memory store", zap.Error(err))
	case pool == nil:
		log.Info("no DB_DSN provided; running with in-memory store only")
	default:
		defer pool.Close()
		log.Info("database connected")
	}

	a, err := buildApp(cfg, pool, log)
	if err != nil {
		return err
	}
	go a.runPurge(ctx, purgeInterval, log)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
