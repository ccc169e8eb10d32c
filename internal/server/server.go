// Package server boots the application: configuration, storage, the HTTP
// kernel, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloomcart/bloomcart/config"
	"github.com/bloomcart/bloomcart/internal/kernel"
	"github.com/bloomcart/bloomcart/pkg/cache"
	"github.com/bloomcart/bloomcart/pkg/database"
	"github.com/bloomcart/bloomcart/pkg/logger"
	"github.com/bloomcart/bloomcart/pkg/migration"
)

// Start boots the full stack and blocks until shutdown. Pending
// migrations run at boot; seeding is a separate CLI command and never
// happens here.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("server: connect database: %w", err)
	}
	if err := cache.Connect(); err != nil {
		// The cache degrades to in-process storage; boot continues.
		logger.Warn("server: cache unavailable, using in-memory fallback", "error", err)
	}

	if err := migration.New(database.DB).Run(); err != nil {
		return fmt.Errorf("server: migrate: %w", err)
	}

	httpKernel, err := kernel.NewHTTPKernel()
	if err != nil {
		return fmt.Errorf("server: build kernel: %w", err)
	}

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpKernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
