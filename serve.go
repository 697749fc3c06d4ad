package main

import (
	"codecompanion/config"
	"codecompanion/internal/analysis"
	"codecompanion/internal/api"
	"codecompanion/logging"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// newServer wires the analyzer, handlers and middleware into an http.Server.
func newServer(cfg config.Config, logger *logrus.Logger) *http.Server {
	analyzer := analysis.NewAnalyzer(analysis.Options{
		Strict:         cfg.Analysis.Strict,
		CapitalizeMode: cfg.Analysis.CapitalizeMode,
	})
	handler := api.NewHandler(analyzer, cfg.Server.MaxBodyBytes)

	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, cfg.CORS, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     newErrorLog(logger),
	}
}

// newErrorLog routes net/http's internal errors through logrus.
func newErrorLog(logger *logrus.Logger) *log.Logger {
	return log.New(logger.WriterLevel(logrus.ErrorLevel), "", 0)
}

func runServe(ctx context.Context, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	closer := logging.Setup(cfg.Logging)
	defer closer.Close()
	logger := logrus.StandardLogger()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := newServer(cfg, logger)
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s...", srv.Addr)
		logger.Infof("CORS allowed origins: %v", cfg.CORS.AllowedOrigins)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
