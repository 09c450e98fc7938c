package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/staffbook/internal/config"
)

// StartAPIServer serves handler on cfg.Address until ctx is cancelled, then drains in-flight requests.
func StartAPIServer(ctx context.Context, log *slog.Logger, cfg config.HTTPConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	log.InfoContext(ctx, "Starting API server", "address", cfg.Address, "prefix", cfg.PathPrefix)
	if err := serve(ctx, srv, cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("api server: %w", err)
	}
	log.InfoContext(ctx, "API server stopped.")

	return nil
}

func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
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

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown gracefully: %w", err)
	}

	return <-errCh
}
