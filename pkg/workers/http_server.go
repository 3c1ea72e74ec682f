package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type httpServer struct {
	echo            *echo.Echo
	addr            string
	shutdownTimeout time.Duration
}

func NewHTTPServer(e *echo.Echo, addr string, shutdownTimeout time.Duration) *httpServer {
	return &httpServer{
		echo:            e,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
	}
}

func (h *httpServer) Name() string { return "http_server" }

// Start serves until ctx is done, then lets in-flight requests finish within the shutdown timeout.
func (h *httpServer) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", h.Name(), "addr", h.addr)
	defer slog.Info("Worker stopped", "name", h.Name())

	errCh := make(chan error, 1)
	go func() {
		if err := h.echo.Start(h.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listening on %s: %w", h.addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	if err := h.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}
