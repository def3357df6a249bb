package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mylist/internal/services"
	"github.com/desertthunder/mylist/internal/shared"
)

// ShutdownTimeout bounds graceful shutdown in [Serve].
const ShutdownTimeout = 30 * time.Second

// NewRouter assembles the full HTTP surface: middleware stack, list endpoints and health check.
func NewRouter(api services.ListAPI, cfg shared.ServerConfig, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = shared.WithLogger(logger, "component", "http")

	router := NewBasicRouter()
	router.Use(RequestID(), Recover(logger), Logging(logger), RateLimit(cfg.RateLimit, cfg.RateBurst))

	router.Handler(NewListHandler(api, logger, cfg.MaxPageSize))
	router.HandleFunc(http.MethodGet, services.PathHealth, Health)

	return router
}

// NewHTTPServer creates an [http.Server] for handler with the configured address and timeouts.
func NewHTTPServer(cfg shared.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
}

// Serve accepts connections on ln until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("server exited")
	return nil
}
