// Package api serves the Locker HTTP API on top of a types.Store. It wires
// the echo router, the error envelope, request logging, Prometheus metrics,
// and the login rate limiter, and runs the listener until its context is
// cancelled.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lockerhq/locker/internal/ratelimit"
	"github.com/lockerhq/locker/pkg/types"
)

// shutdownTimeout bounds graceful shutdown once the context is cancelled.
const shutdownTimeout = 5 * time.Second

// limiterIdleTTL is how long an idle client keeps its rate limiter entry.
const limiterIdleTTL = 10 * time.Minute

// Server serves the Locker HTTP API.
type Server struct {
	echo    *echo.Echo
	config  types.Config
	store   types.Store
	logger  *slog.Logger
	limiter *ratelimit.KeyLimiter
	now     func() time.Time
}

// New builds a Server over the given store. The store must already be
// attached. A nil logger falls back to slog.Default.
func New(config types.Config, store types.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  config,
		store:   store,
		logger:  logger,
		limiter: ratelimit.New(config.LoginRate, config.LoginBurst, limiterIdleTTL),
		now:     time.Now,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())
	e.Use(observeRequests)

	e.GET("/", s.handleRoot)
	e.GET("/docs", s.handleDocs)
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/registration", s.handleRegistration, s.throttle)
	e.POST("/login", s.handleLogin, s.throttle)
	e.POST("/items/new", s.handleCreateItem)
	e.DELETE("/items/:id", s.handleDeleteItem)
	e.GET("/items", s.handleListItems)
	e.POST("/send", s.handleSend)
	e.GET("/get/:item_token/:recipient_token", s.handleReceive)

	s.echo = e
	return s
}

// Handler returns the root HTTP handler, for serving through a custom
// listener or an httptest server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured host and port until ctx is cancelled,
// then shuts down gracefully within shutdownTimeout. Returns the listener
// error if the server stops on its own.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	errCh := make(chan error, 1)
	go func() {
		err := s.echo.Start(addr)
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- err
	}()

	s.logger.Info("server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// throttle guards credential endpoints with the per-client limiter.
func (s *Server) throttle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.limiter.Allow(c.RealIP(), s.now()) {
			return echo.NewHTTPError(http.StatusTooManyRequests, msgTooManyRequests)
		}
		return next(c)
	}
}

// requestLogger bridges echo request logging to slog. HandleError runs the
// error handler before logging so the logged status is the one sent.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			s.logger.Info("request", attrs...)
			return nil
		},
	})
}

// baseURL is the prefix for confirmation URLs. PublicURL wins when set;
// otherwise the listen address is used.
func (s *Server) baseURL() string {
	if s.config.PublicURL != "" {
		return strings.TrimRight(s.config.PublicURL, "/")
	}
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}
