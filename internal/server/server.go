// Package server exposes the tool registry over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/danmuck/devkit/internal/config"
	"github.com/danmuck/devkit/internal/observability"
	"github.com/danmuck/devkit/internal/tools"
)

const version = "0.1.0"

type Server struct {
	Name     string
	Addr     string
	Appeared time.Time

	cfg      config.ServerConfig
	executor *tools.Executor
	limiter  *rate.Limiter
	router   *gin.Engine
	logger   zerolog.Logger
}

// New builds the engine and registers every route. The registry is shared
// read-only with the executor.
func New(cfg config.ServerConfig, registry *tools.Registry) *Server {
	observability.RegisterMetrics()
	logger := log.Logger.With().Str("node", cfg.Name).Logger()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	opts := append(cfg.ExecutorOptions(),
		tools.WithRecorder(observability.RecordToolExecution),
		tools.WithLogger(logger),
	)
	s := &Server{
		Name:     cfg.Name,
		Addr:     cfg.Addr,
		Appeared: time.Now(),
		cfg:      cfg,
		executor: tools.NewExecutor(registry, opts...),
		limiter:  cfg.RateLimit.Limiter(),
		router:   r,
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

// Run listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()
	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Int("tools", s.executor.Registry().Len()).
		Msg("server listening")

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownDeadline())
	defer cancel()
	s.logger.Info().Msg("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Debug().Msg("server stopped")
	return nil
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
