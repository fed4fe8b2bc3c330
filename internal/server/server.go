// Package server is the HTTP front end: a browser points its search
// keyword at /?q=%s and gets a 302 to whatever the resolver produces.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/burrowsh/burrow/internal/config"
	"github.com/burrowsh/burrow/internal/dispatch"
	"github.com/burrowsh/burrow/internal/observability"
)

// Server hosts the resolver over HTTP.
type Server struct {
	cfg      config.ServerConfig
	resolver *dispatch.Resolver
	log      zerolog.Logger
	engine   *gin.Engine
}

// New builds the server and its route table.
func New(cfg config.ServerConfig, resolver *dispatch.Resolver, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		observability.RequestID(),
		observability.RequestLogger(log),
		observability.RequestMetrics(),
		cors.Default(),
	)

	s := &Server{
		cfg:      cfg,
		resolver: resolver,
		log:      log,
		engine:   engine,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Address, s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info().Str("addr", addr).Msg("server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("server stopped")
	return nil
}
