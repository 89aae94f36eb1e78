package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Server exposes the liveness endpoint and Prometheus metrics.
type Server struct {
	echo *echo.Echo
	port int
}

// NewServer builds the health HTTP server on the given port.
func NewServer(port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	running := func(c echo.Context) error {
		return c.String(http.StatusOK, "running")
	}
	e.GET("/", running)
	e.GET("/healthz", running)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{echo: e, port: port}
}

// Start listens until the server is shut down. Blocks.
func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("health server listening")
	err := s.echo.Start(fmt.Sprintf(":%d", s.port))
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}
