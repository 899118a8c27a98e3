package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/liaolj/iot-board/internal/config"
	"github.com/liaolj/iot-board/internal/domain"
	"github.com/liaolj/iot-board/internal/ingest"
	"github.com/liaolj/iot-board/internal/realtime"
)

// Repositories bundles the read-side stores the handlers query directly.
// The write path goes through the ingest service instead.
type Repositories struct {
	Readings   domain.ReadingRepository
	Devices    domain.DeviceRepository
	Alarms     domain.AlarmRepository
	Fields     domain.FieldRepository
	Crops      domain.CropRepository
	Operations domain.OperationRepository
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	ingest      *ingest.Service
	repos       Repositories
	registry    *realtime.Registry
	socketLimit *socketLimiter

	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, svc *ingest.Service, repos Repositories, registry *realtime.Registry, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	maxSockets := cfg.MaxSocketClients
	if maxSockets <= 0 {
		maxSockets = 256
	}

	srv := &Server{
		echo:         e,
		config:       cfg,
		ingest:       svc,
		repos:        repos,
		registry:     registry,
		socketLimit:  newSocketLimiter(maxSockets),
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
