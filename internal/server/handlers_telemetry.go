package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/liaolj/iot-board/internal/domain"
	apperrors "github.com/liaolj/iot-board/internal/errors"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

func (s *Server) registerTelemetryRoutes(limiter echo.MiddlewareFunc) {
	s.echo.POST("/api/environment", s.handleCreateEnvironment, limiter)
	s.echo.GET("/api/environment", s.handleListEnvironment)
	s.echo.POST("/api/devices", s.handleUpsertDevice, limiter)
	s.echo.GET("/api/devices", s.handleListDevices)
	s.echo.GET("/api/devices/:device_id", s.handleGetDevice)
	s.echo.POST("/api/alarms", s.handleCreateAlarm, limiter)
	s.echo.GET("/api/alarms", s.handleListAlarms)
}

func (s *Server) handleCreateEnvironment(c echo.Context) error {
	var in domain.EnvironmentReadingInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	reading, err := s.ingest.IngestEnvironment(c.Request().Context(), in)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusCreated, reading); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListEnvironment(c echo.Context) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}

	readings, err := s.repos.Readings.List(c.Request().Context(), limit)
	if err != nil {
		return apperrors.InternalError("failed to list environment readings", err)
	}

	if err := c.JSON(http.StatusOK, readings); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpsertDevice(c echo.Context) error {
	var in domain.DeviceStatusInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	status, err := s.ingest.IngestDeviceStatus(c.Request().Context(), in)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusCreated, status); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListDevices(c echo.Context) error {
	devices, err := s.repos.Devices.List(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to list devices", err)
	}

	if err := c.JSON(http.StatusOK, devices); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetDevice(c echo.Context) error {
	deviceID := c.Param("device_id")

	status, err := s.repos.Devices.GetByDeviceID(c.Request().Context(), deviceID)
	if errors.Is(err, domain.ErrDeviceNotFound) {
		return apperrors.NotFoundError("device not found").WithField("device_id", deviceID)
	}
	if err != nil {
		return apperrors.InternalError("failed to load device", err).WithField("device_id", deviceID)
	}

	if err := c.JSON(http.StatusOK, status); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleCreateAlarm(c echo.Context) error {
	var in domain.AlarmEventInput
	if err := c.Bind(&in); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	alarm, err := s.ingest.IngestAlarm(c.Request().Context(), in)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusCreated, alarm); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListAlarms(c echo.Context) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}

	alarms, err := s.repos.Alarms.List(c.Request().Context(), limit)
	if err != nil {
		return apperrors.InternalError("failed to list alarms", err)
	}

	if err := c.JSON(http.StatusOK, alarms); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func parseLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return defaultListLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, apperrors.ValidationError("limit must be a positive integer").WithField("limit", raw)
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, nil
}
