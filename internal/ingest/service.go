package ingest

import (
	"context"
	"time"

	"github.com/liaolj/iot-board/internal/domain"
	apperrors "github.com/liaolj/iot-board/internal/errors"
	"github.com/liaolj/iot-board/internal/logging"
	"github.com/liaolj/iot-board/internal/metrics"
)

// Service runs the ingestion pipeline: validate, persist, audit, broadcast.
type Service struct {
	readings    domain.ReadingRepository
	devices     domain.DeviceRepository
	alarms      domain.AlarmRepository
	audit       domain.AuditRepository
	broadcaster domain.Broadcaster
}

func NewService(
	readings domain.ReadingRepository,
	devices domain.DeviceRepository,
	alarms domain.AlarmRepository,
	audit domain.AuditRepository,
	broadcaster domain.Broadcaster,
) *Service {
	return &Service{
		readings:    readings,
		devices:     devices,
		alarms:      alarms,
		audit:       audit,
		broadcaster: broadcaster,
	}
}

// IngestEnvironment stores an environment reading and broadcasts it.
func (s *Service) IngestEnvironment(ctx context.Context, in domain.EnvironmentReadingInput) (*domain.EnvironmentReading, error) {
	if err := in.Validate(); err != nil {
		metrics.IngestTotal.WithLabelValues("environment", "invalid").Inc()
		return nil, apperrors.ValidationError(err.Error())
	}
	in.Normalize()

	reading, err := s.readings.Insert(ctx, in)
	if err != nil {
		metrics.IngestTotal.WithLabelValues("environment", "error").Inc()
		return nil, apperrors.InternalError("failed to store environment reading", err)
	}

	s.dispatch(ctx, domain.EventEnvironmentUpdate, map[string]any{
		"id":                reading.ID,
		"location":          reading.Location,
		"temperature":       reading.Temperature,
		"humidity":          reading.Humidity,
		"air_quality_index": reading.AirQualityIndex,
		"created_at":        reading.CreatedAt.UTC().Format(time.RFC3339),
	})

	metrics.IngestTotal.WithLabelValues("environment", "ok").Inc()
	return reading, nil
}

// IngestDeviceStatus upserts a device status by its device ID and
// broadcasts the new state. The last write for a device ID wins.
func (s *Service) IngestDeviceStatus(ctx context.Context, in domain.DeviceStatusInput) (*domain.DeviceStatus, error) {
	if err := in.Validate(); err != nil {
		metrics.IngestTotal.WithLabelValues("device", "invalid").Inc()
		return nil, apperrors.ValidationError(err.Error())
	}
	in.Normalize()

	status, err := s.devices.Upsert(ctx, in)
	if err != nil {
		metrics.IngestTotal.WithLabelValues("device", "error").Inc()
		return nil, apperrors.InternalError("failed to store device status", err)
	}

	logging.WithDevice(status.DeviceID).Debug("device status ingested", "status", status.Status)

	s.dispatch(ctx, domain.EventDeviceUpdate, map[string]any{
		"id":         status.ID,
		"device_id":  status.DeviceID,
		"name":       status.Name,
		"status":     status.Status,
		"meta":       status.Meta,
		"updated_at": status.UpdatedAt.UTC().Format(time.RFC3339),
	})

	metrics.IngestTotal.WithLabelValues("device", "ok").Inc()
	return status, nil
}

// IngestAlarm stores an alarm event and broadcasts it.
func (s *Service) IngestAlarm(ctx context.Context, in domain.AlarmEventInput) (*domain.AlarmEvent, error) {
	if err := in.Validate(); err != nil {
		metrics.IngestTotal.WithLabelValues("alarm", "invalid").Inc()
		return nil, apperrors.ValidationError(err.Error())
	}

	alarm, err := s.alarms.Insert(ctx, in)
	if err != nil {
		metrics.IngestTotal.WithLabelValues("alarm", "error").Inc()
		return nil, apperrors.InternalError("failed to store alarm event", err)
	}

	// device_id is always present, null for alarms without a source device.
	var deviceID any
	if alarm.DeviceID != nil {
		deviceID = *alarm.DeviceID
	}
	s.dispatch(ctx, domain.EventAlarmRaise, map[string]any{
		"id":         alarm.ID,
		"device_id":  deviceID,
		"code":       alarm.Code,
		"message":    alarm.Message,
		"severity":   alarm.Severity,
		"created_at": alarm.CreatedAt.UTC().Format(time.RFC3339),
	})

	metrics.IngestTotal.WithLabelValues("alarm", "ok").Inc()
	return alarm, nil
}

// dispatch writes the audit record and emits the event. Both are
// best-effort once the entity has been persisted.
func (s *Service) dispatch(ctx context.Context, event string, payload map[string]any) {
	if err := s.audit.Insert(ctx, event, payload); err != nil {
		metrics.AuditWriteFailures.Inc()
		logging.WithEvent(event).Warn("failed to write dispatch log entry", "error", err)
	}
	s.broadcaster.Emit(event, payload)
}
