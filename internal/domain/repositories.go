package domain

import "context"

// ReadingRepository stores environment readings.
type ReadingRepository interface {
	Insert(ctx context.Context, in EnvironmentReadingInput) (*EnvironmentReading, error)
	List(ctx context.Context, limit int) ([]EnvironmentReading, error)
}

// DeviceRepository stores device statuses keyed by their natural device ID.
type DeviceRepository interface {
	Upsert(ctx context.Context, in DeviceStatusInput) (*DeviceStatus, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*DeviceStatus, error)
	List(ctx context.Context) ([]DeviceStatus, error)
}

// AlarmRepository stores alarm events.
type AlarmRepository interface {
	Insert(ctx context.Context, in AlarmEventInput) (*AlarmEvent, error)
	List(ctx context.Context, limit int) ([]AlarmEvent, error)
}

// AuditRepository records broadcast envelopes for later inspection.
type AuditRepository interface {
	Insert(ctx context.Context, eventType string, payload map[string]any) error
}

// Broadcaster fans a named event out to all currently connected
// realtime subscribers. Implementations must never fail the caller on
// per-subscriber delivery errors.
type Broadcaster interface {
	Emit(event string, payload map[string]any)
}

// FieldRepository manages fields.
type FieldRepository interface {
	Create(ctx context.Context, in FieldInput) (*Field, error)
	Get(ctx context.Context, id int64) (*Field, error)
	List(ctx context.Context) ([]Field, error)
	Update(ctx context.Context, id int64, in FieldInput) (*Field, error)
	Delete(ctx context.Context, id int64) error
}

// CropRepository manages crops.
type CropRepository interface {
	Create(ctx context.Context, in CropInput) (*Crop, error)
	Get(ctx context.Context, id int64) (*Crop, error)
	List(ctx context.Context) ([]Crop, error)
	Update(ctx context.Context, id int64, in CropInput) (*Crop, error)
	Delete(ctx context.Context, id int64) error
}

// OperationRepository manages operations.
type OperationRepository interface {
	Create(ctx context.Context, in OperationInput) (*Operation, error)
	Get(ctx context.Context, id int64) (*Operation, error)
	List(ctx context.Context) ([]Operation, error)
	Update(ctx context.Context, id int64, in OperationInput) (*Operation, error)
	Delete(ctx context.Context, id int64) error
}
