package domain

import "time"

// Event type tags carried in broadcast envelopes, one per ingestion kind.
const (
	EventEnvironmentUpdate = "environment.update"
	EventDeviceUpdate      = "device.update"
	EventAlarmRaise        = "alarm.raise"
)

// EnvironmentReading is a stored environmental sensor sample.
type EnvironmentReading struct {
	ID              int64     `json:"id"`
	Location        string    `json:"location"`
	Temperature     float64   `json:"temperature"`
	Humidity        float64   `json:"humidity"`
	AirQualityIndex float64   `json:"air_quality_index"`
	CreatedAt       time.Time `json:"created_at"`
}

// DeviceStatus is the current state of an IoT device, keyed by its
// natural DeviceID. Repeated posts for the same DeviceID update the row
// in place and keep the surrogate ID stable.
type DeviceStatus struct {
	ID        int64          `json:"id"`
	DeviceID  string         `json:"device_id"`
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	Meta      map[string]any `json:"meta"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// AlarmEvent is a high-priority alert surfaced to subscribers immediately.
type AlarmEvent struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	DeviceID  *string   `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DispatchLogEntry is an audit record of one broadcast envelope.
type DispatchLogEntry struct {
	ID        int64          `json:"id"`
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

// Field is a plot of land under management.
type Field struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	AreaHectares float64   `json:"area_hectares"`
	SoilType     string    `json:"soil_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// Crop is a crop planted in a field.
type Crop struct {
	ID                  int64      `json:"id"`
	FieldID             int64      `json:"field_id"`
	Name                string     `json:"name"`
	Variety             string     `json:"variety"`
	GrowthStage         string     `json:"growth_stage"`
	PlantingDate        *time.Time `json:"planting_date"`
	ExpectedHarvestDate *time.Time `json:"expected_harvest_date"`
}

// Operation is a unit of work performed on a field or crop.
type Operation struct {
	ID            int64     `json:"id"`
	FieldID       int64     `json:"field_id"`
	CropID        *int64    `json:"crop_id"`
	OperationType string    `json:"operation_type"`
	Description   string    `json:"description"`
	Operator      string    `json:"operator"`
	PerformedAt   time.Time `json:"performed_at"`
}
