package domain

import (
	"fmt"
	"time"
)

// DeviceStatusValues are the accepted values for DeviceStatusInput.Status.
var DeviceStatusValues = []string{"online", "offline", "maintenance", "error", "warning"}

// AlarmSeverities are the accepted values for AlarmEventInput.Severity.
var AlarmSeverities = []string{"info", "warning", "critical"}

// EnvironmentReadingInput is the caller-supplied payload for an
// environment reading. Numeric fields are pointers so a missing field can
// be told apart from a legitimate zero.
type EnvironmentReadingInput struct {
	Location        string   `json:"location"`
	Temperature     *float64 `json:"temperature"`
	Humidity        *float64 `json:"humidity"`
	AirQualityIndex *float64 `json:"air_quality_index"`
}

// Normalize applies defaults. Call after Validate.
func (in *EnvironmentReadingInput) Normalize() {
	if in.Location == "" {
		in.Location = "default"
	}
}

func (in *EnvironmentReadingInput) Validate() error {
	if in.Temperature == nil {
		return fmt.Errorf("temperature is required")
	}
	if in.Humidity == nil {
		return fmt.Errorf("humidity is required")
	}
	if in.AirQualityIndex == nil {
		return fmt.Errorf("air_quality_index is required")
	}
	return nil
}

// DeviceStatusInput is the caller-supplied payload for a device status upsert.
type DeviceStatusInput struct {
	DeviceID string         `json:"device_id"`
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Meta     map[string]any `json:"meta"`
}

func (in *DeviceStatusInput) Normalize() {
	if in.Meta == nil {
		in.Meta = map[string]any{}
	}
}

func (in *DeviceStatusInput) Validate() error {
	if in.DeviceID == "" {
		return fmt.Errorf("device_id is required")
	}
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !contains(DeviceStatusValues, in.Status) {
		return fmt.Errorf("status must be one of %v", DeviceStatusValues)
	}
	return nil
}

// AlarmEventInput is the caller-supplied payload for an alarm.
type AlarmEventInput struct {
	Code     string  `json:"code"`
	Message  string  `json:"message"`
	Severity string  `json:"severity"`
	DeviceID *string `json:"device_id"`
}

func (in *AlarmEventInput) Validate() error {
	if in.Code == "" {
		return fmt.Errorf("code is required")
	}
	if in.Message == "" {
		return fmt.Errorf("message is required")
	}
	if !contains(AlarmSeverities, in.Severity) {
		return fmt.Errorf("severity must be one of %v", AlarmSeverities)
	}
	return nil
}

// FieldInput creates or updates a field.
type FieldInput struct {
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	AreaHectares float64 `json:"area_hectares"`
	SoilType     string  `json:"soil_type"`
}

func (in *FieldInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if in.Location == "" {
		return fmt.Errorf("location is required")
	}
	return nil
}

// CropInput creates or updates a crop.
type CropInput struct {
	FieldID             int64      `json:"field_id"`
	Name                string     `json:"name"`
	Variety             string     `json:"variety"`
	GrowthStage         string     `json:"growth_stage"`
	PlantingDate        *time.Time `json:"planting_date"`
	ExpectedHarvestDate *time.Time `json:"expected_harvest_date"`
}

func (in *CropInput) Validate() error {
	if in.FieldID == 0 {
		return fmt.Errorf("field_id is required")
	}
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// OperationInput creates or updates an operation.
type OperationInput struct {
	FieldID       int64      `json:"field_id"`
	CropID        *int64     `json:"crop_id"`
	OperationType string     `json:"operation_type"`
	Description   string     `json:"description"`
	Operator      string     `json:"operator"`
	PerformedAt   *time.Time `json:"performed_at"`
}

func (in *OperationInput) Validate() error {
	if in.FieldID == 0 {
		return fmt.Errorf("field_id is required")
	}
	if in.OperationType == "" {
		return fmt.Errorf("operation_type is required")
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
