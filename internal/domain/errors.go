package domain

import "errors"

var (
	// ErrDeviceNotFound is returned when no device status exists for a device ID.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrFieldNotFound is returned when a field ID does not exist.
	ErrFieldNotFound = errors.New("field not found")
	// ErrCropNotFound is returned when a crop ID does not exist.
	ErrCropNotFound = errors.New("crop not found")
	// ErrOperationNotFound is returned when an operation ID does not exist.
	ErrOperationNotFound = errors.New("operation not found")
)
