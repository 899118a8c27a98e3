package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liaolj/iot-board/internal/domain"
)

type DeviceRepo struct {
	pool *pgxpool.Pool
}

func NewDeviceRepo(pool *pgxpool.Pool) *DeviceRepo {
	return &DeviceRepo{pool: pool}
}

// Upsert inserts a device status or, if the device_id already exists,
// updates the row in place. One statement, so concurrent posts for the
// same device serialize on the row and the last writer wins.
func (r *DeviceRepo) Upsert(ctx context.Context, in domain.DeviceStatusInput) (*domain.DeviceStatus, error) {
	var status domain.DeviceStatus
	err := r.pool.QueryRow(ctx, `
		INSERT INTO device_statuses (device_id, name, status, meta, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (device_id) DO UPDATE SET
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			meta = EXCLUDED.meta,
			updated_at = NOW()
		RETURNING id, device_id, name, status, meta, updated_at
	`, in.DeviceID, in.Name, in.Status, in.Meta).Scan(
		&status.ID, &status.DeviceID, &status.Name, &status.Status, &status.Meta, &status.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device status: %w", err)
	}
	return &status, nil
}

func (r *DeviceRepo) GetByDeviceID(ctx context.Context, deviceID string) (*domain.DeviceStatus, error) {
	var status domain.DeviceStatus
	err := r.pool.QueryRow(ctx, `
		SELECT id, device_id, name, status, meta, updated_at
		FROM device_statuses
		WHERE device_id = $1
	`, deviceID).Scan(
		&status.ID, &status.DeviceID, &status.Name, &status.Status, &status.Meta, &status.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device status: %w", err)
	}
	return &status, nil
}

func (r *DeviceRepo) List(ctx context.Context) ([]domain.DeviceStatus, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, device_id, name, status, meta, updated_at
		FROM device_statuses
		ORDER BY device_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list device statuses: %w", err)
	}
	defer rows.Close()

	statuses := make([]domain.DeviceStatus, 0)
	for rows.Next() {
		var status domain.DeviceStatus
		if err := rows.Scan(
			&status.ID, &status.DeviceID, &status.Name, &status.Status, &status.Meta, &status.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan device status: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read device statuses: %w", err)
	}
	return statuses, nil
}
