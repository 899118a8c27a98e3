package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liaolj/iot-board/internal/domain"
)

type AlarmRepo struct {
	pool *pgxpool.Pool
}

func NewAlarmRepo(pool *pgxpool.Pool) *AlarmRepo {
	return &AlarmRepo{pool: pool}
}

func (r *AlarmRepo) Insert(ctx context.Context, in domain.AlarmEventInput) (*domain.AlarmEvent, error) {
	var alarm domain.AlarmEvent
	err := r.pool.QueryRow(ctx, `
		INSERT INTO alarm_events (code, message, severity, device_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, code, message, severity, device_id, created_at
	`, in.Code, in.Message, in.Severity, in.DeviceID).Scan(
		&alarm.ID, &alarm.Code, &alarm.Message, &alarm.Severity, &alarm.DeviceID, &alarm.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert alarm event: %w", err)
	}
	return &alarm, nil
}

func (r *AlarmRepo) List(ctx context.Context, limit int) ([]domain.AlarmEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, message, severity, device_id, created_at
		FROM alarm_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alarm events: %w", err)
	}
	defer rows.Close()

	alarms := make([]domain.AlarmEvent, 0, limit)
	for rows.Next() {
		var alarm domain.AlarmEvent
		if err := rows.Scan(
			&alarm.ID, &alarm.Code, &alarm.Message, &alarm.Severity, &alarm.DeviceID, &alarm.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alarm event: %w", err)
		}
		alarms = append(alarms, alarm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alarm events: %w", err)
	}
	return alarms, nil
}
