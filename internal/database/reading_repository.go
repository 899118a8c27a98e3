package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liaolj/iot-board/internal/domain"
)

type ReadingRepo struct {
	pool *pgxpool.Pool
}

func NewReadingRepo(pool *pgxpool.Pool) *ReadingRepo {
	return &ReadingRepo{pool: pool}
}

func (r *ReadingRepo) Insert(ctx context.Context, in domain.EnvironmentReadingInput) (*domain.EnvironmentReading, error) {
	var reading domain.EnvironmentReading
	err := r.pool.QueryRow(ctx, `
		INSERT INTO environment_readings (location, temperature, humidity, air_quality_index)
		VALUES ($1, $2, $3, $4)
		RETURNING id, location, temperature, humidity, air_quality_index, created_at
	`, in.Location, *in.Temperature, *in.Humidity, *in.AirQualityIndex).Scan(
		&reading.ID, &reading.Location, &reading.Temperature, &reading.Humidity,
		&reading.AirQualityIndex, &reading.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert environment reading: %w", err)
	}
	return &reading, nil
}

func (r *ReadingRepo) List(ctx context.Context, limit int) ([]domain.EnvironmentReading, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, location, temperature, humidity, air_quality_index, created_at
		FROM environment_readings
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list environment readings: %w", err)
	}
	defer rows.Close()

	readings := make([]domain.EnvironmentReading, 0, limit)
	for rows.Next() {
		var reading domain.EnvironmentReading
		if err := rows.Scan(
			&reading.ID, &reading.Location, &reading.Temperature, &reading.Humidity,
			&reading.AirQualityIndex, &reading.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan environment reading: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read environment readings: %w", err)
	}
	return readings, nil
}
