package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liaolj/iot-board/internal/domain"
)

type FieldRepo struct {
	pool *pgxpool.Pool
}

func NewFieldRepo(pool *pgxpool.Pool) *FieldRepo {
	return &FieldRepo{pool: pool}
}

func (r *FieldRepo) Create(ctx context.Context, in domain.FieldInput) (*domain.Field, error) {
	var field domain.Field
	err := r.pool.QueryRow(ctx, `
		INSERT INTO fields (name, location, area_hectares, soil_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, location, area_hectares, soil_type, created_at
	`, in.Name, in.Location, in.AreaHectares, in.SoilType).Scan(
		&field.ID, &field.Name, &field.Location, &field.AreaHectares, &field.SoilType, &field.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create field: %w", err)
	}
	return &field, nil
}

func (r *FieldRepo) Get(ctx context.Context, id int64) (*domain.Field, error) {
	var field domain.Field
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, location, area_hectares, soil_type, created_at
		FROM fields
		WHERE id = $1
	`, id).Scan(
		&field.ID, &field.Name, &field.Location, &field.AreaHectares, &field.SoilType, &field.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get field: %w", err)
	}
	return &field, nil
}

func (r *FieldRepo) List(ctx context.Context) ([]domain.Field, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, location, area_hectares, soil_type, created_at
		FROM fields
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	fields := make([]domain.Field, 0)
	for rows.Next() {
		var field domain.Field
		if err := rows.Scan(
			&field.ID, &field.Name, &field.Location, &field.AreaHectares, &field.SoilType, &field.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		fields = append(fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fields: %w", err)
	}
	return fields, nil
}

func (r *FieldRepo) Update(ctx context.Context, id int64, in domain.FieldInput) (*domain.Field, error) {
	var field domain.Field
	err := r.pool.QueryRow(ctx, `
		UPDATE fields
		SET name = $2, location = $3, area_hectares = $4, soil_type = $5
		WHERE id = $1
		RETURNING id, name, location, area_hectares, soil_type, created_at
	`, id, in.Name, in.Location, in.AreaHectares, in.SoilType).Scan(
		&field.ID, &field.Name, &field.Location, &field.AreaHectares, &field.SoilType, &field.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update field: %w", err)
	}
	return &field, nil
}

func (r *FieldRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM fields WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete field: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFieldNotFound
	}
	return nil
}
