package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liaolj/iot-board/internal/domain"
)

type CropRepo struct {
	pool *pgxpool.Pool
}

func NewCropRepo(pool *pgxpool.Pool) *CropRepo {
	return &CropRepo{pool: pool}
}

func (r *CropRepo) Create(ctx context.Context, in domain.CropInput) (*domain.Crop, error) {
	var crop domain.Crop
	err := r.pool.QueryRow(ctx, `
		INSERT INTO crops (field_id, name, variety, growth_stage, planting_date, expected_harvest_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, field_id, name, variety, growth_stage, planting_date, expected_harvest_date
	`, in.FieldID, in.Name, in.Variety, in.GrowthStage, in.PlantingDate, in.ExpectedHarvestDate).Scan(
		&crop.ID, &crop.FieldID, &crop.Name, &crop.Variety, &crop.GrowthStage, &crop.PlantingDate, &crop.ExpectedHarvestDate,
	)
	if isForeignKeyViolation(err) {
		return nil, domain.ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create crop: %w", err)
	}
	return &crop, nil
}

func (r *CropRepo) Get(ctx context.Context, id int64) (*domain.Crop, error) {
	var crop domain.Crop
	err := r.pool.QueryRow(ctx, `
		SELECT id, field_id, name, variety, growth_stage, planting_date, expected_harvest_date
		FROM crops
		WHERE id = $1
	`, id).Scan(
		&crop.ID, &crop.FieldID, &crop.Name, &crop.Variety, &crop.GrowthStage, &crop.PlantingDate, &crop.ExpectedHarvestDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCropNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crop: %w", err)
	}
	return &crop, nil
}

func (r *CropRepo) List(ctx context.Context) ([]domain.Crop, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, field_id, name, variety, growth_stage, planting_date, expected_harvest_date
		FROM crops
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list crops: %w", err)
	}
	defer rows.Close()

	crops := make([]domain.Crop, 0)
	for rows.Next() {
		var crop domain.Crop
		if err := rows.Scan(
			&crop.ID, &crop.FieldID, &crop.Name, &crop.Variety, &crop.GrowthStage, &crop.PlantingDate, &crop.ExpectedHarvestDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan crop: %w", err)
		}
		crops = append(crops, crop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read crops: %w", err)
	}
	return crops, nil
}

func (r *CropRepo) Update(ctx context.Context, id int64, in domain.CropInput) (*domain.Crop, error) {
	var crop domain.Crop
	err := r.pool.QueryRow(ctx, `
		UPDATE crops
		SET field_id = $2, name = $3, variety = $4, growth_stage = $5, planting_date = $6, expected_harvest_date = $7
		WHERE id = $1
		RETURNING id, field_id, name, variety, growth_stage, planting_date, expected_harvest_date
	`, id, in.FieldID, in.Name, in.Variety, in.GrowthStage, in.PlantingDate, in.ExpectedHarvestDate).Scan(
		&crop.ID, &crop.FieldID, &crop.Name, &crop.Variety, &crop.GrowthStage, &crop.PlantingDate, &crop.ExpectedHarvestDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCropNotFound
	}
	if isForeignKeyViolation(err) {
		return nil, domain.ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update crop: %w", err)
	}
	return &crop, nil
}

func (r *CropRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM crops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete crop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCropNotFound
	}
	return nil
}
