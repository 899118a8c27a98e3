package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liaolj/iot-board/internal/domain"
)

type OperationRepo struct {
	pool *pgxpool.Pool
}

func NewOperationRepo(pool *pgxpool.Pool) *OperationRepo {
	return &OperationRepo{pool: pool}
}

func (r *OperationRepo) Create(ctx context.Context, in domain.OperationInput) (*domain.Operation, error) {
	var op domain.Operation
	err := r.pool.QueryRow(ctx, `
		INSERT INTO operations (field_id, crop_id, operation_type, description, operator, performed_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
		RETURNING id, field_id, crop_id, operation_type, description, operator, performed_at
	`, in.FieldID, in.CropID, in.OperationType, in.Description, in.Operator, in.PerformedAt).Scan(
		&op.ID, &op.FieldID, &op.CropID, &op.OperationType, &op.Description, &op.Operator, &op.PerformedAt,
	)
	if isForeignKeyViolation(err) {
		return nil, domain.ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create operation: %w", err)
	}
	return &op, nil
}

func (r *OperationRepo) Get(ctx context.Context, id int64) (*domain.Operation, error) {
	var op domain.Operation
	err := r.pool.QueryRow(ctx, `
		SELECT id, field_id, crop_id, operation_type, description, operator, performed_at
		FROM operations
		WHERE id = $1
	`, id).Scan(
		&op.ID, &op.FieldID, &op.CropID, &op.OperationType, &op.Description, &op.Operator, &op.PerformedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOperationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}
	return &op, nil
}

func (r *OperationRepo) List(ctx context.Context) ([]domain.Operation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, field_id, crop_id, operation_type, description, operator, performed_at
		FROM operations
		ORDER BY performed_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	ops := make([]domain.Operation, 0)
	for rows.Next() {
		var op domain.Operation
		if err := rows.Scan(
			&op.ID, &op.FieldID, &op.CropID, &op.OperationType, &op.Description, &op.Operator, &op.PerformedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read operations: %w", err)
	}
	return ops, nil
}

func (r *OperationRepo) Update(ctx context.Context, id int64, in domain.OperationInput) (*domain.Operation, error) {
	var op domain.Operation
	err := r.pool.QueryRow(ctx, `
		UPDATE operations
		SET field_id = $2, crop_id = $3, operation_type = $4, description = $5, operator = $6,
		    performed_at = COALESCE($7, performed_at)
		WHERE id = $1
		RETURNING id, field_id, crop_id, operation_type, description, operator, performed_at
	`, id, in.FieldID, in.CropID, in.OperationType, in.Description, in.Operator, in.PerformedAt).Scan(
		&op.ID, &op.FieldID, &op.CropID, &op.OperationType, &op.Description, &op.Operator, &op.PerformedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOperationNotFound
	}
	if isForeignKeyViolation(err) {
		return nil, domain.ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update operation: %w", err)
	}
	return &op, nil
}

func (r *OperationRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOperationNotFound
	}
	return nil
}
