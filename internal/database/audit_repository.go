package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepo records broadcast envelopes in the realtime dispatch log.
// Writes are best-effort from the caller's point of view; the repo itself
// just reports failure.
type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Insert(ctx context.Context, eventType string, payload map[string]any) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO realtime_dispatch_log (event_type, payload)
		VALUES ($1, $2)
	`, eventType, payload)
	if err != nil {
		return fmt.Errorf("failed to insert dispatch log entry: %w", err)
	}
	return nil
}
