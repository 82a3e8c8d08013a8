package checkpoints

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the PostgreSQL-backed checkpoint store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a checkpoint repository over the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Save(ctx context.Context, snap *Snapshot) error {
	snap.UpdatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO workflow_checkpoints
			(instance_id, workflow, step, document_index, segment_index, result, scratch, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (instance_id) DO UPDATE SET
			workflow = EXCLUDED.workflow,
			step = EXCLUDED.step,
			document_index = EXCLUDED.document_index,
			segment_index = EXCLUDED.segment_index,
			result = EXCLUDED.result,
			scratch = EXCLUDED.scratch,
			updated_at = EXCLUDED.updated_at`,
		snap.InstanceID,
		snap.Workflow,
		snap.Step,
		snap.Document,
		snap.Segment,
		snap.Result,
		snap.Scratch,
		snap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", snap.InstanceID, err)
	}

	return nil
}

func (r *Repository) Load(ctx context.Context, instanceID uuid.UUID) (*Snapshot, error) {
	var snap Snapshot

	err := r.pool.QueryRow(ctx, `
		SELECT instance_id, workflow, step, document_index, segment_index, result, scratch, updated_at
		FROM workflow_checkpoints
		WHERE instance_id = $1`,
		instanceID,
	).Scan(
		&snap.InstanceID,
		&snap.Workflow,
		&snap.Step,
		&snap.Document,
		&snap.Segment,
		&snap.Result,
		&snap.Scratch,
		&snap.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load checkpoint %s: %w", instanceID, err)
	}

	return &snap, nil
}
