// Package checkpoints persists workflow progress snapshots so that a
// restarted driver can reload the last completed step and resume instead
// of replaying from the beginning.
package checkpoints

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates no snapshot exists for the instance.
var ErrNotFound = errors.New("checkpoint not found")

// Snapshot is the durable record of one workflow instance's progress:
// the current step, the document/segment cursor within it, the
// accumulated result, and any step-local scratch state needed to resume.
// It is overwritten after every transition.
type Snapshot struct {
	InstanceID uuid.UUID       `json:"instance_id"`
	Workflow   string          `json:"workflow"`
	Step       string          `json:"step"`
	Document   int             `json:"document"`
	Segment    int             `json:"segment"`
	Result     json.RawMessage `json:"result"`
	Scratch    json.RawMessage `json:"scratch"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Store persists and retrieves workflow snapshots.
type Store interface {
	// Save upserts the snapshot for its instance.
	Save(ctx context.Context, snap *Snapshot) error
	// Load returns the snapshot for an instance, or ErrNotFound.
	Load(ctx context.Context, instanceID uuid.UUID) (*Snapshot, error)
}
