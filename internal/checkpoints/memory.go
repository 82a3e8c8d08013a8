package checkpoints

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process checkpoint store. It offers no durability
// across restarts and exists for tests and for running the pipeline
// without a database.
type Memory struct {
	mu    sync.RWMutex
	snaps map[uuid.UUID]Snapshot
}

// NewMemory creates an empty in-memory checkpoint store.
func NewMemory() *Memory {
	return &Memory{snaps: make(map[uuid.UUID]Snapshot)}
}

func (m *Memory) Save(_ context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap.UpdatedAt = time.Now().UTC()
	m.snaps[snap.InstanceID] = *snap
	return nil
}

func (m *Memory) Load(_ context.Context, instanceID uuid.UUID) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[instanceID]
	if !ok {
		return nil, ErrNotFound
	}
	return &snap, nil
}
