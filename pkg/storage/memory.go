package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps snapshots in process memory. It round-trips
// through JSON so stored snapshots behave exactly like ones read back
// from a remote store.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: map[string][]byte{}}
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, sessionID string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.snaps[sessionID] = raw
	m.mu.Unlock()
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, sessionID string) (Snapshot, error) {
	m.mu.RLock()
	raw, ok := m.snaps[sessionID]
	m.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
