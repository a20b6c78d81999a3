package storage

import (
	"context"
	"errors"

	"github.com/wayfarer-dev/wayfarer/pkg/history"
)

// Store errors.
var (
	// ErrNotFound reports that no snapshot exists for the session.
	ErrNotFound = errors.New("storage: snapshot not found")
)

// Snapshot is one session's persisted navigation history.
type Snapshot struct {
	Index   int             `json:"index"`
	Entries []history.Entry `json:"entries"`
}

// Store persists navigation snapshots keyed by session id, so a
// reloaded tab can restore its full back/forward stack.
type Store interface {
	// Save persists the snapshot for sessionID, overwriting any
	// previous one.
	Save(ctx context.Context, sessionID string, snap Snapshot) error

	// Load retrieves the snapshot for sessionID. Returns ErrNotFound
	// when the session has never been saved.
	Load(ctx context.Context, sessionID string) (Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
