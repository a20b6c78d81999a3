package storage

import (
	"context"
	"errors"

	"github.com/wayfarer-dev/wayfarer/pkg/history"
	"github.com/wayfarer-dev/wayfarer/pkg/route"
)

// Restore loads the session's persisted history, falling back to a
// fresh single-entry snapshot translated from defaultURL when nothing
// was saved. Any snapshot with a corrupt index is discarded rather
// than surfaced: a bad restore must never prevent startup.
func Restore(ctx context.Context, store Store, sessionID, defaultURL string, tbl *route.Table, o *route.Options) (Snapshot, error) {
	snap, err := store.Load(ctx, sessionID)
	switch {
	case err == nil:
		if len(snap.Entries) > 0 && snap.Index >= 0 && snap.Index < len(snap.Entries) {
			return snap, nil
		}
		o.Log().Warn("discarding corrupt history snapshot",
			"session", sessionID, "index", snap.Index, "entries", len(snap.Entries))
	case errors.Is(err, ErrNotFound):
	default:
		return Snapshot{}, err
	}

	return Snapshot{
		Index: 0,
		Entries: []history.Entry{{
			Action:   route.Translate(defaultURL, tbl, o),
			Location: route.ParseLocation(defaultURL, o),
		}},
	}, nil
}

// Save persists the engine's current sequence for the session.
func Save(ctx context.Context, store Store, sessionID string, e *history.Engine) error {
	return store.Save(ctx, sessionID, Snapshot{
		Index:   e.Index(),
		Entries: e.Entries(),
	})
}

// NewEngine builds an engine from a snapshot. An empty snapshot, e.g.
// the zero value a failed Load leaves behind, yields a single root
// entry rather than panicking.
func NewEngine(snap Snapshot, opts ...history.EngineOption) *history.Engine {
	if len(snap.Entries) == 0 {
		snap = Snapshot{Entries: []history.Entry{{
			Action:   route.Action{Type: route.NotFound},
			Location: route.Location{Pathname: "/", URL: "/"},
		}}}
	}
	opts = append(opts, history.WithEntries(snap.Entries, snap.Index))
	return history.NewEngine(snap.Entries[0], opts...)
}
