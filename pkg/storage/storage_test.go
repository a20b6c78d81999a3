package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/wayfarer-dev/wayfarer/pkg/history"
	"github.com/wayfarer-dev/wayfarer/pkg/route"
)

func testRoutes(t *testing.T) (*route.Table, *route.Options) {
	t.Helper()
	tbl := route.MustTable(
		&route.Route{Type: "HOME", Path: "/"},
		&route.Route{Type: "USER", Path: "/users/:id"},
	)
	return tbl, route.NewOptions()
}

func entryFor(t *testing.T, url string, tbl *route.Table, o *route.Options) history.Entry {
	t.Helper()
	return history.Entry{
		Action:   route.Translate(url, tbl, o),
		Location: route.ParseLocation(url, o),
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	tbl, o := testRoutes(t)
	store := NewMemoryStore()
	ctx := context.Background()

	snap := Snapshot{
		Index: 1,
		Entries: []history.Entry{
			entryFor(t, "/", tbl, o),
			entryFor(t, "/users/42", tbl, o),
		},
	}
	if err := store.Save(ctx, "sess-1", snap); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	got, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if got.Index != 1 || len(got.Entries) != 2 {
		t.Fatalf("loaded snapshot = index %d, %d entries, want 1/2", got.Index, len(got.Entries))
	}
	if got.Entries[1].Action.Type != "USER" {
		t.Errorf("entry type = %q, want USER", got.Entries[1].Action.Type)
	}
	if got.Entries[1].Location.URL != "/users/42" {
		t.Errorf("entry URL = %q, want /users/42", got.Entries[1].Location.URL)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() = %v, want ErrNotFound", err)
	}
}

func TestRestoreFallsBackToDefault(t *testing.T) {
	tbl, o := testRoutes(t)
	store := NewMemoryStore()

	snap, err := Restore(context.Background(), store, "fresh", "/users/7", tbl, o)
	if err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if len(snap.Entries) != 1 || snap.Index != 0 {
		t.Fatalf("snapshot = index %d, %d entries, want 0/1", snap.Index, len(snap.Entries))
	}
	if got := snap.Entries[0].Action.Type; got != "USER" {
		t.Errorf("default action type = %q, want USER", got)
	}
}

func TestRestoreDiscardsCorruptSnapshot(t *testing.T) {
	tbl, o := testRoutes(t)
	store := NewMemoryStore()
	ctx := context.Background()

	bad := Snapshot{Index: 5, Entries: []history.Entry{entryFor(t, "/", tbl, o)}}
	if err := store.Save(ctx, "sess", bad); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	snap, err := Restore(ctx, store, "sess", "/", tbl, o)
	if err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if snap.Index != 0 || len(snap.Entries) != 1 || snap.Entries[0].Action.Type != "HOME" {
		t.Errorf("corrupt snapshot not replaced by default: %+v", snap)
	}
}

func TestSaveRestoreEngine(t *testing.T) {
	tbl, o := testRoutes(t)
	store := NewMemoryStore()
	ctx := context.Background()

	e := history.NewEngine(entryFor(t, "/", tbl, o))
	if err := e.Push(ctx, entryFor(t, "/users/9", tbl, o)); err != nil {
		t.Fatalf("Push() = %v", err)
	}
	if err := Save(ctx, store, "sess", e); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	snap, err := Restore(ctx, store, "sess", "/", tbl, o)
	if err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	restored := NewEngine(snap)
	if restored.Index() != 1 || restored.Length() != 2 {
		t.Errorf("restored engine = index %d length %d, want 1/2", restored.Index(), restored.Length())
	}
	if got := restored.Current().Action.Type; got != "USER" {
		t.Errorf("restored current = %q, want USER", got)
	}
}

func TestNewEngineEmptySnapshot(t *testing.T) {
	// The zero value a failed Load leaves behind, fed straight to
	// NewEngine without going through Restore.
	e := NewEngine(Snapshot{})
	if e.Length() != 1 || e.Index() != 0 {
		t.Fatalf("engine = index %d length %d, want 0/1", e.Index(), e.Length())
	}
	if got := e.Current().Location.URL; got != "/" {
		t.Errorf("root entry URL = %q, want /", got)
	}
	if got := e.Current().Action.Type; got != route.NotFound {
		t.Errorf("root entry type = %q, want %q", got, route.NotFound)
	}
}
