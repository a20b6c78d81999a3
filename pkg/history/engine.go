package history

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/wayfarer-dev/wayfarer/pkg/route"
)

// Engine mutation errors.
var (
	ErrEmptyReset   = errors.New("history: reset requires at least one entry")
	ErrIndexBounds  = errors.New("history: index out of bounds")
	ErrOffsetBounds = errors.New("history: offset out of bounds")
)

// Entry is a committed action plus the location it occupies. One
// action corresponds to exactly one entry once committed.
type Entry struct {
	Action   route.Action   `json:"action"`
	Location route.Location `json:"location"`
}

// Engine holds the ordered navigation entries and the current index.
// It dispatches navigation intents without any browser coupling.
//
// Invariant: 0 <= index < len(entries) whenever entries is non-empty.
// Entries are append/truncate-only except for Reset, which replaces
// the whole sequence atomically.
type Engine struct {
	mu      sync.Mutex
	entries []Entry
	index   int
	gate    Gate
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithGate sets the gate consulted before every intent.
func WithGate(g Gate) EngineOption {
	return func(e *Engine) { e.gate = g }
}

// WithEngineLogger sets the structured logger.
func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithEntries seeds the engine with a restored sequence, e.g. from
// session storage.
func WithEntries(entries []Entry, index int) EngineOption {
	return func(e *Engine) {
		if len(entries) == 0 {
			return
		}
		e.entries = append([]Entry(nil), entries...)
		e.index = clamp(index, 0, len(entries)-1)
	}
}

// NewEngine creates an engine holding the initial entry.
func NewEngine(initial Entry, opts ...EngineOption) *Engine {
	e := &Engine{
		entries: []Entry{initial},
		index:   0,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Entries returns a copy of the entry sequence.
func (e *Engine) Entries() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Entry(nil), e.entries...)
}

// Index returns the current index.
func (e *Engine) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// Length returns the number of entries.
func (e *Engine) Length() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}

// Current returns the entry at the current index.
func (e *Engine) Current() Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.entries[e.index]
}

// EntryAt returns the entry at index i.
func (e *Engine) EntryAt(i int) (Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.entries) {
		return Entry{}, ErrIndexBounds
	}
	return e.entries[i], nil
}

// CanBack reports whether a back movement is possible.
func (e *Engine) CanBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index > 0
}

// CanNext reports whether a forward movement is possible.
func (e *Engine) CanNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index < len(e.entries)-1
}

// Push appends entry after the current index, truncating any forward
// entries: new navigation after going back discards the abandoned
// branch.
func (e *Engine) Push(ctx context.Context, entry Entry) error {
	if err := e.allow(ctx, Intent{Kind: KindPush, Action: &entry.Action}); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries[:e.index+1], entry)
	e.index = len(e.entries) - 1
	e.logger.Debug("history push",
		"type", entry.Action.Type, "url", entry.Location.URL,
		"index", e.index, "length", len(e.entries))
	return nil
}

// Replace overwrites the entry at the current index. The sequence
// length never changes.
func (e *Engine) Replace(ctx context.Context, entry Entry) error {
	if err := e.allow(ctx, Intent{Kind: KindReplace, Action: &entry.Action}); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries[e.index] = entry
	e.logger.Debug("history replace",
		"type", entry.Action.Type, "url", entry.Location.URL, "index", e.index)
	return nil
}

// Jump moves the index by a relative delta, clamped to valid bounds,
// without altering entry contents. It returns the applied (clamped)
// delta.
func (e *Engine) Jump(ctx context.Context, n int) (int, error) {
	e.mu.Lock()
	applied := clamp(e.index+n, 0, len(e.entries)-1) - e.index
	e.mu.Unlock()
	if applied == 0 {
		return 0, nil
	}
	if err := e.allow(ctx, Intent{Kind: KindJump, Delta: applied}); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.index = clamp(e.index+applied, 0, len(e.entries)-1)
	return applied, nil
}

// CommitJump moves the index by delta without consulting the gate. It
// is used by the synchronization layer to commit a pop whose Decision
// already resolved, so permission is not asked twice. Returns the
// applied delta.
func (e *Engine) CommitJump(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	target := clamp(e.index+n, 0, len(e.entries)-1)
	applied := target - e.index
	e.index = target
	return applied
}

// SetState merges state onto the entry at index+offset without moving
// the index.
func (e *Engine) SetState(ctx context.Context, offset int, st route.State) error {
	e.mu.Lock()
	target := e.index + offset
	if target < 0 || target >= len(e.entries) {
		e.mu.Unlock()
		return ErrOffsetBounds
	}
	e.mu.Unlock()

	if err := e.allow(ctx, Intent{Kind: KindSetState, Delta: offset}); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	target = e.index + offset
	if target < 0 || target >= len(e.entries) {
		return ErrOffsetBounds
	}
	entry := &e.entries[target]
	if entry.Action.State == nil {
		entry.Action.State = route.State{}
	}
	for k, v := range st {
		entry.Action.State[k] = v
	}
	return nil
}

// Reset replaces the whole sequence atomically, used for full history
// restoration.
func (e *Engine) Reset(ctx context.Context, entries []Entry, index int) error {
	if len(entries) == 0 {
		return ErrEmptyReset
	}
	if index < 0 || index >= len(entries) {
		return ErrIndexBounds
	}
	if err := e.allow(ctx, Intent{Kind: KindReset}); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append([]Entry(nil), entries...)
	e.index = index
	e.logger.Debug("history reset", "length", len(entries), "index", index)
	return nil
}

// allow consults the gate; a nil gate approves everything.
func (e *Engine) allow(ctx context.Context, intent Intent) error {
	if e.gate == nil {
		return nil
	}
	if err := e.gate.Allow(ctx, intent); err != nil {
		e.logger.Debug("history intent vetoed", "kind", intent.Kind, "err", err)
		return err
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
