package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/wayfarer-dev/wayfarer/pkg/history"
	"github.com/wayfarer-dev/wayfarer/pkg/route"
)

// syncState is the per-pop lifecycle of the synchronizer.
type syncState int32

const (
	stateIdle syncState = iota
	statePendingDirection
	stateAwaitingGate
	stateCommitted
	stateReverted
)

func (s syncState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case statePendingDirection:
		return "pendingDirectionUnknown"
	case stateAwaitingGate:
		return "awaitingGateDecision"
	case stateCommitted:
		return "committed"
	case stateReverted:
		return "reverted"
	}
	return "unknown"
}

// Synchronizer mediates between the browser's native, already-committed
// history movement and the engine's cooperative, vetoable navigation
// model.
//
// Pops report movements that have already happened; the synchronizer
// computes the direction, asks the pop gate through an open Decision,
// and either commits (engine follows the browser) or reverts (the
// browser is force-navigated back by the inverse delta). All native
// writes are serialized through the settle queue: a second mutation is
// never issued before the previous one is observed to have settled.
type Synchronizer struct {
	native Native
	engine *history.Engine
	table  *route.Table
	opts   *route.Options

	settle *settler

	// forced suppresses exactly one pop event: the one produced by the
	// synchronizer's own corrective Go call.
	forced atomic.Bool

	mu          sync.Mutex
	pendingPop  int // +1 forward, -1 back, 0 none
	popReverted bool
	state       syncState

	sessionID string
	popGate   history.PopGate
	onAction  func(route.Action)
	metrics   *Metrics
	tracer    *tracer
	logger    *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithPopGate sets the collaborator deciding user-initiated pops. A
// nil gate approves every pop immediately.
func WithPopGate(g history.PopGate) SyncOption {
	return func(s *Synchronizer) { s.popGate = g }
}

// WithActionSink registers the callback receiving every committed
// action, typically the host app's store dispatch.
func WithActionSink(sink func(route.Action)) SyncOption {
	return func(s *Synchronizer) { s.onAction = sink }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) SyncOption {
	return func(s *Synchronizer) { s.metrics = m }
}

// NewSynchronizer wires a synchronizer over a native browser and an
// engine, and starts consuming pop events. The caller owns native and
// engine; Close stops the event loop without closing them.
func NewSynchronizer(native Native, engine *history.Engine, tbl *route.Table, o *route.Options, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		native:    native,
		engine:    engine,
		table:     tbl,
		opts:      o,
		sessionID: uuid.NewString(),
		logger:    o.Log(),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.settle = newSettler(native, s.logger, func(tries int) {
		s.metrics.observeSettleRetries(tries)
	})
	s.tracer = newTracer()
	s.wg.Add(1)
	go s.eventLoop()
	return s
}

// SessionID returns this session's identity, created once per
// synchronizer and prefixed onto persisted state keys.
func (s *Synchronizer) SessionID() string {
	return s.sessionID
}

// Engine returns the underlying history engine.
func (s *Synchronizer) Engine() *history.Engine {
	return s.engine
}

// Close stops the event loop and the settle worker.
func (s *Synchronizer) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.settle.close()
	})
	s.wg.Wait()
	return nil
}

// =============================================================================
// Programmatic intents
// =============================================================================

// NavigateURL translates a raw URL (link click, address dispatch) and
// pushes the resulting action. The returned action is also delivered
// to the action sink on success.
func (s *Synchronizer) NavigateURL(ctx context.Context, raw string) (route.Action, error) {
	a := route.Translate(raw, s.table, s.opts)
	loc := route.ParseLocation(raw, s.opts)
	return a, s.pushEntry(ctx, history.Entry{Action: a, Location: loc})
}

// Push appends the action as a new entry and mirrors it natively.
func (s *Synchronizer) Push(ctx context.Context, a route.Action) error {
	loc, err := route.LocationForAction(a, s.table, s.opts)
	if err != nil {
		return err
	}
	return s.pushEntry(ctx, history.Entry{Action: a, Location: loc})
}

func (s *Synchronizer) pushEntry(ctx context.Context, entry history.Entry) error {
	ctx, span := s.tracer.start(ctx, "push", entry.Action)
	defer span.End()

	prev := s.engine.Current().Location.URL
	if err := s.engine.Push(ctx, entry); err != nil {
		s.metrics.veto()
		return span.fail(err)
	}
	// Wait for any stale pending transition before mutating natively.
	if err := s.waitSettle(ctx, prev); err != nil {
		return span.fail(err)
	}
	if err := s.native.Push(entry.Location.URL, s.nativeState(entry)); err != nil {
		return span.fail(err)
	}
	s.metrics.navigation("push")
	s.emit(entry.Action)
	return nil
}

// Replace overwrites the current entry and mirrors it natively.
func (s *Synchronizer) Replace(ctx context.Context, a route.Action) error {
	loc, err := route.LocationForAction(a, s.table, s.opts)
	if err != nil {
		return err
	}
	ctx, span := s.tracer.start(ctx, "replace", a)
	defer span.End()

	entry := history.Entry{Action: a, Location: loc}
	prev := s.engine.Current().Location.URL
	if err := s.engine.Replace(ctx, entry); err != nil {
		s.metrics.veto()
		return span.fail(err)
	}
	if err := s.waitSettle(ctx, prev); err != nil {
		return span.fail(err)
	}
	if err := s.native.Replace(entry.Location.URL, s.nativeState(entry)); err != nil {
		return span.fail(err)
	}
	s.metrics.navigation("replace")
	s.emit(a)
	return nil
}

// Jump moves the current index by n. A zero jump degrades to a plain
// replace so its state is still persisted. The native browser is
// force-navigated to the target and the landing entry's state is
// replaced there.
func (s *Synchronizer) Jump(ctx context.Context, n int) error {
	if n == 0 {
		return s.Replace(ctx, s.engine.Current().Action)
	}
	cur := s.engine.Current()
	ctx, span := s.tracer.start(ctx, "jump", cur.Action)
	defer span.End()

	prev := cur.Location.URL
	applied, err := s.engine.Jump(ctx, n)
	if err != nil {
		s.metrics.veto()
		return span.fail(err)
	}
	if applied == 0 {
		return nil
	}
	target := s.engine.Current()
	if err := s.waitSettle(ctx, prev); err != nil {
		return span.fail(err)
	}
	if err := s.forceGo(ctx, applied, target.Location.URL); err != nil {
		return span.fail(err)
	}
	// Landing on the target re-persists its state natively.
	if err := s.native.Replace(target.Location.URL, s.nativeState(target)); err != nil {
		return span.fail(err)
	}
	s.metrics.navigation("jump")
	s.emit(target.Action)
	return nil
}

// SetState updates the persisted state of the entry at index+offset
// without visibly leaving the current entry: force-navigate there,
// replace, and force-navigate back.
func (s *Synchronizer) SetState(ctx context.Context, offset int, st route.State) error {
	cur := s.engine.Current()
	ctx, span := s.tracer.start(ctx, "setState", cur.Action)
	defer span.End()

	if err := s.engine.SetState(ctx, offset, st); err != nil {
		if err != history.ErrOffsetBounds {
			s.metrics.veto()
		}
		return span.fail(err)
	}

	prev := cur.Location.URL
	if err := s.waitSettle(ctx, prev); err != nil {
		return span.fail(err)
	}

	if offset == 0 {
		updated := s.engine.Current()
		if err := s.native.Replace(updated.Location.URL, s.nativeState(updated)); err != nil {
			return span.fail(err)
		}
		s.metrics.navigation("setState")
		return nil
	}

	target, err := s.engine.EntryAt(s.engine.Index() + offset)
	if err != nil {
		return span.fail(err)
	}
	if err := s.forceGo(ctx, offset, target.Location.URL); err != nil {
		return span.fail(err)
	}
	if err := s.native.Replace(target.Location.URL, s.nativeState(target)); err != nil {
		return span.fail(err)
	}
	if err := s.forceGo(ctx, -offset, prev); err != nil {
		return span.fail(err)
	}
	s.metrics.navigation("setState")
	return nil
}

// Reset replaces the whole history and rebuilds the native stack from
// scratch: navigate to the first entry, replace it, push the rest,
// then move to the requested index if it is not the last.
func (s *Synchronizer) Reset(ctx context.Context, entries []history.Entry, index int) error {
	cur := s.engine.Current()
	ctx, span := s.tracer.start(ctx, "reset", cur.Action)
	defer span.End()

	preIndex := s.engine.Index()
	oldFirst := s.engine.Entries()[0].Location.URL

	if err := s.engine.Reset(ctx, entries, index); err != nil {
		if err == history.ErrEmptyReset || err == history.ErrIndexBounds {
			return span.fail(err)
		}
		s.metrics.veto()
		return span.fail(err)
	}

	if err := s.waitSettle(ctx, cur.Location.URL); err != nil {
		return span.fail(err)
	}
	if preIndex > 0 {
		if err := s.forceGo(ctx, -preIndex, oldFirst); err != nil {
			return span.fail(err)
		}
	}
	if err := s.native.Replace(entries[0].Location.URL, s.nativeState(entries[0])); err != nil {
		return span.fail(err)
	}
	for _, e := range entries[1:] {
		if err := s.native.Push(e.Location.URL, s.nativeState(e)); err != nil {
			return span.fail(err)
		}
	}
	if index != len(entries)-1 {
		if err := s.waitSettle(ctx, entries[len(entries)-1].Location.URL); err != nil {
			return span.fail(err)
		}
		if err := s.forceGo(ctx, index-(len(entries)-1), entries[index].Location.URL); err != nil {
			return span.fail(err)
		}
	}
	s.metrics.navigation("reset")
	s.emit(entries[index].Action)
	return nil
}

// =============================================================================
// Pop handling
// =============================================================================

func (s *Synchronizer) eventLoop() {
	defer s.wg.Done()
	for {
		select {
		case ev, ok := <-s.native.Events():
			if !ok {
				return
			}
			s.handlePop(ev)
		case <-s.done:
			return
		}
	}
}

// handlePop runs the per-pop state machine. The browser has already
// moved when this fires.
func (s *Synchronizer) handlePop(ev PopEvent) {
	// Our own corrective movement: suppress exactly once.
	if s.forced.CompareAndSwap(true, false) {
		return
	}

	s.mu.Lock()
	if s.pendingPop != 0 {
		s.secondPopLocked(ev)
		return
	}

	s.state = statePendingDirection
	n := s.direction(ev)
	s.pendingPop = n
	s.popReverted = false
	s.state = stateAwaitingGate
	s.mu.Unlock()

	kind := history.KindBack
	if n > 0 {
		kind = history.KindNext
	}
	s.logger.Debug("pop received", "url", ev.URL, "delta", n, "kind", kind)
	s.metrics.pop(string(kind))

	d := history.NewDecision(func() { s.revertPending() })
	s.wg.Add(1)
	go s.resolvePop(n, d)

	if s.popGate == nil {
		d.Approve()
		return
	}
	s.popGate.DecidePop(n, kind, d)
}

// secondPopLocked handles a pop arriving while another is pending.
// Whether the event reports the engine's current URL (a reversal of
// the pending pop) or some other URL (the same direction repeating),
// the correction is the same: one force-navigation by the inverse
// delta, landing the browser on the pending pop's target, with the
// gate left deciding the original direction. Called with s.mu held;
// releases it.
func (s *Synchronizer) secondPopLocked(ev PopEvent) {
	n := s.pendingPop
	cur := s.engine.Current().Location.URL
	s.mu.Unlock()

	if ev.URL == cur {
		s.logger.Debug("pop reversal while pending", "delta", -n)
	} else {
		s.logger.Debug("pop repeat while pending", "delta", n)
	}
	target := cur
	if e, err := s.engine.EntryAt(s.engine.Index() + n); err == nil {
		target = e.Location.URL
	}
	s.goAligned(-n, target)
}

// direction computes the pop direction by checking whether the
// reported URL sits at the next index.
func (s *Synchronizer) direction(ev PopEvent) int {
	idx := s.engine.Index()
	if next, err := s.engine.EntryAt(idx + 1); err == nil && next.Location.URL == ev.URL {
		return 1
	}
	return -1
}

// resolvePop waits for the gate decision and finishes the revert/
// commit protocol.
func (s *Synchronizer) resolvePop(n int, d *history.Decision) {
	defer s.wg.Done()
	select {
	case <-d.Done():
	case <-s.done:
		return
	}

	s.mu.Lock()
	reverted := s.popReverted || d.Reverted()
	s.mu.Unlock()

	ctx := context.Background()
	if d.Approved() {
		if reverted {
			// The move was optimistically undone; re-apply it now that
			// the gate agreed.
			if target, err := s.engine.EntryAt(s.engine.Index() + n); err == nil {
				s.goAlignedCtx(ctx, n, target.Location.URL)
			}
		}
		s.engine.CommitJump(n)
		s.setState(stateCommitted)
		s.metrics.popResolved("committed")
		s.emit(s.engine.Current().Action)
	} else {
		if !reverted {
			// Undo the native move the browser already made.
			s.goAlignedCtx(ctx, -n, s.engine.Current().Location.URL)
		}
		s.setState(stateReverted)
		s.metrics.popResolved("reverted")
	}

	s.mu.Lock()
	s.pendingPop = 0
	s.popReverted = false
	s.state = stateIdle
	s.mu.Unlock()
}

// revertPending is the Decision's revert hook: undo the pending pop's
// native move immediately while the decision stays open.
func (s *Synchronizer) revertPending() {
	s.mu.Lock()
	n := s.pendingPop
	if n == 0 || s.popReverted {
		s.mu.Unlock()
		return
	}
	s.popReverted = true
	s.mu.Unlock()
	s.goAligned(-n, s.engine.Current().Location.URL)
}

// =============================================================================
// Native plumbing
// =============================================================================

// forceGo issues a native relative movement with the pop suppression
// flag raised, then waits for the browser to settle on target.
func (s *Synchronizer) forceGo(ctx context.Context, n int, target string) error {
	if n == 0 {
		return nil
	}
	s.forced.Store(true)
	if err := s.native.Go(n); err != nil {
		s.forced.Store(false)
		return err
	}
	err := s.settle.Wait(ctx, target)
	if err != nil {
		// The move never settled, e.g. a Go clamped to a no-op by a
		// shorter real stack. No pop event will arrive to consume the
		// suppression flag, so the next genuine user pop must not be
		// swallowed by it.
		s.forced.CompareAndSwap(true, false)
	}
	return s.settleResult(err, target)
}

// goAligned is forceGo with a background context, for paths driven by
// pop events rather than callers.
func (s *Synchronizer) goAligned(n int, target string) {
	s.goAlignedCtx(context.Background(), n, target)
}

func (s *Synchronizer) goAlignedCtx(ctx context.Context, n int, target string) {
	if err := s.forceGo(ctx, n, target); err != nil {
		s.logger.Error("corrective navigation failed", "delta", n, "target", target, "err", err)
	}
}

// waitSettle runs a serialized settle wait.
func (s *Synchronizer) waitSettle(ctx context.Context, target string) error {
	return s.settleResult(s.settle.Wait(ctx, target), target)
}

// settleResult applies the timeout policy: fatal only in strict mode,
// otherwise logged and swallowed, a stale URL being preferable to a
// crash in a host app.
func (s *Synchronizer) settleResult(err error, target string) error {
	if err == nil {
		return nil
	}
	if err == ErrSettleTimeout {
		s.metrics.settleTimeout()
		if s.opts != nil && s.opts.Strict {
			return fmt.Errorf("strict mode: %w (target %q)", err, target)
		}
		s.logger.Warn("settle timeout swallowed", "target", target)
		return nil
	}
	return err
}

// nativeState builds the state object persisted with a native entry.
func (s *Synchronizer) nativeState(entry history.Entry) NativeState {
	return NativeState{
		SessionID: s.sessionID,
		Key:       entry.Location.Key,
		State:     entry.Action.State,
	}
}

func (s *Synchronizer) emit(a route.Action) {
	if s.onAction != nil {
		s.onAction(a)
	}
}

func (s *Synchronizer) setState(st syncState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// State returns the current pop lifecycle state, for diagnostics.
func (s *Synchronizer) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.String()
}
