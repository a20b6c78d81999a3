package history

import "sync"

// Decision is the awaitable outcome of a pop navigation. The
// synchronization layer creates one per in-flight pop and hands it to
// the application's PopGate; the gate resolves it with Approve or
// Reject once its checks (unsaved-changes prompts, lifecycle hooks)
// complete.
//
// Revert may be called before resolving: it undoes the native browser
// move immediately while the decision stays open. Approving a
// reverted decision re-applies the move; rejecting it leaves the
// browser where the revert put it. Resolution is first-wins and
// idempotent.
type Decision struct {
	mu       sync.Mutex
	resolved bool
	approved bool
	reverted bool
	revert   func()
	done     chan struct{}
}

// NewDecision creates an open decision. revert is invoked at most
// once, on the first Revert call before resolution.
func NewDecision(revert func()) *Decision {
	return &Decision{
		revert: revert,
		done:   make(chan struct{}),
	}
}

// Approve resolves the decision as committed. No-op if already
// resolved.
func (d *Decision) Approve() {
	d.resolve(true)
}

// Reject resolves the decision as vetoed. No-op if already resolved.
func (d *Decision) Reject() {
	d.resolve(false)
}

// Revert undoes the native move while keeping the decision open. It
// runs the revert hook at most once and does nothing after
// resolution.
func (d *Decision) Revert() {
	d.mu.Lock()
	if d.resolved || d.reverted {
		d.mu.Unlock()
		return
	}
	d.reverted = true
	f := d.revert
	d.mu.Unlock()
	if f != nil {
		f()
	}
}

// Done is closed once the decision resolves.
func (d *Decision) Done() <-chan struct{} {
	return d.done
}

// Approved reports the resolution. Only meaningful after Done.
func (d *Decision) Approved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.approved
}

// Reverted reports whether the native move was undone before
// resolution.
func (d *Decision) Reverted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reverted
}

func (d *Decision) resolve(approved bool) {
	d.mu.Lock()
	if d.resolved {
		d.mu.Unlock()
		return
	}
	d.resolved = true
	d.approved = approved
	d.mu.Unlock()
	close(d.done)
}
