// Package history implements the in-memory history engine at the core
// of the navigation stack: an ordered sequence of committed entries,
// an index pointing at the current one, and vetoable navigation
// intents (push, replace, jump, set-state, reset).
//
// The engine knows nothing about browsers. Native synchronization is
// layered on top by package browser, which commits pop-driven jumps
// through the engine after the gate decision resolves.
//
// Every intent consults the configured Gate before mutating; a vetoed
// intent leaves entries and index untouched and returns ErrVetoed.
// Pop decisions use the asynchronous Decision object instead, which
// supports the revert/commit protocol: Revert undoes the native move
// while the decision is still open, Approve re-applies it, Reject
// leaves it undone.
package history
