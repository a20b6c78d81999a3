package browser

import "github.com/wayfarer-dev/wayfarer/pkg/route"

// NativeState is the state object attached to every native history
// entry. The session id distinguishes concurrent tabs sharing one
// storage origin; the key ties the native entry back to its Location.
type NativeState struct {
	SessionID string      `json:"id"`
	Key       string      `json:"key"`
	State     route.State `json:"state,omitempty"`
}

// PopEvent reports a browser-initiated back/forward navigation. It
// fires only after the browser has already moved.
type PopEvent struct {
	// URL is the path+search+hash the browser reports after moving.
	URL string

	// State is the native state stored at the new position.
	State NativeState

	// HashChange marks events originating from a hashchange rather
	// than a popstate.
	HashChange bool
}

// Native is the browser history boundary: the process-wide singleton
// the synchronizer writes through. Implementations must tolerate one
// logical writer at a time; serialization is the synchronizer's job.
type Native interface {
	// URL returns the currently visible path+search+hash.
	URL() string

	// Push appends a new native entry and makes it current.
	Push(url string, state NativeState) error

	// Replace overwrites the current native entry.
	Replace(url string, state NativeState) error

	// Go moves by a relative delta. The resulting movement is
	// reported asynchronously as a PopEvent, exactly as a real
	// browser fires popstate for history.go.
	Go(n int) error

	// Events delivers pop events in arrival order.
	Events() <-chan PopEvent

	// Close releases the implementation's resources.
	Close() error
}
