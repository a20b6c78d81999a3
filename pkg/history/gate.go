package history

import (
	"context"
	"errors"

	"github.com/wayfarer-dev/wayfarer/pkg/route"
)

// ErrVetoed reports that the gate rejected a navigation intent. It is
// a normal control-flow outcome, not a failure: the caller's state is
// untouched and, for pops, the revert path runs.
var ErrVetoed = errors.New("history: navigation vetoed")

// Kind identifies a navigation intent.
type Kind string

const (
	KindPush     Kind = "push"
	KindReplace  Kind = "replace"
	KindJump     Kind = "jump"
	KindSetState Kind = "setState"
	KindReset    Kind = "reset"
	KindBack     Kind = "back"
	KindNext     Kind = "next"
)

// Intent describes one navigation request presented to the gate.
type Intent struct {
	// Kind is the operation being attempted.
	Kind Kind

	// Action is the target action for push/replace intents.
	Action *route.Action

	// Delta is the relative index movement for jump intents, already
	// clamped to the valid range.
	Delta int
}

// Gate approves or vetoes navigation intents before the engine
// mutates. Returning nil approves; any error vetoes and is surfaced
// to the caller (ErrVetoed by convention). Allow may block on
// asynchronous lifecycle work; the context bounds that wait.
type Gate interface {
	Allow(ctx context.Context, intent Intent) error
}

// GateFunc adapts a function to the Gate interface.
type GateFunc func(ctx context.Context, intent Intent) error

// Allow implements Gate.
func (f GateFunc) Allow(ctx context.Context, intent Intent) error {
	return f(ctx, intent)
}

// PopGate decides user-initiated back/forward pops. Unlike Allow it is
// inherently asynchronous: the browser has already moved when the pop
// is reported, so the gate receives an open Decision and resolves it
// whenever its checks complete.
type PopGate interface {
	DecidePop(delta int, kind Kind, d *Decision)
}

// PopGateFunc adapts a function to the PopGate interface.
type PopGateFunc func(delta int, kind Kind, d *Decision)

// DecidePop implements PopGate.
func (f PopGateFunc) DecidePop(delta int, kind Kind, d *Decision) {
	f(delta, kind, d)
}
