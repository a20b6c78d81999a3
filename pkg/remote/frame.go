package remote

import (
	"fmt"

	"github.com/wayfarer-dev/wayfarer/pkg/browser"
)

// Frame ops, server to client.
const (
	OpPush    = "push"
	OpReplace = "replace"
	OpGo      = "go"
)

// Frame events, client to server.
const (
	EventLocation   = "location"
	EventPop        = "pop"
	EventHashChange = "hashchange"
)

// Frame is the wire message exchanged with the browser client. Server
// frames carry an op; client frames carry an event. Unused fields are
// omitted.
type Frame struct {
	Op    string               `json:"op,omitempty"`
	Event string               `json:"event,omitempty"`
	URL   string               `json:"url,omitempty"`
	Delta int                  `json:"delta,omitempty"`
	State *browser.NativeState `json:"state,omitempty"`
}

// validate rejects client frames the read loop cannot act on.
func (f Frame) validate() error {
	switch f.Event {
	case EventLocation, EventPop, EventHashChange:
		if f.URL == "" {
			return fmt.Errorf("remote: %s frame without url", f.Event)
		}
		return nil
	case "":
		return fmt.Errorf("remote: frame without event")
	default:
		return fmt.Errorf("remote: unknown event %q", f.Event)
	}
}
