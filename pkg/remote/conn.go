package remote

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wayfarer-dev/wayfarer/pkg/browser"
)

// ErrConnClosed reports a write on a closed connection.
var ErrConnClosed = errors.New("remote: connection closed")

// Conn is a browser.Native backed by a live websocket client. The
// client owns the real history stack: Push/Replace/Go are sent as
// frames, and the reported URL only advances when the client sends a
// location or pop frame back. The settle loop therefore measures real
// client round-trips, not local bookkeeping.
type Conn struct {
	ws        *websocket.Conn
	logger    *slog.Logger
	sessionID string

	writeMu sync.Mutex

	mu      sync.Mutex
	lastURL string

	events chan browser.PopEvent

	closeOnce sync.Once
	closed    chan struct{}
}

// NewConn wraps an upgraded websocket connection and starts its read
// loop. initialURL seeds the reported URL until the client's first
// location frame.
func NewConn(ws *websocket.Conn, initialURL string, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Conn{
		ws:      ws,
		logger:  logger,
		lastURL: initialURL,
		events:  make(chan browser.PopEvent, 64),
		closed:  make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Conn) readLoop() {
	defer c.Close()
	for {
		var f Frame
		if err := c.ws.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("websocket read failed", "err", err)
			}
			return
		}
		if err := f.validate(); err != nil {
			c.logger.Warn("dropping bad frame", "err", err)
			continue
		}

		c.mu.Lock()
		c.lastURL = f.URL
		c.mu.Unlock()

		if f.Event == EventLocation {
			continue
		}
		ev := browser.PopEvent{
			URL:        f.URL,
			HashChange: f.Event == EventHashChange,
		}
		if f.State != nil {
			ev.State = *f.State
		}
		select {
		case c.events <- ev:
		case <-c.closed:
			return
		}
	}
}

func (c *Conn) send(f Frame) error {
	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(f)
}

// URL implements browser.Native. It returns the last URL the client
// reported, not the last one sent.
func (c *Conn) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastURL
}

// Push implements browser.Native.
func (c *Conn) Push(url string, state browser.NativeState) error {
	return c.send(Frame{Op: OpPush, URL: url, State: &state})
}

// Replace implements browser.Native.
func (c *Conn) Replace(url string, state browser.NativeState) error {
	return c.send(Frame{Op: OpReplace, URL: url, State: &state})
}

// Go implements browser.Native. The resulting movement comes back as a
// pop frame, exactly like a real history.go call fires popstate.
func (c *Conn) Go(n int) error {
	return c.send(Frame{Op: OpGo, Delta: n})
}

// Events implements browser.Native.
func (c *Conn) Events() <-chan browser.PopEvent {
	return c.events
}

// Close implements browser.Native.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.ws.Close()
	})
	return err
}

// Done is closed when the connection ends, for session teardown.
func (c *Conn) Done() <-chan struct{} {
	return c.closed
}

// SessionID returns the session id the client identified itself with,
// or "" for a fresh session.
func (c *Conn) SessionID() string {
	return c.sessionID
}
