package remote

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// HandlerConfig configures the websocket endpoint.
type HandlerConfig struct {
	// ReadBufferSize is the websocket read buffer (default 1024).
	ReadBufferSize int

	// WriteBufferSize is the websocket write buffer (default 1024).
	WriteBufferSize int

	// CheckOrigin validates the Origin header. Default rejects
	// cross-origin upgrades.
	CheckOrigin func(*http.Request) bool

	// Logger is the structured logger (default slog.Default).
	Logger *slog.Logger
}

// HandlerOption configures the websocket endpoint.
type HandlerOption func(*HandlerConfig)

// WithBufferSizes sets the websocket buffer sizes.
func WithBufferSizes(read, write int) HandlerOption {
	return func(c *HandlerConfig) {
		c.ReadBufferSize = read
		c.WriteBufferSize = write
	}
}

// WithCheckOrigin sets the origin check.
func WithCheckOrigin(check func(*http.Request) bool) HandlerOption {
	return func(c *HandlerConfig) { c.CheckOrigin = check }
}

// WithHandlerLogger sets the structured logger.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(c *HandlerConfig) { c.Logger = l }
}

func defaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Logger:          slog.Default(),
	}
}

// Handler upgrades requests to websocket connections and hands each
// one to onConn as a ready Conn. onConn runs on the request goroutine
// and should block until the session ends.
//
// The initial URL is taken from the "url" query parameter, so the
// client opens e.g. /ws?url=/users/42 to report where it already is.
// A returning client passes its previous session id as "session" to
// have its history restored.
func Handler(onConn func(*Conn), opts ...HandlerOption) http.Handler {
	config := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&config)
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  config.ReadBufferSize,
		WriteBufferSize: config.WriteBufferSize,
		CheckOrigin:     config.CheckOrigin,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			config.Logger.Warn("websocket upgrade failed", "err", err)
			return
		}
		initial := r.URL.Query().Get("url")
		if initial == "" {
			initial = "/"
		}
		conn := NewConn(ws, initial, config.Logger)
		conn.sessionID = r.URL.Query().Get("session")
		defer conn.Close()
		onConn(conn)
	})
}

// Mount attaches the websocket endpoint to a chi router at path.
//
//	r := chi.NewRouter()
//	remote.Mount(r, "/ws", func(conn *remote.Conn) {
//	    sess := newSession(conn)
//	    <-conn.Done()
//	    sess.teardown()
//	})
func Mount(r chi.Router, path string, onConn func(*Conn), opts ...HandlerOption) {
	r.Handle(path, Handler(onConn, opts...))
}
