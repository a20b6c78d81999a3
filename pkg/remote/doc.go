// Package remote exposes a live browser over a websocket as a
// browser.Native. The client owns the real history stack; the server
// drives it with push/replace/go frames and learns its position from
// location and pop frames coming back. Handler and Mount integrate the
// endpoint with net/http and chi.
package remote
