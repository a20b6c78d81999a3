// Package navtest provides testing helpers for navigation code.
//
// It reduces boilerplate when testing gates and synchronizer wiring by
// providing canned pop gates, a fluent harness builder, and polling
// assertions for the asynchronous pop protocol.
//
//	func TestUnsavedChangesPrompt(t *testing.T) {
//	    h := navtest.NewHarness(t,
//	        navtest.WithRoutes(
//	            &route.Route{Type: "LIST", Path: "/items"},
//	            &route.Route{Type: "EDIT", Path: "/items/:id/edit"},
//	        ),
//	        navtest.WithHistory("/items", "/items/3/edit"),
//	        navtest.WithPopGate(navtest.RejectAll()),
//	    )
//	    h.Back()
//	    h.ExpectURL("/items/3/edit")
//	    h.ExpectIndex(1)
//	}
package navtest

import (
	"context"
	"testing"
	"time"

	"github.com/wayfarer-dev/wayfarer/pkg/browser"
	"github.com/wayfarer-dev/wayfarer/pkg/history"
	"github.com/wayfarer-dev/wayfarer/pkg/route"
)

// ApproveAll returns a pop gate approving every pop immediately.
func ApproveAll() history.PopGate {
	return history.PopGateFunc(func(_ int, _ history.Kind, d *history.Decision) {
		d.Approve()
	})
}

// RejectAll returns a pop gate rejecting every pop immediately.
func RejectAll() history.PopGate {
	return history.PopGateFunc(func(_ int, _ history.Kind, d *history.Decision) {
		d.Reject()
	})
}

// Manual is a pop gate that parks every decision for the test to
// resolve explicitly.
type Manual struct {
	decisions chan *history.Decision
}

// NewManual creates a manual pop gate.
func NewManual() *Manual {
	return &Manual{decisions: make(chan *history.Decision, 8)}
}

// DecidePop implements history.PopGate.
func (m *Manual) DecidePop(_ int, _ history.Kind, d *history.Decision) {
	m.decisions <- d
}

// Next returns the next undecided pop, failing the test if none
// arrives in time.
func (m *Manual) Next(t *testing.T) *history.Decision {
	t.Helper()
	select {
	case d := <-m.decisions:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("navtest: no pop decision arrived")
		return nil
	}
}

// Harness wires a Memory browser, an engine, and a synchronizer into
// one test fixture.
type Harness struct {
	t      *testing.T
	Table  *route.Table
	Opts   *route.Options
	Mem    *browser.Memory
	Engine *history.Engine
	Sync   *browser.Synchronizer
}

type harnessConfig struct {
	routes   []*route.Route
	urls     []string
	popGate  history.PopGate
	sink     func(route.Action)
	memOpts  []browser.MemoryOption
	routeOps []route.Option
}

// HarnessOption configures a Harness.
type HarnessOption func(*harnessConfig)

// WithRoutes sets the route table. Required.
func WithRoutes(routes ...*route.Route) HarnessOption {
	return func(c *harnessConfig) { c.routes = routes }
}

// WithHistory seeds the history with the given URLs, current index at
// the last. Defaults to a single "/" entry.
func WithHistory(urls ...string) HarnessOption {
	return func(c *harnessConfig) { c.urls = urls }
}

// WithPopGate sets the pop gate.
func WithPopGate(g history.PopGate) HarnessOption {
	return func(c *harnessConfig) { c.popGate = g }
}

// WithActionSink sets the committed-action callback.
func WithActionSink(sink func(route.Action)) HarnessOption {
	return func(c *harnessConfig) { c.sink = sink }
}

// WithBrowserDelay makes the simulated browser apply mutations after d,
// exercising the settle retry path.
func WithBrowserDelay(d time.Duration) HarnessOption {
	return func(c *harnessConfig) {
		c.memOpts = append(c.memOpts, browser.WithApplyDelay(d))
	}
}

// WithRouteOptions forwards options to the route layer.
func WithRouteOptions(opts ...route.Option) HarnessOption {
	return func(c *harnessConfig) { c.routeOps = append(c.routeOps, opts...) }
}

// NewHarness builds the fixture and registers cleanup on t.
func NewHarness(t *testing.T, opts ...HarnessOption) *Harness {
	t.Helper()
	config := harnessConfig{urls: []string{"/"}}
	for _, opt := range opts {
		opt(&config)
	}
	if len(config.routes) == 0 {
		t.Fatal("navtest: WithRoutes is required")
	}

	tbl, err := route.NewTable(config.routes...)
	if err != nil {
		t.Fatalf("navtest: bad route table: %v", err)
	}
	o := route.NewOptions(config.routeOps...)

	mem := browser.NewMemory(config.urls[0], config.memOpts...)
	engine := history.NewEngine(history.Entry{
		Action:   route.Translate(config.urls[0], tbl, o),
		Location: route.ParseLocation(config.urls[0], o),
	})

	var syncOpts []browser.SyncOption
	if config.popGate != nil {
		syncOpts = append(syncOpts, browser.WithPopGate(config.popGate))
	}
	if config.sink != nil {
		syncOpts = append(syncOpts, browser.WithActionSink(config.sink))
	}
	s := browser.NewSynchronizer(mem, engine, tbl, o, syncOpts...)
	t.Cleanup(func() {
		s.Close()
		mem.Close()
	})

	h := &Harness{t: t, Table: tbl, Opts: o, Mem: mem, Engine: engine, Sync: s}
	for _, url := range config.urls[1:] {
		if err := s.Push(context.Background(), route.Translate(url, tbl, o)); err != nil {
			t.Fatalf("navtest: seeding push %q: %v", url, err)
		}
	}
	h.Settle()
	return h
}

// Settle blocks until the simulated browser has applied all pending
// mutations.
func (h *Harness) Settle() {
	h.Mem.Settled()
}

// Back simulates the user pressing the back button.
func (h *Harness) Back() {
	if err := h.Mem.Back(); err != nil {
		h.t.Fatalf("navtest: back: %v", err)
	}
}

// Forward simulates the user pressing the forward button.
func (h *Harness) Forward() {
	if err := h.Mem.Forward(); err != nil {
		h.t.Fatalf("navtest: forward: %v", err)
	}
}

// Navigate pushes the action for url through the synchronizer.
func (h *Harness) Navigate(url string) route.Action {
	h.t.Helper()
	a, err := h.Sync.NavigateURL(context.Background(), url)
	if err != nil {
		h.t.Fatalf("navtest: navigate %q: %v", url, err)
	}
	return a
}

// ExpectURL polls until the simulated browser reports url.
func (h *Harness) ExpectURL(url string) {
	h.t.Helper()
	h.expect(func() bool { return h.Mem.URL() == url },
		"browser URL = %q, want %q", func() any { return h.Mem.URL() }, url)
}

// ExpectIndex polls until both the engine and the browser sit at i.
func (h *Harness) ExpectIndex(i int) {
	h.t.Helper()
	h.expect(func() bool { return h.Engine.Index() == i && h.Mem.Index() == i },
		"indexes [engine browser] = %v, want both %v",
		func() any { return []int{h.Engine.Index(), h.Mem.Index()} }, i)
}

// ExpectType polls until the engine's current action has the type.
func (h *Harness) ExpectType(typ string) {
	h.t.Helper()
	h.expect(func() bool { return h.Engine.Current().Action.Type == typ },
		"current type = %v, want %v",
		func() any { return h.Engine.Current().Action.Type }, typ)
}

func (h *Harness) expect(cond func() bool, format string, got func() any, want any) {
	h.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.t.Fatalf("navtest: "+format, got(), want)
}
