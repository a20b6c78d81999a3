package browser

import (
	"sync"
	"time"
)

// memEntry is one native stack slot.
type memEntry struct {
	url   string
	state NativeState
}

// Memory is an in-process Native implementation: a simulated browser
// history stack. Mutations are applied by a single worker goroutine,
// optionally after a configurable delay, which reproduces the way real
// browsers coalesce and defer rapid consecutive history calls — the
// behavior the settle retry loop exists for.
//
// Back and Forward simulate user gestures; both surface as PopEvents
// just like the synchronizer's own corrective Go calls.
type Memory struct {
	mu    sync.Mutex
	stack []memEntry
	index int

	delay  time.Duration
	cmds   chan func()
	events chan PopEvent

	closeOnce sync.Once
	closed    chan struct{}
}

// MemoryOption configures a Memory browser.
type MemoryOption func(*Memory)

// WithApplyDelay delays every mutation by d before it takes effect,
// forcing settle polls to actually retry.
func WithApplyDelay(d time.Duration) MemoryOption {
	return func(m *Memory) { m.delay = d }
}

// NewMemory creates a simulated browser sitting at initialURL.
func NewMemory(initialURL string, opts ...MemoryOption) *Memory {
	m := &Memory{
		stack:  []memEntry{{url: initialURL}},
		cmds:   make(chan func(), 64),
		events: make(chan PopEvent, 64),
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	go m.run()
	return m
}

// run applies queued mutations in order, honoring the configured
// delay.
func (m *Memory) run() {
	for {
		select {
		case f := <-m.cmds:
			if m.delay > 0 {
				time.Sleep(m.delay)
			}
			f()
		case <-m.closed:
			return
		}
	}
}

// enqueue hands a mutation to the worker.
func (m *Memory) enqueue(f func()) error {
	select {
	case m.cmds <- f:
		return nil
	case <-m.closed:
		return errClosed
	}
}

// URL returns the currently visible URL.
func (m *Memory) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack[m.index].url
}

// Push appends a new entry, truncating any forward entries.
func (m *Memory) Push(url string, state NativeState) error {
	return m.enqueue(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.stack = append(m.stack[:m.index+1], memEntry{url: url, state: state})
		m.index = len(m.stack) - 1
	})
}

// Replace overwrites the current entry.
func (m *Memory) Replace(url string, state NativeState) error {
	return m.enqueue(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.stack[m.index] = memEntry{url: url, state: state}
	})
}

// Go moves by n, clamped to the stack bounds, and fires a PopEvent for
// any actual movement — matching real popstate semantics for
// history.go calls.
func (m *Memory) Go(n int) error {
	return m.enqueue(func() {
		m.mu.Lock()
		target := m.index + n
		if target < 0 {
			target = 0
		}
		if target > len(m.stack)-1 {
			target = len(m.stack) - 1
		}
		if target == m.index {
			m.mu.Unlock()
			return
		}
		m.index = target
		ev := PopEvent{URL: m.stack[m.index].url, State: m.stack[m.index].state}
		m.mu.Unlock()
		// The send must not outlive Close, or a full buffer with no
		// consumer would park the worker forever.
		select {
		case m.events <- ev:
		case <-m.closed:
		}
	})
}

// Back simulates the user pressing the back button.
func (m *Memory) Back() error {
	return m.Go(-1)
}

// Forward simulates the user pressing the forward button.
func (m *Memory) Forward() error {
	return m.Go(1)
}

// Events delivers pop events in arrival order.
func (m *Memory) Events() <-chan PopEvent {
	return m.events
}

// Close stops the worker. Pending mutations are dropped.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() { close(m.closed) })
	return nil
}

// Stack returns the simulated native URLs, oldest first. Test helper.
func (m *Memory) Stack() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	urls := make([]string, len(m.stack))
	for i, e := range m.stack {
		urls[i] = e.url
	}
	return urls
}

// Index returns the simulated native position. Test helper.
func (m *Memory) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// StateAt returns the native state stored at position i. Test helper.
func (m *Memory) StateAt(i int) (NativeState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.stack) {
		return NativeState{}, false
	}
	return m.stack[i].state, true
}

// Settled blocks until all queued mutations have been applied. Test
// helper.
func (m *Memory) Settled() {
	done := make(chan struct{})
	if err := m.enqueue(func() { close(done) }); err != nil {
		return
	}
	<-done
}
