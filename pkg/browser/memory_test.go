package browser

import (
	"runtime"
	"testing"
	"time"
)

func TestMemoryPushTruncatesForward(t *testing.T) {
	m := NewMemory("/a")
	defer m.Close()

	m.Push("/b", NativeState{})
	m.Push("/c", NativeState{})
	m.Go(-2)
	m.Push("/d", NativeState{})
	m.Settled()

	want := []string{"/a", "/d"}
	got := m.Stack()
	if len(got) != len(want) {
		t.Fatalf("stack = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stack[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if m.Index() != 1 {
		t.Errorf("index = %d, want 1", m.Index())
	}
}

func TestMemoryReplace(t *testing.T) {
	m := NewMemory("/a")
	defer m.Close()

	m.Push("/b", NativeState{})
	m.Replace("/b2", NativeState{Key: "k"})
	m.Settled()

	if got := m.URL(); got != "/b2" {
		t.Errorf("URL = %q, want %q", got, "/b2")
	}
	st, ok := m.StateAt(1)
	if !ok || st.Key != "k" {
		t.Errorf("StateAt(1) = %+v ok=%v, want key %q", st, ok, "k")
	}
	if got := len(m.Stack()); got != 2 {
		t.Errorf("stack length = %d, want 2", got)
	}
}

func TestMemoryGoClampsAndEmits(t *testing.T) {
	m := NewMemory("/a")
	defer m.Close()

	m.Push("/b", NativeState{})
	m.Settled()

	// Movement past the start clamps to index 0 and still emits one
	// event for the actual move.
	m.Go(-5)
	select {
	case ev := <-m.Events():
		if ev.URL != "/a" {
			t.Errorf("pop URL = %q, want %q", ev.URL, "/a")
		}
	case <-time.After(time.Second):
		t.Fatal("no pop event for clamped movement")
	}

	// Already at index 0: a further back is a no-op with no event.
	m.Back()
	m.Settled()
	select {
	case ev := <-m.Events():
		t.Fatalf("unexpected pop event %+v for no-op movement", ev)
	default:
	}
}

func TestMemoryCloseUnblocksEventSend(t *testing.T) {
	base := runtime.NumGoroutine()
	m := NewMemory("/a")
	m.Push("/b", NativeState{})

	// Nobody consumes events, so enough movements fill the buffer and
	// park the worker on the next send.
	go func() {
		for i := 0; i < 80; i++ {
			m.Go(-1)
			m.Go(1)
		}
	}()
	waitFor(t, func() bool { return len(m.events) == cap(m.events) },
		"event buffer never filled")

	m.Close()
	waitFor(t, func() bool { return runtime.NumGoroutine() <= base },
		"worker goroutine leaked after Close")
}

func TestMemoryApplyDelay(t *testing.T) {
	m := NewMemory("/a", WithApplyDelay(30*time.Millisecond))
	defer m.Close()

	m.Push("/b", NativeState{})
	if got := m.URL(); got != "/a" {
		t.Errorf("URL before delay = %q, want %q", got, "/a")
	}
	m.Settled()
	if got := m.URL(); got != "/b" {
		t.Errorf("URL after settle = %q, want %q", got, "/b")
	}
}
