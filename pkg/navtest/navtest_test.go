package navtest

import (
	"testing"

	"github.com/wayfarer-dev/wayfarer/pkg/route"
)

func TestHarnessApprovedBack(t *testing.T) {
	h := NewHarness(t,
		WithRoutes(
			&route.Route{Type: "LIST", Path: "/items"},
			&route.Route{Type: "DETAIL", Path: "/items/:id"},
		),
		WithHistory("/items", "/items/3"),
		WithPopGate(ApproveAll()),
	)

	h.ExpectIndex(1)
	h.Back()
	h.ExpectIndex(0)
	h.ExpectType("LIST")
}

func TestHarnessRejectedBack(t *testing.T) {
	h := NewHarness(t,
		WithRoutes(
			&route.Route{Type: "LIST", Path: "/items"},
			&route.Route{Type: "DETAIL", Path: "/items/:id"},
		),
		WithHistory("/items", "/items/3"),
		WithPopGate(RejectAll()),
	)

	h.Back()
	h.ExpectURL("/items/3")
	h.ExpectIndex(1)
}

func TestHarnessManualGate(t *testing.T) {
	gate := NewManual()
	h := NewHarness(t,
		WithRoutes(
			&route.Route{Type: "A", Path: "/a"},
			&route.Route{Type: "B", Path: "/b"},
		),
		WithHistory("/a", "/b"),
		WithPopGate(gate),
	)

	h.Back()
	d := gate.Next(t)
	if h.Engine.Index() != 1 {
		t.Errorf("engine index = %d while undecided, want 1", h.Engine.Index())
	}
	d.Approve()
	h.ExpectIndex(0)
	h.ExpectType("A")
}

func TestHarnessNavigate(t *testing.T) {
	h := NewHarness(t,
		WithRoutes(
			&route.Route{Type: "A", Path: "/a"},
			&route.Route{Type: "B", Path: "/b"},
		),
		WithHistory("/a"),
	)

	a := h.Navigate("/b")
	if a.Type != "B" {
		t.Errorf("action type = %q, want B", a.Type)
	}
	h.Settle()
	h.ExpectIndex(1)
	h.ExpectURL("/b")
}
