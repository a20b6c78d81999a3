package route

import "testing"

func TestToURLRoundTrip(t *testing.T) {
	tbl := MustTable(
		&Route{Type: "USER", Path: "/users/:id"},
		&Route{Type: "DOC", Path: "/docs/:section/:page?"},
	)
	o := NewOptions()

	// Identity transformers round-trip modulo basename.
	for _, url := range []string{
		"/users/42",
		"/users/john%20doe",
		"/docs/intro",
		"/docs/intro/setup",
		"/users/42?sort=asc",
		"/users/42?sort=asc#top",
	} {
		a := Translate(url, tbl, o)
		got, err := ToURL(a, tbl, o)
		if err != nil {
			t.Fatalf("ToURL(%q): %v", url, err)
		}
		if got != url {
			t.Errorf("round trip %q = %q", url, got)
		}
	}
}

func TestToURLNumbersAndCapitals(t *testing.T) {
	tbl := MustTable(
		&Route{Type: "USER", Path: "/users/:id", ConvertNumbers: Bool(true)},
		&Route{Type: "CAT", Path: "/cat/:slug", CapitalizedWords: Bool(true)},
	)
	o := NewOptions()

	got, err := ToURL(Action{Type: "USER", Params: Params{"id": 42}}, tbl, o)
	if err != nil {
		t.Fatalf("ToURL: %v", err)
	}
	if want := "/users/42"; got != want {
		t.Errorf("url = %q, want %q", got, want)
	}

	got, err = ToURL(Action{Type: "CAT", Params: Params{"slug": "My Category"}}, tbl, o)
	if err != nil {
		t.Fatalf("ToURL: %v", err)
	}
	if want := "/cat/my-category"; got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
}

func TestToURLOptionalOmitted(t *testing.T) {
	tbl := MustTable(&Route{Type: "DOC", Path: "/docs/:section/:page?"})

	got, err := ToURL(Action{Type: "DOC", Params: Params{"section": "intro"}}, tbl, NewOptions())
	if err != nil {
		t.Fatalf("ToURL: %v", err)
	}
	if want := "/docs/intro"; got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
}

func TestToURLDefaultParamsFillGaps(t *testing.T) {
	tbl := MustTable(&Route{
		Type:          "FEED",
		Path:          "/feed/:filter",
		DefaultParams: Params{"filter": "all"},
	})

	got, err := ToURL(Action{Type: "FEED"}, tbl, NewOptions())
	if err != nil {
		t.Fatalf("ToURL: %v", err)
	}
	if want := "/feed/all"; got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
}

func TestToURLBasename(t *testing.T) {
	tbl := MustTable(&Route{Type: "USER", Path: "/users/:id"})
	o := NewOptions(WithBasename("/app"))

	got, err := ToURL(Action{Type: "USER", Params: Params{"id": "7"}}, tbl, o)
	if err != nil {
		t.Fatalf("ToURL: %v", err)
	}
	if want := "/app/users/7"; got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
}

func TestToURLErrors(t *testing.T) {
	tbl := MustTable(
		&Route{Type: "USER", Path: "/users/:id"},
		&Route{Type: "CHECKOUT"},
	)
	o := NewOptions()

	if _, err := ToURL(Action{Type: "NOPE"}, tbl, o); err == nil {
		t.Error("unknown type should fail")
	}
	if _, err := ToURL(Action{Type: "CHECKOUT"}, tbl, o); err == nil {
		t.Error("pathless type should fail")
	}
	if _, err := ToURL(Action{Type: "USER"}, tbl, o); err == nil {
		t.Error("missing required param should fail")
	}
}
