package route

import (
	"strings"
	"testing"
)

func TestConvertNumbers(t *testing.T) {
	tbl := MustTable(&Route{Type: "USER", Path: "/users/:id", ConvertNumbers: Bool(true)})

	a := Translate("/users/42", tbl, NewOptions())
	if got, want := a.Params["id"], 42; got != want {
		t.Errorf("id = %v (%T), want %v (int)", got, got, want)
	}
}

func TestConvertNumbersDisabledPerRoute(t *testing.T) {
	// Global option on, route explicitly opts out.
	tbl := MustTable(&Route{Type: "USER", Path: "/users/:id", ConvertNumbers: Bool(false)})
	o := NewOptions(WithConvertNumbers(true))

	a := Translate("/users/42", tbl, o)
	if got, want := a.Params["id"], "42"; got != want {
		t.Errorf("id = %v (%T), want %q (string)", got, got, want)
	}
}

func TestCapitalizedWords(t *testing.T) {
	tbl := MustTable(&Route{Type: "CAT", Path: "/cat/:slug", CapitalizedWords: Bool(true)})

	a := Translate("/cat/my-category", tbl, NewOptions())
	if got, want := a.Params["slug"], "My Category"; got != want {
		t.Errorf("slug = %v, want %q", got, want)
	}
}

func TestRouteFromPathWinsOverAutoConvert(t *testing.T) {
	tbl := MustTable(&Route{
		Type: "USER",
		Path: "/users/:id",
		FromPath: func(v string, r *Route, o *Options) (any, bool) {
			return "user-" + v, true
		},
	})
	o := NewOptions(WithConvertNumbers(true))

	a := Translate("/users/42", tbl, o)
	if got, want := a.Params["id"], "user-42"; got != want {
		t.Errorf("id = %v, want %q", got, want)
	}
}

func TestTransformRemovalEnablesDefault(t *testing.T) {
	tbl := MustTable(&Route{
		Type: "FEED",
		Path: "/feed/:filter",
		FromPath: func(v string, r *Route, o *Options) (any, bool) {
			if v == "none" {
				return nil, false
			}
			return v, true
		},
		DefaultParams: Params{"filter": "all"},
	})

	a := Translate("/feed/none", tbl, NewOptions())
	if got, want := a.Params["filter"], "all"; got != want {
		t.Errorf("filter = %v, want %q (default fills removed key)", got, want)
	}
}

func TestDefaultParamsNeverOverrideExplicit(t *testing.T) {
	tbl := MustTable(&Route{
		Type:          "FEED",
		Path:          "/feed/:filter",
		DefaultParams: Params{"filter": "all", "page": 1},
	})

	a := Translate("/feed/starred", tbl, NewOptions())
	if got, want := a.Params["filter"], "starred"; got != want {
		t.Errorf("filter = %v, want %q (explicit wins)", got, want)
	}
	if got, want := a.Params["page"], 1; got != want {
		t.Errorf("page = %v, want %v (default fills gap)", got, want)
	}
}

func TestDefaultParamsFuncReplacesMerge(t *testing.T) {
	tbl := MustTable(&Route{
		Type: "FEED",
		Path: "/feed/:filter",
		DefaultParamsFunc: func(p Params, r *Route, o *Options) Params {
			return Params{"filter": "forced"}
		},
	})

	a := Translate("/feed/starred", tbl, NewOptions())
	if got, want := a.Params["filter"], "forced"; got != want {
		t.Errorf("filter = %v, want %q (function fully determines result)", got, want)
	}
}

func TestFromSearchAndDefaultQuery(t *testing.T) {
	tbl := MustTable(&Route{
		Type: "LIST",
		Path: "/list",
		FromSearch: func(v string, r *Route, o *Options) (any, bool) {
			if v == "" {
				return nil, false
			}
			return strings.ToUpper(v), true
		},
		DefaultQuery: Query{"sort": "ASC", "limit": "10"},
	})

	a := Translate("/list?sort=desc&empty=", tbl, NewOptions())
	if got, want := a.Query["sort"], "DESC"; got != want {
		t.Errorf("sort = %v, want %q", got, want)
	}
	if got, want := a.Query["limit"], "10"; got != want {
		t.Errorf("limit = %v, want %q (default)", got, want)
	}
	if _, present := a.Query["empty"]; present {
		t.Error("removed query key should fall away entirely")
	}
}

func TestDefaultHash(t *testing.T) {
	tbl := MustTable(&Route{Type: "DOC", Path: "/doc", DefaultHash: "top"})

	a := Translate("/doc", tbl, NewOptions())
	if got, want := a.Hash, "top"; got != want {
		t.Errorf("hash = %q, want %q", got, want)
	}

	a = Translate("/doc#section-2", tbl, NewOptions())
	if got, want := a.Hash, "section-2"; got != want {
		t.Errorf("hash = %q, want %q (explicit hash wins)", got, want)
	}
}

func TestDefaultHashFuncReplaces(t *testing.T) {
	tbl := MustTable(&Route{
		Type: "DOC",
		Path: "/doc",
		DefaultHashFunc: func(h string, r *Route, o *Options) string {
			return "always-" + h
		},
	})

	a := Translate("/doc#x", tbl, NewOptions())
	if got, want := a.Hash, "always-x"; got != want {
		t.Errorf("hash = %q, want %q", got, want)
	}
}

func TestFromStateAppliedOnlyWhenReceived(t *testing.T) {
	tbl := MustTable(&Route{
		Type: "HOME",
		Path: "/",
		FromState: func(v any, r *Route, o *Options) (any, bool) {
			return "seen", true
		},
		DefaultState: State{"visited": false},
	})
	o := NewOptions()

	loc := ParseLocation("/", o)
	a := TranslateReceived(loc, State{"from": "raw"}, tbl, o, "")
	if got, want := a.State["from"], "seen"; got != want {
		t.Errorf("received state from = %v, want %q", got, want)
	}
	if got, want := a.State["visited"], false; got != want {
		t.Errorf("visited = %v, want %v (default state merged)", got, want)
	}

	// Plain Translate carries no inbound state and must not invent any.
	a = Translate("/", tbl, o)
	if a.State != nil {
		t.Errorf("in-app translate state = %v, want nil", a.State)
	}
}

func TestPathDecoding(t *testing.T) {
	tbl := MustTable(&Route{Type: "USER", Path: "/users/:name"})

	a := Translate("/users/john%20doe", tbl, NewOptions())
	if got, want := a.Params["name"], "john doe"; got != want {
		t.Errorf("name = %v, want %q", got, want)
	}
}

func TestCapitalizeWords(t *testing.T) {
	cases := []struct{ in, want string }{
		{"my-category", "My Category"},
		{"single", "Single"},
		{"a-b-c", "A B C"},
		{"", ""},
	}
	for _, c := range cases {
		if got := capitalizeWords(c.in); got != c.want {
			t.Errorf("capitalizeWords(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsAllDigits(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"42", true},
		{"0", true},
		{"", false},
		{"4x2", false},
		{"-1", false},
		{"4.2", false},
	}
	for _, c := range cases {
		if got := isAllDigits(c.in); got != c.want {
			t.Errorf("isAllDigits(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
