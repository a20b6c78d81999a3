package route

import (
	"reflect"
	"testing"
)

func TestPatternMatchStatic(t *testing.T) {
	p, err := compilePattern("/users/list")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if _, ok := p.match("/users/list"); !ok {
		t.Fatal("expected match for /users/list")
	}
	if _, ok := p.match("/users"); ok {
		t.Error("partial prefix should not match")
	}
	if _, ok := p.match("/users/list/extra"); ok {
		t.Error("unconsumed trailing segments should not match")
	}
}

func TestPatternMatchParams(t *testing.T) {
	p, err := compilePattern("/users/:id/posts/:slug")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	vals, ok := p.match("/users/42/posts/hello-world")
	if !ok {
		t.Fatal("expected match")
	}
	want := map[string]string{"id": "42", "slug": "hello-world"}
	if !reflect.DeepEqual(vals, want) {
		t.Errorf("params = %v, want %v", vals, want)
	}
}

func TestPatternOptionalParam(t *testing.T) {
	p, err := compilePattern("/docs/:section/:page?")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	vals, ok := p.match("/docs/intro")
	if !ok {
		t.Fatal("expected match without optional segment")
	}
	if _, present := vals["page"]; present {
		t.Error("absent optional param must not appear in result")
	}

	vals, ok = p.match("/docs/intro/setup")
	if !ok {
		t.Fatal("expected match with optional segment")
	}
	if vals["page"] != "setup" {
		t.Errorf("page = %q, want %q", vals["page"], "setup")
	}
}

func TestPatternOptionalBacktracking(t *testing.T) {
	// Optional param followed by a static segment: the matcher must
	// backtrack when consuming the optional slot steals the static one.
	p, err := compilePattern("/a/:b?/c")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	vals, ok := p.match("/a/c")
	if !ok {
		t.Fatal("expected match with optional skipped")
	}
	if _, present := vals["b"]; present {
		t.Errorf("b should be absent, got %v", vals)
	}

	vals, ok = p.match("/a/x/c")
	if !ok {
		t.Fatal("expected match with optional filled")
	}
	if vals["b"] != "x" {
		t.Errorf("b = %q, want %q", vals["b"], "x")
	}
}

func TestPatternCatchAll(t *testing.T) {
	p, err := compilePattern("/files/*path")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	vals, ok := p.match("/files/a/b/c")
	if !ok {
		t.Fatal("expected match")
	}
	if vals["path"] != "a/b/c" {
		t.Errorf("path = %q, want %q", vals["path"], "a/b/c")
	}

	if _, ok := p.match("/files"); ok {
		t.Error("catch-all must consume at least one segment")
	}
}

func TestPatternRoot(t *testing.T) {
	p, err := compilePattern("/")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := p.match("/"); !ok {
		t.Error("root pattern should match root path")
	}
	if _, ok := p.match("/x"); ok {
		t.Error("root pattern should not match non-root path")
	}
}

func TestPatternCompileErrors(t *testing.T) {
	cases := []string{
		"users/:id", // no leading slash
		"/files/*",  // unnamed catch-all
		"/a/:",      // unnamed param
		"/a/*x/b",   // catch-all not last
	}
	for _, path := range cases {
		if _, err := compilePattern(path); err == nil {
			t.Errorf("compilePattern(%q): expected error", path)
		}
	}
}

func TestPatternBuild(t *testing.T) {
	p, err := compilePattern("/users/:id/:tab?")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	got, err := p.build(map[string]string{"id": "42"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got != "/users/42" {
		t.Errorf("build = %q, want %q", got, "/users/42")
	}

	got, err = p.build(map[string]string{"id": "42", "tab": "posts"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got != "/users/42/posts" {
		t.Errorf("build = %q, want %q", got, "/users/42/posts")
	}

	if _, err := p.build(map[string]string{}); err == nil {
		t.Error("build without required param should fail")
	}
}
