// Package route implements the URL⇄action translation layer of the
// navigation engine.
//
// The package provides:
//   - Ordered route tables with first-match-wins pattern matching
//   - Named, optional and catch-all path segments (:id, :tab?, *rest)
//   - A per-field transform pipeline (path, search, hash, state) with
//     default merging and numeric/capitalization auto-conversion
//   - Translate (URL → Action) with NOT_FOUND synthesis, and ToURL
//     (Action → URL) as its inverse
//
// # Route tables
//
// Routes are declared in order; translation tries each path-bearing
// route and the first match wins:
//
//	tbl := route.MustTable(
//	    &route.Route{Type: "HOME", Path: "/"},
//	    &route.Route{Type: "USER", Path: "/users/:id", ConvertNumbers: route.Bool(true)},
//	    &route.Route{Type: "CATEGORY", Path: "/cat/:slug", CapitalizedWords: route.Bool(true)},
//	    &route.Route{Type: "CHECKOUT"}, // dispatch-only, never matches a URL
//	)
//
// # Translation
//
//	opts := route.NewOptions(route.WithBasename("/app"))
//	a := route.Translate("/app/users/42", tbl, opts)
//	// a.Type == "USER", a.Params["id"] == 42
//
// Unmatched URLs never fail; they yield a NOT_FOUND action carrying
// the parsed query and raw hash so callers handle one shape.
package route
