package route

import (
	"errors"
	"fmt"
)

// NotFound is the action type synthesized when no route matches a URL.
const NotFound = "NOT_FOUND"

// Params holds decoded, transformed path parameters.
type Params map[string]any

// Query holds decoded, transformed query values.
type Query map[string]any

// State holds arbitrary per-entry navigation state.
type State map[string]any

// Transform converts one raw field value into its typed form.
// Returning ok=false removes the key, allowing route defaults to supply
// a value for it instead.
type Transform func(value string, r *Route, o *Options) (v any, ok bool)

// StateTransform converts one inbound state value.
type StateTransform func(value any, r *Route, o *Options) (v any, ok bool)

// HashTransform converts the hash fragment as a single value.
type HashTransform func(hash string, r *Route, o *Options) string

// ToPathFunc serializes a typed param back into a path segment.
// Returning ok=false omits the segment (only valid for optional params).
type ToPathFunc func(value any, key string, r *Route, o *Options) (s string, ok bool)

// ParamsFunc computes the final params wholesale, replacing the
// default-merge step.
type ParamsFunc func(params Params, r *Route, o *Options) Params

// QueryFunc computes the final query wholesale.
type QueryFunc func(query Query, r *Route, o *Options) Query

// HashFunc computes the final hash wholesale.
type HashFunc func(hash string, r *Route, o *Options) string

// StateFunc computes the final state wholesale.
type StateFunc func(state State, r *Route, o *Options) State

// ParseQueryFunc parses a raw query string (without "?") into a Query.
type ParseQueryFunc func(search string) Query

// StringifyQueryFunc serializes a Query back into a raw query string.
type StringifyQueryFunc func(q Query) string

// Route describes one navigable destination. A route without a Path
// pattern is dispatch-only: it can be addressed by type but never
// matches a URL.
//
// Hooks are optional. The tri-state *bool fields inherit the global
// option when nil and override it (in either direction) when set.
type Route struct {
	// Type is the unique action type for this route.
	Type string

	// Path is the URL pattern, e.g. "/users/:id" or "/docs/:section?".
	// Empty for dispatch-only routes.
	Path string

	// Per-field value hooks. Route-level hooks win over option-level ones.
	FromPath   Transform
	FromSearch Transform
	FromHash   HashTransform
	FromState  StateTransform
	ToPath     ToPathFunc

	// DefaultParams merges underneath transformed params; explicit
	// values win. DefaultParamsFunc replaces the merge wholesale.
	DefaultParams     Params
	DefaultParamsFunc ParamsFunc

	DefaultQuery     Query
	DefaultQueryFunc QueryFunc

	// DefaultHash is used when the (possibly transformed) hash is empty.
	// DefaultHashFunc replaces that fallback wholesale.
	DefaultHash     string
	DefaultHashFunc HashFunc

	DefaultState     State
	DefaultStateFunc StateFunc

	// ConvertNumbers enables all-digit path segments to parse as ints.
	ConvertNumbers *bool

	// CapitalizedWords enables "my-category" -> "My Category".
	CapitalizedWords *bool

	// ParseQuery overrides the option-level query parser for this route.
	ParseQuery ParseQueryFunc

	// compiled pattern, set during table construction
	pattern *pattern
}

// Match matches a pathname against the route's compiled pattern.
// On success it returns the raw (still-encoded) path parameter values.
// Pathless routes never match.
func (r *Route) Match(pathname string) (map[string]string, bool) {
	if r.pattern == nil {
		return nil, false
	}
	return r.pattern.match(pathname)
}

// Table construction errors.
var (
	ErrDuplicateType = errors.New("route: duplicate route type")
	ErrEmptyType     = errors.New("route: route type must not be empty")
)

// Table is an ordered route table. Matching is attempted in declaration
// order and the first match wins.
type Table struct {
	routes []*Route
	byType map[string]*Route
}

// NewTable builds a table from routes, compiling each path pattern and
// enforcing type uniqueness. The table and its routes must not be
// mutated after construction.
func NewTable(routes ...*Route) (*Table, error) {
	t := &Table{
		routes: routes,
		byType: make(map[string]*Route, len(routes)),
	}
	for _, r := range routes {
		if r.Type == "" {
			return nil, ErrEmptyType
		}
		if _, exists := t.byType[r.Type]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateType, r.Type)
		}
		t.byType[r.Type] = r
		if r.Path != "" {
			p, err := compilePattern(r.Path)
			if err != nil {
				return nil, fmt.Errorf("route %q: %w", r.Type, err)
			}
			r.pattern = p
		}
	}
	return t, nil
}

// MustTable is like NewTable but panics on error. Intended for
// package-level route tables.
func MustTable(routes ...*Route) *Table {
	t, err := NewTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the route registered for the given type.
func (t *Table) Lookup(typ string) (*Route, bool) {
	r, ok := t.byType[typ]
	return r, ok
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []*Route {
	return t.routes
}

// Has reports whether a route type is registered.
func (t *Table) Has(typ string) bool {
	_, ok := t.byType[typ]
	return ok
}
