package route

import (
	"fmt"
	"log/slog"
	"net/url"
	"sort"
)

// Options holds the global translation settings shared by every route
// in a table. Route-level hooks and tri-state flags override these.
type Options struct {
	// Basename is stripped from inbound URLs and prepended to
	// outbound ones, e.g. "/app".
	Basename string

	// NotFoundType overrides the global NOT_FOUND action type.
	NotFoundType string

	// Global fallback transforms, applied when a route defines none.
	FromPath   Transform
	FromSearch Transform
	FromHash   HashTransform

	// ConvertNumbers parses all-digit path segments as ints unless a
	// route disables it.
	ConvertNumbers bool

	// CapitalizedWords turns "my-category" into "My Category" unless a
	// route disables it.
	CapitalizedWords bool

	// ParseQuery and StringifyQuery override the default query codec.
	ParseQuery     ParseQueryFunc
	StringifyQuery StringifyQueryFunc

	// Strict makes browser-settle convergence failures fatal instead
	// of logged-and-swallowed. Intended for tests.
	Strict bool

	// Logger receives structured diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// Option configures Options.
type Option func(*Options)

// NewOptions builds Options from functional options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBasename sets the URL prefix stripped on the way in and restored
// on the way out.
func WithBasename(basename string) Option {
	return func(o *Options) { o.Basename = basename }
}

// WithNotFoundType overrides the global NOT_FOUND action type.
func WithNotFoundType(typ string) Option {
	return func(o *Options) { o.NotFoundType = typ }
}

// WithConvertNumbers enables numeric auto-conversion of path params.
func WithConvertNumbers(enabled bool) Option {
	return func(o *Options) { o.ConvertNumbers = enabled }
}

// WithCapitalizedWords enables hyphen-to-space capitalization of path
// params.
func WithCapitalizedWords(enabled bool) Option {
	return func(o *Options) { o.CapitalizedWords = enabled }
}

// WithFromPath sets the global fallback path transform.
func WithFromPath(t Transform) Option {
	return func(o *Options) { o.FromPath = t }
}

// WithFromSearch sets the global fallback query transform.
func WithFromSearch(t Transform) Option {
	return func(o *Options) { o.FromSearch = t }
}

// WithParseQuery sets the query parser.
func WithParseQuery(f ParseQueryFunc) Option {
	return func(o *Options) { o.ParseQuery = f }
}

// WithStringifyQuery sets the query serializer.
func WithStringifyQuery(f StringifyQueryFunc) Option {
	return func(o *Options) { o.StringifyQuery = f }
}

// WithStrict enables strict execution mode.
func WithStrict(strict bool) Option {
	return func(o *Options) { o.Strict = strict }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Log returns the configured logger, falling back to slog.Default.
func (o *Options) Log() *slog.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// parseQueryFor resolves the query parser for a route: route hook, then
// option hook, then the default codec.
func parseQueryFor(r *Route, o *Options) ParseQueryFunc {
	if r != nil && r.ParseQuery != nil {
		return r.ParseQuery
	}
	if o != nil && o.ParseQuery != nil {
		return o.ParseQuery
	}
	return defaultParseQuery
}

// defaultParseQuery decodes a raw query string, keeping the first value
// for repeated keys.
func defaultParseQuery(search string) Query {
	q := Query{}
	vals, err := url.ParseQuery(search)
	if err != nil {
		return q
	}
	for k, vs := range vals {
		if len(vs) > 0 {
			q[k] = vs[0]
		}
	}
	return q
}

// defaultStringifyQuery encodes a query with deterministic key order.
func defaultStringifyQuery(q Query) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := url.Values{}
	for _, k := range keys {
		vals.Set(k, fmt.Sprint(q[k]))
	}
	return vals.Encode()
}
