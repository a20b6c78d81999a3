package route

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// URL construction errors.
var (
	ErrUnknownType  = errors.New("route: unknown action type")
	ErrPathlessType = errors.New("route: route has no path pattern")
)

// ToURL rebuilds the URL an action addresses: path from the route's
// pattern and params, query via the configured serializer, then the
// hash and basename. With identity transformers this round-trips
// Translate modulo basename.
func ToURL(a Action, tbl *Table, o *Options) (string, error) {
	r, ok := tbl.Lookup(a.Type)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, a.Type)
	}
	if r.pattern == nil {
		return "", fmt.Errorf("%w: %q", ErrPathlessType, a.Type)
	}

	vals := make(map[string]string)
	for _, name := range r.pattern.paramNames() {
		v, present := a.Params[name]
		if !present {
			if dv, ok := r.DefaultParams[name]; ok {
				v, present = dv, true
			}
		}
		if !present {
			continue
		}
		s, keep := serializePathValue(v, name, r, o)
		if !keep {
			continue
		}
		if !r.pattern.isSplat(name) {
			s = url.PathEscape(s)
		}
		vals[name] = s
	}

	path, err := r.pattern.build(vals)
	if err != nil {
		return "", err
	}

	search := ""
	if len(a.Query) > 0 {
		search = stringifyQueryFor(o)(a.Query)
	}

	basename := a.Basename
	if basename == "" && o != nil {
		basename = o.Basename
	}
	return basename + buildURL(path, search, a.Hash), nil
}

// serializePathValue turns one typed param back into a path segment.
// The route's ToPath hook wins; otherwise numbers are formatted and,
// when capitalization is enabled, strings are re-hyphenated.
func serializePathValue(v any, name string, r *Route, o *Options) (string, bool) {
	if r.ToPath != nil {
		return r.ToPath(v, name, r, o)
	}
	switch t := v.(type) {
	case string:
		if capitalsEnabled(r, o) {
			return hyphenateWords(t), true
		}
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(t), true
	}
}

// stringifyQueryFor resolves the query serializer.
func stringifyQueryFor(o *Options) StringifyQueryFunc {
	if o != nil && o.StringifyQuery != nil {
		return o.StringifyQuery
	}
	return defaultStringifyQuery
}
