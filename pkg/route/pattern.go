package route

import (
	"errors"
	"fmt"
	"strings"
)

// Pattern compilation errors.
var (
	ErrBadPattern     = errors.New("route: invalid path pattern")
	ErrSplatPlacement = errors.New("route: catch-all segment must be last")
)

// segKind distinguishes the three segment forms a pattern may contain.
type segKind int

const (
	segStatic segKind = iota
	segParam
	segSplat
)

// segment is one compiled pattern segment.
type segment struct {
	kind     segKind
	literal  string // static text, for segStatic
	name     string // parameter name, for segParam/segSplat
	optional bool   // :name? params may be absent at match time
}

// pattern is a compiled path pattern. Matching is exact-consume: the
// full pathname must be accounted for by the pattern's segments.
type pattern struct {
	raw      string
	segments []segment
}

// compilePattern parses a pattern like "/users/:id/:tab?" or
// "/files/*path" into its segment list.
func compilePattern(path string) (*pattern, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrBadPattern, path)
	}
	p := &pattern{raw: path}
	segs := splitPath(path)
	for i, seg := range segs {
		switch {
		case strings.HasPrefix(seg, "*"):
			name := seg[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: %q has unnamed catch-all", ErrBadPattern, path)
			}
			if i != len(segs)-1 {
				return nil, fmt.Errorf("%w: %q", ErrSplatPlacement, path)
			}
			p.segments = append(p.segments, segment{kind: segSplat, name: name})
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			optional := strings.HasSuffix(name, "?")
			if optional {
				name = strings.TrimSuffix(name, "?")
			}
			if name == "" {
				return nil, fmt.Errorf("%w: %q has unnamed parameter", ErrBadPattern, path)
			}
			p.segments = append(p.segments, segment{kind: segParam, name: name, optional: optional})
		default:
			p.segments = append(p.segments, segment{kind: segStatic, literal: seg})
		}
	}
	return p, nil
}

// match attempts to consume the full pathname. On success it returns
// the raw (still-encoded) parameter values keyed by name. Absent
// optional parameters do not appear in the result at all.
func (p *pattern) match(pathname string) (map[string]string, bool) {
	parts := splitPath(pathname)
	params := make(map[string]string)
	if p.matchFrom(0, parts, params) {
		return params, true
	}
	return nil, false
}

// matchFrom matches segments[si:] against the remaining path parts,
// backtracking over optional parameters the way the radix matcher
// backtracks over param children.
func (p *pattern) matchFrom(si int, parts []string, params map[string]string) bool {
	if si == len(p.segments) {
		return len(parts) == 0
	}
	seg := p.segments[si]
	switch seg.kind {
	case segStatic:
		if len(parts) == 0 || parts[0] != seg.literal {
			return false
		}
		return p.matchFrom(si+1, parts[1:], params)

	case segParam:
		if len(parts) > 0 && parts[0] != "" {
			params[seg.name] = parts[0]
			if p.matchFrom(si+1, parts[1:], params) {
				return true
			}
			delete(params, seg.name)
		}
		if seg.optional {
			return p.matchFrom(si+1, parts, params)
		}
		return false

	case segSplat:
		// Catch-all consumes the rest of the path, which must be
		// non-empty.
		if len(parts) == 0 {
			return false
		}
		params[seg.name] = strings.Join(parts, "/")
		return true
	}
	return false
}

// build reconstructs a pathname from serialized parameter values.
// Missing optional parameters are skipped; missing required ones are an
// error. Values must already be path-encoded.
func (p *pattern) build(vals map[string]string) (string, error) {
	var parts []string
	for _, seg := range p.segments {
		switch seg.kind {
		case segStatic:
			parts = append(parts, seg.literal)
		case segParam:
			v, ok := vals[seg.name]
			if !ok || v == "" {
				if seg.optional {
					continue
				}
				return "", fmt.Errorf("%w: missing parameter %q for %q", ErrBadPattern, seg.name, p.raw)
			}
			parts = append(parts, v)
		case segSplat:
			v, ok := vals[seg.name]
			if !ok || v == "" {
				return "", fmt.Errorf("%w: missing catch-all %q for %q", ErrBadPattern, seg.name, p.raw)
			}
			parts = append(parts, v)
		}
	}
	return "/" + strings.Join(parts, "/"), nil
}

// paramNames returns the parameter names in pattern order.
func (p *pattern) paramNames() []string {
	var names []string
	for _, seg := range p.segments {
		if seg.kind != segStatic {
			names = append(names, seg.name)
		}
	}
	return names
}

// isSplat reports whether name is the pattern's catch-all parameter.
func (p *pattern) isSplat(name string) bool {
	for _, seg := range p.segments {
		if seg.kind == segSplat && seg.name == name {
			return true
		}
	}
	return false
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
