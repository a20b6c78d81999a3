package route

import (
	"strconv"
	"strings"
	"unicode"
)

// transformPath runs the per-key path parameter pipeline over raw
// (still-encoded) matched values and applies the route's defaults.
//
// Pipeline order per key: URL-decode, then the first applicable of
// route FromPath, numeric auto-convert, capitalized words, option
// FromPath, pass-through. A transform returning ok=false removes the
// key so defaults can fill it.
func transformPath(raw map[string]string, r *Route, o *Options) Params {
	params := make(Params, len(raw))
	for name, enc := range raw {
		isSplat := r.pattern != nil && r.pattern.isSplat(name)
		val, err := decodeSegment(enc, isSplat)
		if err != nil {
			// Undecodable values pass through encoded rather than
			// failing the translation.
			val = enc
		}
		v, ok := convertPathValue(val, r, o)
		if !ok {
			continue
		}
		params[name] = v
	}
	return applyParamDefaults(params, r, o)
}

// convertPathValue applies the single-value stage of the path pipeline.
func convertPathValue(val string, r *Route, o *Options) (any, bool) {
	if r.FromPath != nil {
		return r.FromPath(val, r, o)
	}
	if numbersEnabled(r, o) && isAllDigits(val) {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n, true
		}
	}
	if capitalsEnabled(r, o) {
		return capitalizeWords(val), true
	}
	if o != nil && o.FromPath != nil {
		return o.FromPath(val, r, o)
	}
	return val, true
}

// applyParamDefaults merges DefaultParams underneath the transformed
// params. A DefaultParamsFunc replaces the merge wholesale.
func applyParamDefaults(params Params, r *Route, o *Options) Params {
	if r.DefaultParamsFunc != nil {
		return r.DefaultParamsFunc(params, r, o)
	}
	if len(r.DefaultParams) == 0 {
		return params
	}
	merged := make(Params, len(r.DefaultParams)+len(params))
	for k, v := range r.DefaultParams {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

// transformSearch parses the raw search string and runs each value
// through the route- or option-level FromSearch hook, then merges the
// route's query defaults.
func transformSearch(search string, r *Route, o *Options) Query {
	query := parseQueryFor(r, o)(search)
	// Transform on a mutable working copy; removed keys are deleted
	// outright so defaults can supply them.
	for k, v := range query {
		s, isString := v.(string)
		if !isString {
			continue
		}
		nv, ok := convertQueryValue(s, r, o)
		if !ok {
			delete(query, k)
			continue
		}
		query[k] = nv
	}
	if r.DefaultQueryFunc != nil {
		return r.DefaultQueryFunc(query, r, o)
	}
	if len(r.DefaultQuery) == 0 {
		return query
	}
	merged := make(Query, len(r.DefaultQuery)+len(query))
	for k, v := range r.DefaultQuery {
		merged[k] = v
	}
	for k, v := range query {
		merged[k] = v
	}
	return merged
}

// convertQueryValue applies the route- or option-level query transform.
func convertQueryValue(val string, r *Route, o *Options) (any, bool) {
	if r.FromSearch != nil {
		return r.FromSearch(val, r, o)
	}
	if o != nil && o.FromSearch != nil {
		return o.FromSearch(val, r, o)
	}
	return val, true
}

// transformHash transforms the fragment as a single value. An empty
// result falls back to DefaultHash; DefaultHashFunc replaces that
// fallback wholesale.
func transformHash(hash string, r *Route, o *Options) string {
	h := hash
	if r.FromHash != nil {
		h = r.FromHash(h, r, o)
	} else if o != nil && o.FromHash != nil {
		h = o.FromHash(h, r, o)
	}
	if r.DefaultHashFunc != nil {
		return r.DefaultHashFunc(h, r, o)
	}
	if h == "" {
		return r.DefaultHash
	}
	return h
}

// transformState runs the inbound state through the route's FromState
// hook per key and merges the state defaults. It is only invoked for
// locations received from the browser; in-app dispatches pass state
// through untouched.
func transformState(state State, r *Route, o *Options) State {
	out := make(State, len(state))
	for k, v := range state {
		out[k] = v
	}
	if r.FromState != nil {
		for k, v := range out {
			nv, ok := r.FromState(v, r, o)
			if !ok {
				delete(out, k)
				continue
			}
			out[k] = nv
		}
	}
	if r.DefaultStateFunc != nil {
		return r.DefaultStateFunc(out, r, o)
	}
	if len(r.DefaultState) == 0 {
		return out
	}
	merged := make(State, len(r.DefaultState)+len(out))
	for k, v := range r.DefaultState {
		merged[k] = v
	}
	for k, v := range out {
		merged[k] = v
	}
	return merged
}

// numbersEnabled resolves the tri-state numeric conversion flag.
func numbersEnabled(r *Route, o *Options) bool {
	if r.ConvertNumbers != nil {
		return *r.ConvertNumbers
	}
	return o != nil && o.ConvertNumbers
}

// capitalsEnabled resolves the tri-state capitalization flag.
func capitalsEnabled(r *Route, o *Options) bool {
	if r.CapitalizedWords != nil {
		return *r.CapitalizedWords
	}
	return o != nil && o.CapitalizedWords
}

// isAllDigits reports whether s is non-empty and entirely ASCII digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// capitalizeWords converts "my-category" to "My Category": hyphens
// become spaces and each word's first letter is capitalized.
func capitalizeWords(s string) string {
	words := strings.Split(s, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// hyphenateWords is the inverse of capitalizeWords, used when building
// URLs: "My Category" back to "my-category".
func hyphenateWords(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

// Bool returns a pointer to b, for the tri-state route flags.
func Bool(b bool) *bool {
	return &b
}
