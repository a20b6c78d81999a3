package route

// Action is the canonical, serializable representation of "where the
// app is". Matched and not-found translations share this one shape so
// callers never branch on success.
type Action struct {
	Type     string `json:"type"`
	Params   Params `json:"params,omitempty"`
	Query    Query  `json:"query,omitempty"`
	Hash     string `json:"hash,omitempty"`
	State    State  `json:"state,omitempty"`
	Basename string `json:"basename,omitempty"`
}

// Translate converts a raw URL into its canonical action. It never
// fails: unmatched URLs yield a NOT_FOUND action.
func Translate(raw string, tbl *Table, o *Options) Action {
	return translate(ParseLocation(raw, o), nil, false, tbl, o, "")
}

// TranslateScene is Translate with a scene scope: when no route
// matches and the table carries a "<scene>/NOT_FOUND" route, that
// scoped type is used instead of the global one.
func TranslateScene(raw string, tbl *Table, o *Options, scene string) Action {
	return translate(ParseLocation(raw, o), nil, false, tbl, o, scene)
}

// TranslateReceived converts a location reported by the browser into
// an action. Unlike in-app dispatches, inbound state runs through the
// matched route's FromState pipeline.
func TranslateReceived(loc Location, state State, tbl *Table, o *Options, scene string) Action {
	return translate(loc, state, true, tbl, o, scene)
}

// translate iterates the table in declaration order over path-bearing
// routes and short-circuits on the first match.
func translate(loc Location, state State, received bool, tbl *Table, o *Options, scene string) Action {
	basename := ""
	if o != nil {
		basename = o.Basename
	}

	for _, r := range tbl.Routes() {
		if r.Path == "" {
			continue
		}
		raw, ok := r.Match(loc.Pathname)
		if !ok {
			continue
		}
		st := state
		if received {
			st = transformState(state, r, o)
		}
		return Action{
			Type:     r.Type,
			Params:   transformPath(raw, r, o),
			Query:    transformSearch(loc.Search, r, o),
			Hash:     transformHash(loc.Hash, r, o),
			State:    st,
			Basename: basename,
		}
	}

	return notFoundAction(loc, state, tbl, o, scene)
}

// notFoundAction synthesizes the NOT_FOUND action for an unmatched
// location. The query still goes through the configured parser so the
// action shape matches the matched path.
func notFoundAction(loc Location, state State, tbl *Table, o *Options, scene string) Action {
	typ := notFoundType(tbl, o, scene)
	q := Query{}
	if loc.Search != "" {
		var r *Route
		if nf, ok := tbl.Lookup(typ); ok {
			r = nf
		}
		q = parseQueryFor(r, o)(loc.Search)
	}
	basename := ""
	if o != nil {
		basename = o.Basename
	}
	return Action{
		Type:     typ,
		Params:   Params{},
		Query:    q,
		Hash:     loc.Hash,
		State:    state,
		Basename: basename,
	}
}

// notFoundType picks the scene-scoped NOT_FOUND type when the table
// declares one, else the configured or global fallback.
func notFoundType(tbl *Table, o *Options, scene string) string {
	if scene != "" {
		scoped := scene + "/" + NotFound
		if tbl.Has(scoped) {
			return scoped
		}
	}
	if o != nil && o.NotFoundType != "" {
		return o.NotFoundType
	}
	return NotFound
}
