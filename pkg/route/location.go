package route

import (
	"strings"

	"github.com/google/uuid"
)

// Location is the derived view of a URL used throughout the engine.
type Location struct {
	// Pathname is the canonicalized path component, e.g. "/users/42".
	Pathname string

	// Search is the raw query string without the leading "?".
	Search string

	// Hash is the raw fragment without the leading "#".
	Hash string

	// Key is a session-unique identifier for this location instance.
	Key string

	// URL is the full basename-stripped path+search+hash.
	URL string
}

// NewKey returns a fresh session-unique location key.
func NewKey() string {
	return uuid.NewString()[:8]
}

// ParseLocation splits a raw URL into a Location, stripping the
// configured basename first. It never fails: paths that cannot be
// canonicalized are left as-is and simply won't match any route.
func ParseLocation(raw string, o *Options) Location {
	if o != nil && o.Basename != "" {
		raw = strings.TrimPrefix(raw, o.Basename)
	}
	if raw == "" {
		raw = "/"
	}

	rest, hash, _ := strings.Cut(raw, "#")
	pathname, search, _ := strings.Cut(rest, "?")

	if canon, err := CanonicalizePath(pathname); err == nil {
		pathname = canon
	}

	return Location{
		Pathname: pathname,
		Search:   search,
		Hash:     hash,
		Key:      NewKey(),
		URL:      buildURL(pathname, search, hash),
	}
}

// buildURL assembles path+search+hash.
func buildURL(pathname, search, hash string) string {
	url := pathname
	if search != "" {
		url += "?" + search
	}
	if hash != "" {
		url += "#" + hash
	}
	return url
}

// LocationForAction derives the Location an action would occupy, using
// the table to rebuild its URL. Dispatch-only actions have no location
// and return an error.
func LocationForAction(a Action, tbl *Table, o *Options) (Location, error) {
	full, err := ToURL(a, tbl, o)
	if err != nil {
		return Location{}, err
	}
	return ParseLocation(full, o), nil
}
