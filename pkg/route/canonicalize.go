package route

import (
	"errors"
	"net/url"
	"strings"
)

// Path canonicalization errors.
var (
	ErrBackslashInPath      = errors.New("route: path contains backslash")
	ErrNullByteInPath       = errors.New("route: path contains null byte")
	ErrInvalidPercentEscape = errors.New("route: invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("route: path escapes root via ..")
	ErrEncodedSlash         = errors.New("route: encoded slash in path segment")
)

// CanonicalizePath normalizes a pathname before matching:
//   - ensures a leading slash
//   - collapses repeated slashes
//   - removes "." segments and resolves ".."
//   - drops the trailing slash (except for root)
//
// Backslashes, NUL bytes, malformed percent escapes and ".." escaping
// the root are rejected.
func CanonicalizePath(path string) (string, error) {
	if path == "" {
		return "/", nil
	}

	// SECURITY: Reject backslash and NUL (literal or encoded).
	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}

	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return "", err
		}
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	var kept []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(kept) == 0 {
				return "", ErrPathEscapesRoot
			}
			kept = kept[:len(kept)-1]
		default:
			kept = append(kept, seg)
		}
	}

	path = "/" + strings.Join(kept, "/")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path, nil
}

// validatePercentEscapes checks that every % is followed by two hex
// digits.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); {
		if path[i] != '%' {
			i++
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 3
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// decodeSegment URL-decodes one matched path value. For non-catch-all
// params a decoded "/" indicates path smuggling and is rejected.
func decodeSegment(segment string, isCatchAll bool) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if !isCatchAll && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlash
	}
	return decoded, nil
}
