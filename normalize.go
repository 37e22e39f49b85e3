package xlmacro

import (
	"regexp"
	"strings"
)

var (
	// extensionPattern matches a trailing ".ext" (last dot plus a non-empty suffix).
	extensionPattern = regexp.MustCompile(`\.[^/.]+$`)
	// slugSplitPattern matches every run of characters outside [a-z0-9].
	slugSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalize turns a raw filename, path, slug or title into the key used to
// look it up in a MediaIndex. It keeps the last path segment (either
// separator), lowercases it, drops the extension and collapses everything
// that is not [a-z0-9] into single dashes.
//
// The result only contains lowercase alphanumerics separated by single
// dashes, and Normalize(Normalize(x)) == Normalize(x). Distinct names may
// share a key; the index decides which one wins.
func Normalize(raw string) string {
	s := lastSegment(raw)
	s = strings.ToLower(s)
	s = stripExtension(s)
	s = slugSplitPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return strings.TrimSpace(s)
}

func lastSegment(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, `\`); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func stripExtension(s string) string {
	return extensionPattern.ReplaceAllString(s, "")
}

// urlFilename returns the last "/" segment of a URL and that segment with
// its extension removed.
func urlFilename(sourceURL string) (filename, basename string) {
	filename = sourceURL
	if i := strings.LastIndex(sourceURL, "/"); i >= 0 {
		filename = sourceURL[i+1:]
	}
	return filename, stripExtension(filename)
}

// isURL reports whether a token already carries an http(s) scheme.
func isURL(token string) bool {
	return strings.HasPrefix(token, "http://") || strings.HasPrefix(token, "https://")
}
