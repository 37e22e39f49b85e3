package xlmacro

import "strings"

// linkTarget returns the URL a reconciled cell should link to. Only cells
// that resolved to exactly one URL get a hyperlink; lists stay plain text.
func linkTarget(res Result) (string, bool) {
	if res.Class != Resolved || res.Found != 1 || res.Missing != 0 {
		return "", false
	}
	url := strings.TrimSpace(res.Output)
	if !isURL(url) {
		return "", false
	}
	return url, true
}
