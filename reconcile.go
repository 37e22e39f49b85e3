package xlmacro

import "strings"

// Classification is the outcome of reconciling one cell.
type Classification int

const (
	Skipped    Classification = iota // empty cell, or every token already a URL
	Resolved                         // every token found
	Partial                          // some tokens found
	Unresolved                       // no token found
)

func (c Classification) String() string {
	switch c {
	case Resolved:
		return "resolved"
	case Partial:
		return "partial"
	case Unresolved:
		return "unresolved"
	default:
		return "skipped"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Result is the reconciled value of one cell.
type Result struct {
	Output  string
	Class   Classification
	Found   int
	Missing int
}

// changed reports whether Output differs from the input cell.
func (r Result) changed(input string) bool {
	return r.Output != input
}

// Reconcile replaces filename tokens in a cell with the media URLs they map
// to. The cell is a comma-separated list of filenames and/or URLs. Tokens
// that already are URLs count as found and are kept; filenames are
// normalized and looked up in idx. A nil idx behaves like an empty index.
//
// Empty cells and cells made only of URLs are skipped and returned as-is.
func Reconcile(cell string, idx *MediaIndex) Result {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return Result{Output: cell, Class: Skipped}
	}

	tokens := strings.Split(trimmed, ",")
	allURLs := true
	for i, tok := range tokens {
		tokens[i] = strings.TrimSpace(tok)
		if !isURL(tokens[i]) {
			allURLs = false
		}
	}
	if allURLs {
		return Result{Output: cell, Class: Skipped}
	}

	res := Result{}
	for i, tok := range tokens {
		if isURL(tok) {
			res.Found++
			continue
		}
		if url, ok := idx.Lookup(Normalize(tok)); ok {
			tokens[i] = url
			res.Found++
			continue
		}
		res.Missing++
	}
	res.Output = strings.Join(tokens, ", ")

	switch {
	case res.Found > 0 && res.Missing > 0:
		res.Class = Partial
	case res.Found > 0:
		res.Class = Resolved
	default:
		res.Class = Unresolved
	}
	return res
}
