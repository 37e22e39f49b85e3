package xlmacro

import (
	"fmt"
	"strings"
)

// Report summarizes one macro invocation.
type Report struct {
	Macro      string      `json:"macro"`
	Range      string      `json:"range"`
	Rows       int         `json:"rows"`
	Cells      int         `json:"cells"`
	Written    int         `json:"written"`
	Filtered   int         `json:"filtered,omitempty"`
	Resolved   int         `json:"resolved,omitempty"`
	Partial    int         `json:"partial,omitempty"`
	Unresolved int         `json:"unresolved,omitempty"`
	Skipped    int         `json:"skipped,omitempty"`
	Hyperlinks int         `json:"hyperlinks,omitempty"`
	Index      *IndexStats `json:"index,omitempty"`
}

func (r *Report) count(c Classification) {
	switch c {
	case Resolved:
		r.Resolved++
	case Partial:
		r.Partial++
	case Unresolved:
		r.Unresolved++
	default:
		r.Skipped++
	}
}

// Describe returns a human-readable summary of the report.
func (r *Report) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s on %s: %d row(s), %d cell(s), %d written\n", r.Macro, r.Range, r.Rows, r.Cells, r.Written)
	if r.Filtered > 0 {
		fmt.Fprintf(&b, "  filtered out:          %d\n", r.Filtered)
	}
	if r.Index == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "  successfully replaced: %d\n", r.Resolved)
	fmt.Fprintf(&b, "  partially matched:     %d\n", r.Partial)
	fmt.Fprintf(&b, "  not found:             %d\n", r.Unresolved)
	fmt.Fprintf(&b, "  skipped:               %d\n", r.Skipped)
	if r.Hyperlinks > 0 {
		fmt.Fprintf(&b, "  hyperlinks:            %d\n", r.Hyperlinks)
	}
	fmt.Fprintf(&b, "media library: %d record(s), %d key(s), %d page(s)\n", r.Index.Records, r.Index.Keys, r.Index.Pages)
	if r.Index.Incomplete {
		fmt.Fprintf(&b, "warning: media library listing stopped early (HTTP %d); some files may be reported as not found\n", r.Index.FailedStatus)
	}
	return b.String()
}
