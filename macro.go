package xlmacro

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Built-in macro names.
const (
	MacroPipes     = "pipes"
	MacroTitleCase = "titlecase"
	MacroMediaURLs = "media-urls"
)

// Macro is a transformation applied to a selected range of a workbook.
type Macro interface {
	Name() string
	// SingleColumn reports whether the macro refuses selections wider than
	// one column.
	SingleColumn() bool
	Apply(ctx context.Context, sel *Selection) (*Report, error)
}

// Selection is the validated input handed to a macro.
type Selection struct {
	Workbook *Workbook
	Area     AreaRef
	Values   [][]string // cell text, row by row, as read before the macro ran
	Filter   *RowFilter
	Logger   *slog.Logger
}

// Accept evaluates the row filter for the r-th row of the selection.
func (s *Selection) Accept(r int) (bool, error) {
	return s.Filter.Accept(RowEnv{
		Row:   s.Area.First.Row + r + 1,
		Col:   ColToName(s.Area.First.Col),
		Value: cellAt(s.Values, r, 0),
	})
}

// Ref returns the cell reference of position (r, c) in the selection.
func (s *Selection) Ref(r, c int) CellRef {
	return NewCellRef(s.Area.SheetName(), s.Area.First.Row+r, s.Area.First.Col+c)
}

// Registry maps macro names to macros.
type Registry struct {
	macros map[string]Macro
}

// NewRegistry creates a registry with the built-in macros configured from o.
func NewRegistry(o *Options) *Registry {
	if o == nil {
		o = defaultOptions()
	}
	r := &Registry{macros: make(map[string]Macro)}
	r.Register(&cellMacro{name: MacroPipes, fn: ReplaceCommasWithPipes})
	r.Register(&cellMacro{name: MacroTitleCase, fn: TitleCase})
	r.Register(&mediaURLMacro{opts: o})
	for _, m := range o.macros {
		r.Register(m)
	}
	return r
}

// Register adds or replaces a macro.
func (r *Registry) Register(m Macro) {
	r.macros[m.Name()] = m
}

// Get returns the macro registered under name.
func (r *Registry) Get(name string) (Macro, error) {
	m, ok := r.macros[name]
	if !ok {
		return nil, fmt.Errorf("unknown macro %q (available: %v)", name, r.Names())
	}
	return m, nil
}

// Names returns the registered macro names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.macros))
	for name := range r.macros {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// cellMacro applies a string function to every cell of a rectangular range.
type cellMacro struct {
	name string
	fn   func(string) string
}

func (m *cellMacro) Name() string       { return m.name }
func (m *cellMacro) SingleColumn() bool { return false }

func (m *cellMacro) Apply(ctx context.Context, sel *Selection) (*Report, error) {
	report := &Report{}
	updated := make([][]string, len(sel.Values))

	for r, row := range sel.Values {
		updated[r] = append([]string(nil), row...)
		ok, err := sel.Accept(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			report.Filtered++
			continue
		}
		for c, v := range row {
			updated[r][c] = m.fn(v)
		}
	}

	written, err := sel.Workbook.WriteArea(sel.Area, sel.Values, updated)
	if err != nil {
		return nil, err
	}
	report.Written = written
	return report, nil
}

// mediaURLMacro replaces filenames in one column with media library URLs.
type mediaURLMacro struct {
	opts *Options
}

func (m *mediaURLMacro) Name() string       { return MacroMediaURLs }
func (m *mediaURLMacro) SingleColumn() bool { return true }

func (m *mediaURLMacro) Apply(ctx context.Context, sel *Selection) (*Report, error) {
	if m.opts.fetcher == nil {
		return nil, fmt.Errorf("%s: no media library configured", MacroMediaURLs)
	}

	sel.Logger.Info("loading media library", "rows", len(sel.Values))
	idx, err := BuildIndex(ctx, m.opts.fetcher,
		WithIndexPolicy(m.opts.policy),
		WithIndexLogger(sel.Logger),
	)
	if err != nil {
		return nil, err
	}
	stats := idx.Stats()
	report := &Report{Index: &stats}

	updated := make([][]string, len(sel.Values))
	colors := make([][]string, len(sel.Values))
	var links []CellRef
	var linkURLs []string

	for r := range sel.Values {
		cell := cellAt(sel.Values, r, 0)
		updated[r] = []string{cell}
		colors[r] = []string{""}

		ok, err := sel.Accept(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			report.Filtered++
			continue
		}

		res := Reconcile(cell, idx)
		report.count(res.Class)
		updated[r][0] = res.Output
		colors[r][0] = m.opts.colorFor(res.Class)

		if m.opts.hyperlinks && res.changed(cell) {
			if url, ok := linkTarget(res); ok {
				links = append(links, sel.Ref(r, 0))
				linkURLs = append(linkURLs, url)
			}
		}
	}

	written, err := sel.Workbook.WriteArea(sel.Area, sel.Values, updated)
	if err != nil {
		return nil, err
	}
	report.Written = written
	if err := sel.Workbook.SetBackgrounds(sel.Area, colors); err != nil {
		return nil, err
	}
	for i, ref := range links {
		if err := sel.Workbook.SetHyperlink(ref, linkURLs[i]); err != nil {
			return nil, err
		}
	}
	report.Hyperlinks = len(links)
	return report, nil
}
