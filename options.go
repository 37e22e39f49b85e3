package xlmacro

import (
	"io"
	"log/slog"
)

// Default highlight colours for reconciled cells.
const (
	DefaultPartialColor    = "FFFFCC" // light yellow
	DefaultUnresolvedColor = "FFCCCC" // light red
)

// Options holds configuration for the Runner.
type Options struct {
	area            string
	rowFilter       string
	logger          *slog.Logger
	fetcher         PageFetcher
	policy          CollisionPolicy
	partialColor    string
	unresolvedColor string
	hyperlinks      bool
	macros          map[string]Macro
}

func defaultOptions() *Options {
	return &Options{
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		policy:          LastWriteWins,
		partialColor:    DefaultPartialColor,
		unresolvedColor: DefaultUnresolvedColor,
	}
}

// Option configures the Runner.
type Option func(*Options)

// WithRange sets the target range, e.g. "Sheet1!A2:A200" or "B:B". Without
// it the active sheet's saved selection is used.
func WithRange(ref string) Option {
	return func(o *Options) { o.area = ref }
}

// WithRowFilter restricts the rows a macro touches with an expr-lang
// expression over row, col and value (see RowEnv).
func WithRowFilter(expression string) Option {
	return func(o *Options) { o.rowFilter = expression }
}

// WithLogger sets the structured logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPageFetcher sets the media listing used by the media-urls macro.
func WithPageFetcher(f PageFetcher) Option {
	return func(o *Options) { o.fetcher = f }
}

// WithCollisionPolicy selects which record keeps an alias shared by several
// media records (default: LastWriteWins).
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(o *Options) { o.policy = p }
}

// WithColors overrides the partial and unresolved highlight colours.
// Empty values keep the defaults.
func WithColors(partial, unresolved string) Option {
	return func(o *Options) {
		if partial != "" {
			o.partialColor = partial
		}
		if unresolved != "" {
			o.unresolvedColor = unresolved
		}
	}
}

// WithHyperlinks makes cells resolved to a single URL clickable.
func WithHyperlinks(enabled bool) Option {
	return func(o *Options) { o.hyperlinks = enabled }
}

// WithMacro registers an additional macro, replacing a built-in one with
// the same name.
func WithMacro(m Macro) Option {
	return func(o *Options) {
		if o.macros == nil {
			o.macros = make(map[string]Macro)
		}
		o.macros[m.Name()] = m
	}
}

// colorFor maps a classification to its highlight colour. Resolved and
// skipped cells lose any highlight left by an earlier run.
func (o *Options) colorFor(c Classification) string {
	switch c {
	case Partial:
		return o.partialColor
	case Unresolved:
		return o.unresolvedColor
	default:
		return NoFill
	}
}
