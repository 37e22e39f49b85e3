package xlmacro

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// PerPage is the page size requested from the media listing. It is the
// largest page the WordPress REST API accepts.
const PerPage = 100

// MediaRecord is one entry of the remote media library. SourceURL is the
// value written back into the sheet; the other fields are lookup aliases.
// RenderedTitle holds the title as served (entities and markup included)
// when it differs from the decoded Title.
type MediaRecord struct {
	SourceURL     string `json:"source_url"`
	Slug          string `json:"slug,omitempty"`
	Title         string `json:"title,omitempty"`
	RenderedTitle string `json:"rendered_title,omitempty"`
}

// Page is one page of the media listing. TotalPages is zero when the
// server did not report it.
type Page struct {
	Records    []MediaRecord
	TotalPages int
}

// PageFetcher fetches one 1-based page of the media listing. A non-success
// response must be reported as a *StatusError; BuildIndex treats it as the
// end of the listing. Any other error aborts the build.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, perPage int) (Page, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, page, perPage int) (Page, error)

// FetchPage calls f.
func (f PageFetcherFunc) FetchPage(ctx context.Context, page, perPage int) (Page, error) {
	return f(ctx, page, perPage)
}

// StatusError reports a non-success HTTP status for a media page.
type StatusError struct {
	Page       int
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "media page status error"
	}
	return fmt.Sprintf("media page %d: HTTP %d", e.Page, e.StatusCode)
}

// CollisionPolicy decides which record keeps a key shared by several records.
type CollisionPolicy int

const (
	LastWriteWins  CollisionPolicy = iota // later records in pagination order overwrite
	FirstWriteWins                        // the first record registered keeps the key
)

// ParseCollisionPolicy accepts "last" or "first" (empty means "last").
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch s {
	case "", "last":
		return LastWriteWins, nil
	case "first":
		return FirstWriteWins, nil
	default:
		return LastWriteWins, fmt.Errorf("unknown collision policy %q (want \"last\" or \"first\")", s)
	}
}

func (p CollisionPolicy) String() string {
	if p == FirstWriteWins {
		return "first"
	}
	return "last"
}

// StopReason tells why pagination ended.
type StopReason string

const (
	StopEmptyPage  StopReason = "empty-page"
	StopShortPage  StopReason = "short-page"
	StopLastPage   StopReason = "last-page"
	StopPageFailed StopReason = "page-failed"
)

// MediaIndex maps normalized aliases to canonical media URLs. It is built
// once per invocation by BuildIndex and never modified afterwards.
type MediaIndex struct {
	urls map[string]string

	pages      int
	records    int
	skipped    int
	stop       StopReason
	failure    *StatusError
	collisions int
}

// IndexOption configures BuildIndex.
type IndexOption func(*indexConfig)

type indexConfig struct {
	policy CollisionPolicy
	logger *slog.Logger
}

// WithIndexPolicy selects how colliding aliases are resolved.
func WithIndexPolicy(p CollisionPolicy) IndexOption {
	return func(c *indexConfig) { c.policy = p }
}

// WithIndexLogger sets the logger used to report pagination progress.
func WithIndexLogger(l *slog.Logger) IndexOption {
	return func(c *indexConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newIndexConfig(opts []IndexOption) *indexConfig {
	cfg := &indexConfig{
		policy: LastWriteWins,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// BuildIndex pages through the media listing and indexes every record.
//
// Pages are requested one after another starting at 1. Pagination ends on an
// empty page, on a page shorter than PerPage, once the server-reported page
// count is reached, or when a page fails with a *StatusError. A failed page
// is not an error: the index keeps what was gathered and reports
// Incomplete(). Transport, decoding and context errors abort the build.
//
// There are no retries.
func BuildIndex(ctx context.Context, fetcher PageFetcher, opts ...IndexOption) (*MediaIndex, error) {
	if fetcher == nil {
		return nil, errors.New("build index: nil page fetcher")
	}
	cfg := newIndexConfig(opts)
	idx := &MediaIndex{urls: make(map[string]string)}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build index: %w", err)
		}

		result, err := fetcher.FetchPage(ctx, page, PerPage)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				idx.stop = StopPageFailed
				idx.failure = statusErr
				cfg.logger.Warn("media page failed, index may be incomplete",
					"page", page, "status", statusErr.StatusCode, "records", idx.records)
				break
			}
			return nil, fmt.Errorf("build index: fetch page %d: %w", page, err)
		}
		if len(result.Records) == 0 {
			idx.stop = StopEmptyPage
			break
		}

		idx.pages++
		for _, rec := range result.Records {
			idx.add(rec, cfg.policy)
		}
		cfg.logger.Debug("media page indexed", "page", page, "records", len(result.Records), "keys", len(idx.urls))

		if len(result.Records) < PerPage {
			idx.stop = StopShortPage
			break
		}
		if result.TotalPages > 0 && page >= result.TotalPages {
			idx.stop = StopLastPage
			break
		}
	}

	cfg.logger.Info("media index built",
		"pages", idx.pages, "records", idx.records, "keys", len(idx.urls), "stop", string(idx.stop))
	return idx, nil
}

// NewIndex indexes records directly, in order, without pagination.
func NewIndex(records []MediaRecord, policy CollisionPolicy) *MediaIndex {
	idx := &MediaIndex{urls: make(map[string]string)}
	for _, rec := range records {
		idx.add(rec, policy)
	}
	return idx
}

func (idx *MediaIndex) add(rec MediaRecord, policy CollisionPolicy) {
	if rec.SourceURL == "" {
		idx.skipped++
		return
	}
	idx.records++

	filename, basename := urlFilename(rec.SourceURL)
	aliases := []string{filename, basename}
	if rec.Slug != "" {
		aliases = append(aliases, rec.Slug)
	}
	if rec.Title != "" {
		aliases = append(aliases, rec.Title)
	}
	if rec.RenderedTitle != "" && rec.RenderedTitle != rec.Title {
		aliases = append(aliases, rec.RenderedTitle)
	}

	for _, alias := range aliases {
		key := Normalize(alias)
		if existing, ok := idx.urls[key]; ok {
			if existing != rec.SourceURL {
				idx.collisions++
			}
			if policy == FirstWriteWins {
				continue
			}
		}
		idx.urls[key] = rec.SourceURL
	}
}

// Lookup returns the URL registered for an already normalized key.
func (idx *MediaIndex) Lookup(key string) (string, bool) {
	if idx == nil {
		return "", false
	}
	u, ok := idx.urls[key]
	return u, ok
}

// Resolve normalizes a raw filename and looks it up.
func (idx *MediaIndex) Resolve(filename string) (string, bool) {
	return idx.Lookup(Normalize(filename))
}

// Len returns the number of distinct keys.
func (idx *MediaIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.urls)
}

// Incomplete reports whether pagination stopped on a failed page, in which
// case the index may be missing records.
func (idx *MediaIndex) Incomplete() bool {
	return idx != nil && idx.stop == StopPageFailed
}

// Stats summarizes how the index was built.
func (idx *MediaIndex) Stats() IndexStats {
	if idx == nil {
		return IndexStats{}
	}
	s := IndexStats{
		Pages:      idx.pages,
		Records:    idx.records,
		Skipped:    idx.skipped,
		Keys:       len(idx.urls),
		Collisions: idx.collisions,
		Stop:       idx.stop,
		Incomplete: idx.Incomplete(),
	}
	if idx.failure != nil {
		s.FailedStatus = idx.failure.StatusCode
	}
	return s
}

// IndexStats describes a built MediaIndex.
type IndexStats struct {
	Pages        int        `json:"pages"`
	Records      int        `json:"records"`
	Skipped      int        `json:"skipped_without_url"`
	Keys         int        `json:"keys"`
	Collisions   int        `json:"collisions"`
	Stop         StopReason `json:"stop_reason,omitempty"`
	Incomplete   bool       `json:"incomplete"`
	FailedStatus int        `json:"failed_status,omitempty"`
}
