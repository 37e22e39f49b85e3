package xlmacro

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedLibrary serves records in pages the way the media endpoint does.
type pagedLibrary struct {
	records     []MediaRecord
	failAt      int  // page that answers with a status error (0 = never)
	reportTotal bool // include TotalPages like the X-WP-TotalPages header
	calls       int
}

func (l *pagedLibrary) FetchPage(ctx context.Context, page, perPage int) (Page, error) {
	l.calls++
	if page == l.failAt {
		return Page{}, &StatusError{Page: page, StatusCode: 500}
	}
	start := (page - 1) * perPage
	if start >= len(l.records) {
		if l.reportTotal {
			return Page{}, &StatusError{Page: page, StatusCode: 400}
		}
		return Page{}, nil
	}
	end := min(start+perPage, len(l.records))
	p := Page{Records: l.records[start:end]}
	if l.reportTotal {
		p.TotalPages = (len(l.records) + perPage - 1) / perPage
	}
	return p, nil
}

func makeRecords(n int) []MediaRecord {
	recs := make([]MediaRecord, n)
	for i := range recs {
		recs[i] = MediaRecord{SourceURL: fmt.Sprintf("https://x.test/uploads/img-%04d.jpg", i)}
	}
	return recs
}

func TestBuildIndex_RegistersAllAliases(t *testing.T) {
	lib := &pagedLibrary{records: []MediaRecord{
		{SourceURL: "https://x.test/uploads/2024/05/Red-Shoe-Final.png", Slug: "red-shoe-slug", Title: "Red Shoe (Studio)"},
		{SourceURL: "https://x.test/uploads/hat.jpg"},
	}}

	idx, err := BuildIndex(context.Background(), lib)
	require.NoError(t, err)

	want := map[string]string{
		"red-shoe-final":  "https://x.test/uploads/2024/05/Red-Shoe-Final.png",
		"red-shoe-slug":   "https://x.test/uploads/2024/05/Red-Shoe-Final.png",
		"red-shoe-studio": "https://x.test/uploads/2024/05/Red-Shoe-Final.png",
		"hat":             "https://x.test/uploads/hat.jpg",
	}
	for key, url := range want {
		got, ok := idx.Lookup(key)
		assert.True(t, ok, key)
		assert.Equal(t, url, got, key)
	}
	assert.Equal(t, len(want), idx.Len())
	assert.Equal(t, 1, lib.calls)
	assert.Equal(t, StopShortPage, idx.Stats().Stop)
	assert.False(t, idx.Incomplete())
}

func TestNewIndex_RenderedTitleAlias(t *testing.T) {
	idx := NewIndex([]MediaRecord{{
		SourceURL:     "https://x.test/uploads/menu.jpg",
		Title:         "Café",
		RenderedTitle: "Caf&eacute;",
	}}, LastWriteWins)

	for _, key := range []string{"menu", "caf", "caf-eacute"} {
		url, ok := idx.Lookup(key)
		assert.True(t, ok, key)
		assert.Equal(t, "https://x.test/uploads/menu.jpg", url, key)
	}
	assert.Zero(t, idx.Stats().Collisions)
}

func TestBuildIndex_SkipsRecordsWithoutURL(t *testing.T) {
	lib := &pagedLibrary{records: []MediaRecord{
		{Slug: "orphan", Title: "Orphan"},
		{SourceURL: "https://x.test/a.jpg"},
	}}
	idx, err := BuildIndex(context.Background(), lib)
	require.NoError(t, err)

	_, ok := idx.Lookup("orphan")
	assert.False(t, ok)
	stats := idx.Stats()
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, 1, stats.Skipped)
}

func TestBuildIndex_PaginatesUntilShortPage(t *testing.T) {
	lib := &pagedLibrary{records: makeRecords(250)}
	idx, err := BuildIndex(context.Background(), lib)
	require.NoError(t, err)

	assert.Equal(t, 3, lib.calls)
	assert.Equal(t, 3, idx.Stats().Pages)
	assert.Equal(t, 250, idx.Stats().Records)
	url, ok := idx.Resolve("IMG-0249.PNG")
	require.True(t, ok)
	assert.Equal(t, "https://x.test/uploads/img-0249.jpg", url)
}

func TestBuildIndex_ExactMultipleStopsOnEmptyPage(t *testing.T) {
	lib := &pagedLibrary{records: makeRecords(200)}
	idx, err := BuildIndex(context.Background(), lib)
	require.NoError(t, err)

	assert.Equal(t, 3, lib.calls)
	assert.Equal(t, StopEmptyPage, idx.Stats().Stop)
	assert.False(t, idx.Incomplete())
}

func TestBuildIndex_TotalPagesBoundsFetches(t *testing.T) {
	for _, n := range []int{1, 99, 100, 101, 300} {
		lib := &pagedLibrary{records: makeRecords(n), reportTotal: true}
		idx, err := BuildIndex(context.Background(), lib)
		require.NoError(t, err)
		assert.Equal(t, (n+PerPage-1)/PerPage, lib.calls, "records=%d", n)
		assert.False(t, idx.Incomplete(), "records=%d", n)
		assert.Equal(t, n, idx.Stats().Records)
	}
}

func TestBuildIndex_EmptyLibrary(t *testing.T) {
	lib := &pagedLibrary{}
	idx, err := BuildIndex(context.Background(), lib)
	require.NoError(t, err)
	assert.Equal(t, 1, lib.calls)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, StopEmptyPage, idx.Stats().Stop)
}

func TestBuildIndex_FailedPageKeepsPartialIndex(t *testing.T) {
	lib := &pagedLibrary{records: makeRecords(300), failAt: 2}
	idx, err := BuildIndex(context.Background(), lib)
	require.NoError(t, err)

	assert.Equal(t, 2, lib.calls)
	assert.True(t, idx.Incomplete())
	stats := idx.Stats()
	assert.Equal(t, StopPageFailed, stats.Stop)
	assert.Equal(t, 500, stats.FailedStatus)
	assert.Equal(t, 100, stats.Records)

	_, ok := idx.Lookup("img-0099")
	assert.True(t, ok)
	_, ok = idx.Lookup("img-0100")
	assert.False(t, ok)
}

func TestBuildIndex_FirstPageFailureIsEmptyNotError(t *testing.T) {
	lib := &pagedLibrary{records: makeRecords(10), failAt: 1}
	idx, err := BuildIndex(context.Background(), lib)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.True(t, idx.Incomplete())
}

func TestBuildIndex_TransportErrorAborts(t *testing.T) {
	boom := errors.New("connection reset")
	fetcher := PageFetcherFunc(func(ctx context.Context, page, perPage int) (Page, error) {
		if page == 1 {
			return Page{Records: makeRecords(PerPage)}, nil
		}
		return Page{}, boom
	})
	idx, err := BuildIndex(context.Background(), fetcher)
	assert.Nil(t, idx)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "page 2")
}

func TestBuildIndex_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lib := &pagedLibrary{records: makeRecords(5)}
	_, err := BuildIndex(ctx, lib)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, lib.calls)
}

func TestBuildIndex_NilFetcher(t *testing.T) {
	_, err := BuildIndex(context.Background(), nil)
	assert.Error(t, err)
}

func TestBuildIndex_PerPageRequested(t *testing.T) {
	var sizes []int
	fetcher := PageFetcherFunc(func(ctx context.Context, page, perPage int) (Page, error) {
		sizes = append(sizes, perPage)
		return Page{}, nil
	})
	_, err := BuildIndex(context.Background(), fetcher)
	require.NoError(t, err)
	assert.Equal(t, []int{100}, sizes)
}

func TestIndex_LastWriteWins(t *testing.T) {
	records := []MediaRecord{
		{SourceURL: "https://x.test/2023/logo.png"},
		{SourceURL: "https://x.test/2024/logo.png"},
	}
	idx := NewIndex(records, LastWriteWins)
	url, ok := idx.Lookup("logo")
	require.True(t, ok)
	assert.Equal(t, "https://x.test/2024/logo.png", url)
	assert.Equal(t, 1, idx.Stats().Collisions)
}

func TestIndex_FirstWriteWins(t *testing.T) {
	records := []MediaRecord{
		{SourceURL: "https://x.test/2023/logo.png"},
		{SourceURL: "https://x.test/2024/logo.png"},
	}
	idx := NewIndex(records, FirstWriteWins)
	url, ok := idx.Lookup("logo")
	require.True(t, ok)
	assert.Equal(t, "https://x.test/2023/logo.png", url)
}

func TestBuildIndex_CollisionPolicyAcrossPages(t *testing.T) {
	records := makeRecords(PerPage)
	records = append(records, MediaRecord{SourceURL: "https://cdn.test/img-0000.jpg"})

	last, err := BuildIndex(context.Background(), &pagedLibrary{records: records})
	require.NoError(t, err)
	url, _ := last.Lookup("img-0000")
	assert.Equal(t, "https://cdn.test/img-0000.jpg", url)

	first, err := BuildIndex(context.Background(), &pagedLibrary{records: records}, WithIndexPolicy(FirstWriteWins))
	require.NoError(t, err)
	url, _ = first.Lookup("img-0000")
	assert.Equal(t, "https://x.test/uploads/img-0000.jpg", url)
}

func TestIndex_EveryRecordReachableByFilenameAndBasename(t *testing.T) {
	records := makeRecords(42)
	idx := NewIndex(records, LastWriteWins)
	for _, rec := range records {
		filename, basename := urlFilename(rec.SourceURL)
		for _, alias := range []string{filename, basename} {
			url, ok := idx.Lookup(Normalize(alias))
			require.True(t, ok, alias)
			assert.Equal(t, rec.SourceURL, url)
		}
	}
}

func TestParseCollisionPolicy(t *testing.T) {
	p, err := ParseCollisionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LastWriteWins, p)

	p, err = ParseCollisionPolicy("first")
	require.NoError(t, err)
	assert.Equal(t, FirstWriteWins, p)
	assert.Equal(t, "first", p.String())

	_, err = ParseCollisionPolicy("newest")
	assert.Error(t, err)
}

func TestNilIndexLookups(t *testing.T) {
	var idx *MediaIndex
	_, ok := idx.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.Incomplete())
}
