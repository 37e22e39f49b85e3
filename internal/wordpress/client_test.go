package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajack/xlmacro"
)

type fakeItem struct {
	SourceURL string `json:"source_url"`
	Slug      string `json:"slug"`
	Title     struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
}

func items(n int) []fakeItem {
	out := make([]fakeItem, n)
	for i := range out {
		out[i].SourceURL = fmt.Sprintf("https://ex.com/wp-content/uploads/img-%03d.jpg", i)
		out[i].Slug = fmt.Sprintf("img-%03d", i)
		out[i].Title.Rendered = fmt.Sprintf("Image %d", i)
	}
	return out
}

// mediaServer serves library in WordPress's paging format and counts hits.
func mediaServer(t *testing.T, library []fakeItem, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path != "/wp-json/wp/v2/media" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}
		totalPages := (len(library) + perPage - 1) / perPage
		if page > totalPages && len(library) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"rest_post_invalid_page_number"}`))
			return
		}
		start := min((page-1)*perPage, len(library))
		end := min(start+perPage, len(library))
		w.Header().Set("X-WP-Total", strconv.Itoa(len(library)))
		w.Header().Set("X-WP-TotalPages", strconv.Itoa(totalPages))
		_ = json.NewEncoder(w).Encode(library[start:end])
	}))
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestFetchPage_RequestAndDecode(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("X-WP-TotalPages", "7")
		_, _ = w.Write([]byte(`[
			{"id":1,"source_url":"https://ex.com/u/hero.jpg","slug":"hero","title":{"rendered":"Caf&eacute; <em>Hero</em>"}},
			{"id":2,"source_url":"","slug":"broken","title":{"rendered":"Broken"}}
		]`))
	}))
	defer server.Close()

	c := newClient(t, Config{SiteURL: server.URL + "/", Username: "editor", AppPassword: "abcd efgh"})
	page, err := c.FetchPage(context.Background(), 3, 100)
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "/wp-json/wp/v2/media", captured.URL.Path)
	assert.Equal(t, "100", captured.URL.Query().Get("per_page"))
	assert.Equal(t, "3", captured.URL.Query().Get("page"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, defaultUserAgent, captured.Header.Get("User-Agent"))
	user, pass, ok := captured.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "editor", user)
	assert.Equal(t, "abcd efgh", pass)

	assert.Equal(t, 7, page.TotalPages)
	assert.Equal(t, []xlmacro.MediaRecord{
		{SourceURL: "https://ex.com/u/hero.jpg", Slug: "hero", Title: "Café Hero", RenderedTitle: "Caf&eacute; <em>Hero</em>"},
		{SourceURL: "", Slug: "broken", Title: "Broken"},
	}, page.Records)
}

func TestFetchPage_NoAuthWithoutBothCredentials(t *testing.T) {
	var authSeen atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			authSeen.Store(true)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := newClient(t, Config{SiteURL: server.URL, Username: "editor"})
	_, err := c.FetchPage(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.False(t, authSeen.Load())
}

func TestFetchPage_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"rest_forbidden"}`))
	}))
	defer server.Close()

	c := newClient(t, Config{SiteURL: server.URL})
	_, err := c.FetchPage(context.Background(), 2, 100)
	require.Error(t, err)

	var statusErr *xlmacro.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 2, statusErr.Page)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "rest_forbidden")
}

func TestFetchPage_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	c := newClient(t, Config{SiteURL: server.URL})
	_, err := c.FetchPage(context.Background(), 1, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode media page 1")

	var statusErr *xlmacro.StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestFetchPage_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := newClient(t, Config{SiteURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := c.FetchPage(context.Background(), 1, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "media request failed")
}

func TestBuildIndexOverHTTP(t *testing.T) {
	var hits atomic.Int32
	server := mediaServer(t, items(250), &hits)
	c := newClient(t, Config{SiteURL: server.URL})

	idx, err := xlmacro.BuildIndex(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
	assert.False(t, idx.Incomplete())

	stats := idx.Stats()
	assert.Equal(t, 250, stats.Records)
	assert.Equal(t, 3, stats.Pages)

	url, ok := idx.Resolve("IMG-249.JPG")
	assert.True(t, ok)
	assert.Equal(t, "https://ex.com/wp-content/uploads/img-249.jpg", url)
	url, ok = idx.Resolve("Image 7")
	assert.True(t, ok)
	assert.Equal(t, "https://ex.com/wp-content/uploads/img-007.jpg", url)
}

func TestBuildIndexOverHTTP_ExactMultiple(t *testing.T) {
	var hits atomic.Int32
	server := mediaServer(t, items(200), &hits)
	c := newClient(t, Config{SiteURL: server.URL})

	idx, err := xlmacro.BuildIndex(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "server page count avoids the out-of-range request")
	assert.Equal(t, 200, idx.Stats().Records)
	assert.False(t, idx.Incomplete())
}

func TestTestConnection(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	result := newClient(t, Config{SiteURL: server.URL}).TestConnection(context.Background())
	assert.True(t, result.OK)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.NoError(t, result.Err)
	require.NotNil(t, captured)
	assert.Equal(t, "1", captured.URL.Query().Get("per_page"))
	assert.Empty(t, captured.URL.Query().Get("page"))
}

func TestTestConnection_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("  forbidden  "))
	}))
	defer server.Close()

	result := newClient(t, Config{SiteURL: server.URL}).TestConnection(context.Background())
	assert.False(t, result.OK)
	assert.Equal(t, http.StatusForbidden, result.StatusCode)
	assert.Equal(t, "forbidden", result.Body)
	assert.NoError(t, result.Err)
}

func TestTestConnection_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	result := newClient(t, Config{SiteURL: url}).TestConnection(context.Background())
	assert.False(t, result.OK)
	assert.Zero(t, result.StatusCode)
	assert.Error(t, result.Err)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	_, err = New(Config{SiteURL: "shop.example.com"})
	require.Error(t, err)

	c, err := New(Config{SiteURL: "https://shop.example.com/blog/"})
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/blog/wp-json/wp/v2/media", c.Endpoint())
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Plain", plainText(" Plain "))
	assert.Equal(t, "Tom & Jerry", plainText("Tom &amp; Jerry"))
	assert.Equal(t, "Bold title", plainText("<strong>Bold</strong> title"))
	assert.Equal(t, "", plainText(""))
}
