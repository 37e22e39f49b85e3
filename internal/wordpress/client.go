package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/javajack/xlmacro"
)

const (
	mediaPath          = "wp-json/wp/v2/media"
	defaultUserAgent   = "xlmacro/dev"
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 4096
	totalPagesHeader   = "X-WP-TotalPages"
)

// Config describes the WordPress client configuration.
type Config struct {
	SiteURL     string
	Username    string
	AppPassword string
	UserAgent   string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client wraps the WordPress media REST endpoint.
type Client struct {
	endpoint    *url.URL
	username    string
	appPassword string
	userAgent   string
	http        *http.Client
}

var _ xlmacro.PageFetcher = (*Client)(nil)

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	site := strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	if site == "" {
		return nil, errors.New("wordpress: site url is required")
	}
	base, err := url.Parse(site)
	if err != nil {
		return nil, fmt.Errorf("wordpress: parse site url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("wordpress: site url %q must be absolute", cfg.SiteURL)
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:    base.JoinPath(mediaPath),
		username:    strings.TrimSpace(cfg.Username),
		appPassword: strings.TrimSpace(cfg.AppPassword),
		userAgent:   userAgent,
		http:        client,
	}, nil
}

// mediaItem is the subset of a media object the index needs.
type mediaItem struct {
	SourceURL string `json:"source_url"`
	Slug      string `json:"slug"`
	Title     struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
}

// FetchPage fetches one 1-based page of the media library. A response other
// than 200 OK is returned as *xlmacro.StatusError.
func (c *Client) FetchPage(ctx context.Context, page, perPage int) (xlmacro.Page, error) {
	if c == nil {
		return xlmacro.Page{}, errors.New("wordpress: client is nil")
	}
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	resp, err := c.get(ctx, params)
	if err != nil {
		return xlmacro.Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return xlmacro.Page{}, &xlmacro.StatusError{
			Page:       page,
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp.Body),
		}
	}

	var items []mediaItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return xlmacro.Page{}, fmt.Errorf("wordpress: decode media page %d: %w", page, err)
	}

	records := make([]xlmacro.MediaRecord, 0, len(items))
	for _, item := range items {
		rec := xlmacro.MediaRecord{
			SourceURL: strings.TrimSpace(item.SourceURL),
			Slug:      item.Slug,
			Title:     plainText(item.Title.Rendered),
		}
		if raw := strings.TrimSpace(item.Title.Rendered); raw != rec.Title {
			rec.RenderedTitle = raw
		}
		records = append(records, rec)
	}

	total, _ := strconv.Atoi(resp.Header.Get(totalPagesHeader))
	return xlmacro.Page{Records: records, TotalPages: total}, nil
}

// ConnectionResult reports the outcome of TestConnection.
type ConnectionResult struct {
	OK         bool
	StatusCode int
	Body       string
	Err        error
	Elapsed    time.Duration
}

// TestConnection requests a single media item to check the site URL and
// credentials. Failures are reported in the result rather than returned.
func (c *Client) TestConnection(ctx context.Context) ConnectionResult {
	start := time.Now()
	resp, err := c.get(ctx, url.Values{"per_page": {"1"}})
	if err != nil {
		return ConnectionResult{Err: err, Elapsed: time.Since(start)}
	}
	defer resp.Body.Close()

	result := ConnectionResult{
		OK:         resp.StatusCode == http.StatusOK,
		StatusCode: resp.StatusCode,
		Elapsed:    time.Since(start),
	}
	if !result.OK {
		result.Body = readErrorBody(resp.Body)
	}
	return result
}

// Endpoint returns the media listing URL the client queries.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

func (c *Client) get(ctx context.Context, params url.Values) (*http.Response, error) {
	endpoint := *c.endpoint
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("wordpress: build media request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.username != "" && c.appPassword != "" {
		req.SetBasicAuth(c.username, c.appPassword)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wordpress: media request failed: %w", err)
	}
	return resp, nil
}

func readErrorBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(body))
}

// plainText turns a rendered title ("Caf&eacute; <em>menu</em>") into text.
func plainText(rendered string) string {
	if !strings.ContainsAny(rendered, "<&") {
		return strings.TrimSpace(rendered)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return strings.TrimSpace(rendered)
	}
	return strings.TrimSpace(doc.Text())
}
