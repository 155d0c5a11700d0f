package enrich

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

	"golang.org/x/net/html"
)

const (
	defaultBaseURL     = "https://en.wikipedia.org"
	defaultUserAgent   = "IndiaAura/1.0 (educational project)"
	defaultTimeout     = 10 * time.Second
	defaultSearchLimit = 5
	maxSearchLimit     = 50
	maxResponseBytes   = 2 << 20
)

// ErrSummaryUnavailable is returned when the summary payload has no usable content.
var ErrSummaryUnavailable = errors.New("enrich: summary unavailable")

// StatusError reports a non-success response from the encyclopedia API.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("enrich: %s returned status %d", e.URL, e.StatusCode)
}

// Summary is the subset of the page summary payload the site uses.
type Summary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ExtractHTML string `json:"extract_html"`
	Thumbnail   struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// SearchResult is one hit from the encyclopedia full-text search.
type SearchResult struct {
	PageID    int64  `json:"pageId"`
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	SourceURL string `json:"sourceUrl"`
}

// WikipediaClient talks to the public Wikipedia REST and action APIs.
type WikipediaClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// ClientOption customises a WikipediaClient.
type ClientOption func(*WikipediaClient)

// WithBaseURL points the client at another host, typically a test server.
func WithBaseURL(base string) ClientOption {
	return func(c *WikipediaClient) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *WikipediaClient) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *WikipediaClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *WikipediaClient) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewWikipediaClient constructs a client with sensible defaults.
func NewWikipediaClient(opts ...ClientOption) *WikipediaClient {
	c := &WikipediaClient{
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Summary fetches the page summary for title.
func (c *WikipediaClient) Summary(ctx context.Context, title string) (Summary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Summary{}, ErrSummaryUnavailable
	}

	endpoint := c.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(title)
	var summary Summary
	if err := c.getJSON(ctx, endpoint, &summary); err != nil {
		return Summary{}, err
	}
	if summary.Extract == "" && summary.ExtractHTML == "" && summary.Thumbnail.Source == "" {
		return Summary{}, ErrSummaryUnavailable
	}
	return summary, nil
}

type searchResponse struct {
	Query struct {
		Search []struct {
			PageID  int64  `json:"pageid"`
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

// Search runs a full-text search scoped to Indian heritage. A blank query returns no results
// without contacting the API.
func (c *WikipediaClient) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query+" india heritage")
	params.Set("format", "json")
	params.Set("srlimit", strconv.Itoa(limit))
	params.Set("origin", "*")

	var payload searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/w/api.php?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(payload.Query.Search))
	for _, hit := range payload.Query.Search {
		results = append(results, SearchResult{
			PageID:    hit.PageID,
			Title:     hit.Title,
			Snippet:   PlainText(hit.Snippet),
			SourceURL: c.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(hit.Title, " ", "_")),
		})
	}
	return results, nil
}

func (c *WikipediaClient) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("enrich: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("enrich: request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &StatusError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dst); err != nil {
		return fmt.Errorf("enrich: decode %s: %w", endpoint, err)
	}
	return nil
}

// PlainText drops markup from an HTML fragment and collapses whitespace.
func PlainText(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}
