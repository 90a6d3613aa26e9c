// Package catalog fetches book text and metadata pages from a Gutenberg-style
// catalog.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://www.gutenberg.org"
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "gutenshelf/1.0"

	contentPath  = "/files/%s/%s-0.txt"
	metadataPath = "/ebooks/%s"
)

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Client talks to the content and metadata endpoints.
type Client struct {
	httpClient  *http.Client
	catalogBase string
	contentBase string
	userAgent   string
	limiter     *rate.Limiter
}

// Config holds configuration for the catalog client.
type Config struct {
	CatalogBaseURL string
	ContentBaseURL string
	// RPS caps outgoing requests per second; zero or less disables pacing.
	RPS        int
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

// New creates a catalog client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		// burst matches RPS so the content and metadata requests of one
		// fetch are not serialized
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS)
	}

	return &Client{
		httpClient:  httpClient,
		catalogBase: orDefault(cfg.CatalogBaseURL, defaultBaseURL),
		contentBase: orDefault(cfg.ContentBaseURL, defaultBaseURL),
		userAgent:   orDefault(cfg.UserAgent, defaultUserAgent),
		limiter:     limiter,
	}
}

// ContentURL returns the raw text URL for a book id.
func (c *Client) ContentURL(id string) string {
	esc := url.PathEscape(id)
	return c.contentBase + fmt.Sprintf(contentPath, esc, esc)
}

// MetadataURL returns the metadata page URL for a book id.
func (c *Client) MetadataURL(id string) string {
	return c.catalogBase + fmt.Sprintf(metadataPath, url.PathEscape(id))
}

// FetchContent retrieves the raw text of a book.
func (c *Client) FetchContent(ctx context.Context, id string) (string, error) {
	body, err := c.get(ctx, c.ContentURL(id), "text/plain")
	if err != nil {
		return "", fmt.Errorf("fetch content %s: %w", id, err)
	}
	return body, nil
}

// FetchMetadata retrieves the HTML metadata page of a book.
func (c *Client) FetchMetadata(ctx context.Context, id string) (string, error) {
	body, err := c.get(ctx, c.MetadataURL(id), "text/html,application/xhtml+xml")
	if err != nil {
		return "", fmt.Errorf("fetch metadata %s: %w", id, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, u, accept string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	return string(body), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
