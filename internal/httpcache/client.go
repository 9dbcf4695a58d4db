package httpcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// catalog sources are slower than TMDB; the original client allowed 20s.
const requestTimeout = 20 * time.Second

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

// maxBodySize caps a catalog download; sources are JSON lists, not media.
const maxBodySize = 16 << 20

// Client fetches remote catalog documents with read-through caching.
type Client struct {
	httpClient *http.Client
	store      *Store
	ttl        time.Duration
	log        *slog.Logger
}

// NewClient creates a caching fetcher. store may be nil to disable caching.
func NewClient(store *Store, ttl time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		store:      store,
		ttl:        ttl,
		log:        log,
	}
}

// WithHTTPClient replaces the underlying HTTP client (for tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Get downloads a catalog resource, honoring request headers embedded in
// the URL after a "|" separator ("http://...|Referer=x&User-Agent=y"), a
// convention carried by some source lists.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	target, headers := splitHeaderSuffix(rawURL)

	if c.store != nil {
		if body, ok := c.store.Get(ctx, rawURL); ok {
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", target, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}

	if c.store != nil {
		if err := c.store.Set(ctx, rawURL, body, c.ttl); err != nil {
			c.log.Warn("http cache write failed", "url", target, "err", err)
		}
	}
	return body, nil
}

// splitHeaderSuffix separates the "|name=value&name=value" header suffix
// from a source URL.
func splitHeaderSuffix(rawURL string) (string, map[string]string) {
	i := strings.Index(rawURL, "|")
	if i < 0 {
		return rawURL, nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(rawURL[i+1:], "&") {
		if k, v, ok := strings.Cut(pair, "="); ok {
			headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return rawURL[:i], headers
}
