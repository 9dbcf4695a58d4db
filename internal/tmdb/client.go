// Package tmdb fetches movie, series, season and episode detail from The
// Movie Database and caches the normalized records on disk, one JSON file
// per entity.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mrocha/cineplug/internal/catalog"
)

const defaultBaseURL = "https://api.themoviedb.org"

// DefaultCacheTTL is how long a cached entity stays valid.
const DefaultCacheTTL = 7 * 24 * time.Hour

// defaultTimeout bounds each TMDB request. There is no retry beyond the
// single locale-fallback request.
const defaultTimeout = 12 * time.Second

// ErrNotFound is returned when the entity does not exist in TMDB.
var ErrNotFound = errors.New("title not found")

// appendFields selects the sub-resources pulled alongside each entity kind.
var appendFields = map[string]string{
	"movie":   "credits,release_dates,images,videos,external_ids",
	"tv":      "aggregate_credits,content_ratings,images,videos,external_ids",
	"season":  "aggregate_credits,images,videos,external_ids",
	"episode": "credits,images,videos,external_ids",
}

// Client is a TMDB API client with a two-tier entity cache.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	preferred  string
	fallback   string
	store      *store
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLocales sets the preferred locale and the locale used to back-fill
// overview and title when the preferred response comes back thin.
func WithLocales(preferred, fallback string) Option {
	return func(c *Client) {
		c.preferred = preferred
		c.fallback = fallback
	}
}

// WithCacheTTL sets the entity cache validity window.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.store.ttl = ttl
	}
}

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a TMDB client caching entities under cacheDir.
func NewClient(apiKey, cacheDir string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		preferred: "pt-BR",
		fallback:  "en-US",
		store:     newStore(cacheDir, DefaultCacheTTL),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Movie fetches movie detail by TMDB id. On a network or decode failure the
// last cached record is returned alongside the error; the record is empty
// when nothing was ever cached.
func (c *Client) Movie(ctx context.Context, id int64) (catalog.Item, error) {
	return c.fetchEntity(ctx, fmt.Sprintf("movie/%d", id), movieKey(id), "movie", 0)
}

// TV fetches series detail by TMDB id.
func (c *Client) TV(ctx context.Context, id int64) (catalog.Item, error) {
	return c.fetchEntity(ctx, fmt.Sprintf("tv/%d", id), tvKey(id), "tv", 0)
}

// Season fetches one season of a series.
func (c *Client) Season(ctx context.Context, tvID int64, season int) (catalog.Item, error) {
	return c.fetchEntity(ctx, fmt.Sprintf("tv/%d/season/%d", tvID, season), seasonKey(tvID, season), "season", season)
}

// Episode fetches one episode of a season.
func (c *Client) Episode(ctx context.Context, tvID int64, season, episode int) (catalog.Item, error) {
	return c.fetchEntity(ctx, fmt.Sprintf("tv/%d/season/%d/episode/%d", tvID, season, episode), episodeKey(tvID, season, episode), "episode", episode)
}

// Lookup consults the cache only, never the network. It is what bulk
// enrichment uses; the menu builder prefetches uncached items explicitly.
func (c *Client) Lookup(mediaType string, id int64) (catalog.Item, bool) {
	return c.store.get(keyFor(mediaType, id))
}

// Fetch retrieves movie or series detail by media type, hitting the network
// on a cache miss.
func (c *Client) Fetch(ctx context.Context, mediaType string, id int64) (catalog.Item, error) {
	if mediaType == "tv" {
		return c.TV(ctx, id)
	}
	return c.Movie(ctx, id)
}

// CachedEntries returns every record currently on disk, expired included.
func (c *Client) CachedEntries() []catalog.Item {
	return c.store.entries()
}

// ClearCache drops both cache tiers.
func (c *Client) ClearCache() error {
	return c.store.clear()
}

func keyFor(mediaType string, id int64) string {
	if mediaType == "tv" {
		return tvKey(id)
	}
	return movieKey(id)
}

func (c *Client) fetchEntity(ctx context.Context, apiPath, key, kind string, number int) (catalog.Item, error) {
	if item, ok := c.store.get(key); ok {
		return item, nil
	}

	data, err := c.getJSON(ctx, apiPath, c.preferred, appendFields[kind])
	if err != nil {
		if item, ok := c.store.stale(key); ok {
			c.log.Warn("tmdb fetch failed, serving stale cache", "key", key, "err", err)
			return item, err
		}
		return catalog.Item{}, err
	}

	if missingLocaleFields(data) {
		if en, errFB := c.getJSON(ctx, apiPath, c.fallback, appendFields[kind]); errFB == nil {
			spliceLocaleFields(data, en)
		} else {
			c.log.Warn("locale fallback failed", "key", key, "locale", c.fallback, "err", errFB)
		}
	}

	switch kind {
	case "movie":
		normalizeMovie(data)
	case "tv":
		normalizeTV(data)
	case "season":
		normalizeSeason(data, number)
	case "episode":
		normalizeEpisode(data, number)
	}

	// Thin-but-successful responses are cached too, so a missing entity
	// does not get re-fetched on every menu build.
	if err := c.store.put(key, data); err != nil {
		c.log.Warn("cache write failed", "key", key, "err", err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, apiPath, language, appendTo string) (catalog.Item, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", language)
	if appendTo != "" {
		q.Set("append_to_response", appendTo)
	}
	reqURL := fmt.Sprintf("%s/3/%s?%s", c.baseURL, apiPath, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	var data catalog.Item
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return data, nil
}

// missingLocaleFields reports whether the preferred-locale response needs
// the fallback request: no overview, or no title under either key.
func missingLocaleFields(data catalog.Item) bool {
	if data.String("overview") == "" {
		return true
	}
	return data.String("title") == "" && data.String("name") == ""
}

// spliceLocaleFields back-fills only overview, title and name from the
// fallback response. Everything else keeps the preferred-locale values.
func spliceLocaleFields(data, fallback catalog.Item) {
	for _, key := range []string{"overview", "title", "name"} {
		if data.String(key) == "" {
			if v := fallback.String(key); v != "" {
				data[key] = v
			}
		}
	}
}
