// Package payload encodes menu item lists into URL-safe tokens and decodes
// whatever a navigation URL hands back: clean tokens, percent-encoded JSON,
// truncated padding, piggybacked filter suffixes, or bare remote URLs.
package payload

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mrocha/cineplug/internal/catalog"
)

// Fetcher retrieves a remote JSON resource when a payload turns out to be a
// bare HTTP URL standing in for the item list.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Codec converts item lists to and from navigation tokens.
type Codec struct {
	fetcher Fetcher
	log     *slog.Logger
}

// NewCodec creates a codec. fetcher may be nil when remote payloads are not
// expected; decoding a URL payload then yields no items.
func NewCodec(fetcher Fetcher, log *slog.Logger) *Codec {
	if log == nil {
		log = slog.Default()
	}
	return &Codec{fetcher: fetcher, log: log}
}

// Encode serializes the items to JSON and base64url-encodes them with the
// trailing padding stripped, so the token survives a query string unescaped.
func (c *Codec) Encode(items []catalog.Item) string {
	data, err := json.Marshal(items)
	if err != nil {
		c.log.Error("encode payload", "err", err)
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Split separates a piggybacked filter suffix ("token|studio=X" or
// "token&studio=X") from the token proper. The filter value comes back
// percent-decoded; it is empty when the token carries none.
func Split(token string) (payload, filter string) {
	var suffix string
	if i := strings.Index(token, "|"); i >= 0 {
		payload, suffix = token[:i], token[i+1:]
	} else if i := strings.Index(token, "&studio="); i >= 0 {
		payload, suffix = token[:i], token[i+1:]
	} else {
		return token, ""
	}
	if j := strings.Index(suffix, "="); j >= 0 {
		suffix = suffix[j+1:]
	}
	if dec, err := url.QueryUnescape(suffix); err == nil {
		return payload, dec
	}
	return payload, suffix
}

// Decode turns a token back into an item list, trying each known encoding
// in order. It never fails: irrecoverable input yields nil.
func (c *Codec) Decode(ctx context.Context, token string) []catalog.Item {
	items, _ := c.DecodeFilter(ctx, token)
	return items
}

// DecodeFilter decodes a token and additionally returns any filter string
// that was piggybacked onto it.
func (c *Codec) DecodeFilter(ctx context.Context, token string) ([]catalog.Item, string) {
	s := strings.TrimSpace(token)
	if s == "" || s == "%" {
		return nil, ""
	}

	// On remote URLs the "|Name=value" suffix is request headers, not a
	// filter; the fetcher splits those itself, so the token passes whole.
	if strings.HasPrefix(s, "http") {
		return c.fetchRemote(ctx, s), ""
	}

	// The filter suffix is not base64 and must come off first.
	s, filter := Split(s)

	if items := decodeBase64JSON(s); items != nil {
		return items, filter
	}
	if items := decodeQuotedJSON(s); items != nil {
		return items, filter
	}
	if items := c.fetchRemote(ctx, s); items != nil {
		return items, filter
	}

	c.log.Warn("payload not decodable", "len", len(s), "preview", preview(s, 60))
	return nil, filter
}

// decodeBase64JSON re-pads and base64url-decodes the token, accepting the
// result only when it looks like JSON. Random query strings often decode to
// garbage bytes without erroring, so the [ / { check is load-bearing.
func decodeBase64JSON(s string) []catalog.Item {
	padded := s + strings.Repeat("=", (4-len(s)%4)%4)
	raw, err := base64.URLEncoding.DecodeString(padded)
	if err != nil {
		return nil
	}
	text := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(text, "[") && !strings.HasPrefix(text, "{") {
		return nil
	}
	return parseJSONItems(text)
}

// decodeQuotedJSON handles payloads that arrived percent-encoded (+ means
// space) instead of base64.
func decodeQuotedJSON(s string) []catalog.Item {
	dec, err := url.QueryUnescape(s)
	if err != nil {
		dec = s
	}
	dec = strings.TrimSpace(dec)
	if !strings.HasPrefix(dec, "[") && !strings.HasPrefix(dec, "{") {
		return nil
	}
	return parseJSONItems(dec)
}

func (c *Codec) fetchRemote(ctx context.Context, s string) []catalog.Item {
	if !strings.HasPrefix(s, "http") || c.fetcher == nil {
		return nil
	}
	body, err := c.fetcher.Get(ctx, s)
	if err != nil {
		c.log.Error("fetch remote payload", "url", preview(s, 120), "err", err)
		return nil
	}
	items, err := catalog.ItemsFromDocument(body)
	if err != nil {
		c.log.Error("parse remote payload", "url", preview(s, 120), "err", err)
		return nil
	}
	return items
}

func parseJSONItems(text string) []catalog.Item {
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil
	}
	return catalog.FromValue(decoded)
}

// Normalize accepts whatever shape a payload arrives in and always yields
// an item list. Unsupported types degrade to nil with a log line, never an
// error to the caller.
func (c *Codec) Normalize(ctx context.Context, payload any) []catalog.Item {
	switch v := payload.(type) {
	case nil:
		return nil
	case []catalog.Item:
		return v
	case catalog.Item:
		return []catalog.Item{v}
	case []any:
		return catalog.FromValue(v)
	case map[string]any:
		return catalog.FromValue(v)
	case string:
		if items := c.Decode(ctx, v); items != nil {
			return items
		}
		// Decode already tried the remote path for http strings; anything
		// left is unusable.
		return nil
	default:
		c.log.Error("unsupported payload type", "type", fmt.Sprintf("%T", payload))
		return nil
	}
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
