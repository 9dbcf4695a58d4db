// Package catalog defines the loosely-typed item records that flow through
// the menu pipeline and the parsers that turn user-supplied JSON into them.
package catalog

import (
	"strconv"
	"strings"
)

// Item is one media record (movie, series, season, episode) or navigation
// entry. Source catalogs have no fixed schema, so fields are read through
// accessors that try the known synonymous keys in order.
type Item map[string]any

// String returns the first non-empty string value among the given keys.
func (it Item) String(keys ...string) string {
	for _, k := range keys {
		if v, ok := it[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// Int returns the first value among the given keys that can be read as an
// integer. JSON numbers arrive as float64; string ids are accepted too.
func (it Item) Int(keys ...string) int64 {
	for _, k := range keys {
		v, ok := it[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int64(n)
		case int:
			return int64(n)
		case int64:
			return n
		case string:
			if parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}

// Float returns the first value among the given keys readable as a float.
func (it Item) Float(keys ...string) float64 {
	for _, k := range keys {
		v, ok := it[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}

// Title returns the display title.
func (it Item) Title() string {
	return it.String("title", "name")
}

// TMDBID returns the TMDB id, or 0 when the item carries none.
func (it Item) TMDBID() int64 {
	return it.Int("tmdb", "tmdb_id")
}

// MediaType returns "movie" or "tv"; movie is the default when the source
// did not say.
func (it Item) MediaType() string {
	t := strings.ToLower(it.String("tmdb_type", "type"))
	if t == "" {
		return "movie"
	}
	return t
}

// URL returns the playback or navigation target.
func (it Item) URL() string {
	return it.String("url", "link")
}

// Plot returns the description text.
func (it Item) Plot() string {
	return it.String("overview", "plot", "description", "desc")
}

// Poster returns the poster image reference, absolute or TMDB-relative.
func (it Item) Poster() string {
	return it.String("poster", "thumbnail", "icon", "poster_path")
}

// Fanart returns the backdrop image reference.
func (it Item) Fanart() string {
	return it.String("fanart", "backdrop_path")
}

// ReleaseDate returns the release date in whatever form the source used.
func (it Item) ReleaseDate() string {
	return it.String("release_date", "first_air_date", "date")
}

// Year returns the release year, derived from the date when the item does
// not carry an explicit year field.
func (it Item) Year() int {
	if y := it.Int("year"); y > 0 {
		return int(y)
	}
	return YearOf(it.ReleaseDate())
}

// Rating returns the vote average.
func (it Item) Rating() float64 {
	return it.Float("rating", "vote_average")
}

// Votes returns the vote count.
func (it Item) Votes() int64 {
	return it.Int("votes", "vote_count")
}

// Names collects display names from a field that may be a list of records
// with a "name" key, a list of strings, or a single delimited string.
func (it Item) Names(keys ...string) []string {
	for _, k := range keys {
		v, ok := it[k]
		if !ok || v == nil {
			continue
		}
		switch vv := v.(type) {
		case []any:
			var out []string
			for _, e := range vv {
				switch ev := e.(type) {
				case map[string]any:
					if name, _ := ev["name"].(string); name != "" {
						out = append(out, name)
					}
				case string:
					if ev != "" {
						out = append(out, ev)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			var out []string
			for _, part := range strings.FieldsFunc(vv, func(r rune) bool { return r == ',' || r == '/' }) {
				if p := strings.TrimSpace(part); p != "" {
					out = append(out, p)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// Genres returns genre display names from either record or string shape.
func (it Item) Genres() []string {
	return it.Names("genres", "genre")
}

// Studios returns production company names from either shape.
func (it Item) Studios() []string {
	return it.Names("production_companies", "studio", "studios")
}

// Clone returns a shallow copy. Enrichment mutates the copy so the caller's
// record is never touched.
func (it Item) Clone() Item {
	out := make(Item, len(it))
	for k, v := range it {
		out[k] = v
	}
	return out
}

// SetAbsent writes the value only when the item has no truthy value for the
// key. Enrichment must never overwrite what the source supplied.
func (it Item) SetAbsent(key string, value any) {
	if truthy(it[key]) {
		return
	}
	it[key] = value
}

func truthy(v any) bool {
	switch vv := v.(type) {
	case nil:
		return false
	case string:
		return vv != ""
	case bool:
		return vv
	case float64:
		return vv != 0
	case int:
		return vv != 0
	case int64:
		return vv != 0
	case []any:
		return len(vv) > 0
	case map[string]any:
		return len(vv) > 0
	}
	return true
}

// YearOf extracts a 4-digit year from the start of a date string, or 0.
func YearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}
