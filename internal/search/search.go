// Package search filters catalog items by title, combining a substring
// fast path with Jaro-Winkler similarity so near-miss queries (typos,
// missing accents) still find their title.
package search

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/mrocha/cineplug/internal/catalog"
	"github.com/mrocha/cineplug/internal/index"
)

// minSimilarity is the Jaro-Winkler score below which a title is not
// considered a match for the query.
const minSimilarity = 0.82

type scored struct {
	item  catalog.Item
	score float64
}

// Match returns the items whose title matches the query, best match first.
// Comparison is accent- and case-insensitive.
func Match(items []catalog.Item, query string) []catalog.Item {
	q := index.Key(query)
	if q == "" {
		return nil
	}

	var hits []scored
	for _, item := range items {
		title := index.Key(item.Title())
		if title == "" {
			continue
		}
		if strings.Contains(title, q) {
			hits = append(hits, scored{item: item, score: 1})
			continue
		}
		score := float64(edlib.JaroWinklerSimilarity(q, title))
		if score >= minSimilarity {
			hits = append(hits, scored{item: item, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	out := make([]catalog.Item, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.item)
	}
	return out
}
