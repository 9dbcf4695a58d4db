// Package index builds the transient genre, studio and year mappings behind
// the filter submenus. Keys are normalized for matching; values keep the
// first display form seen.
package index

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mrocha/cineplug/internal/catalog"
)

var stripAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Key normalizes a display string for matching: trimmed, lower-cased,
// accents stripped. Idempotent.
func Key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}

// Index maps a normalized key to the first display string seen for it.
type Index map[string]string

func (ix Index) add(display string) {
	display = strings.TrimSpace(display)
	key := Key(display)
	if key == "" {
		return
	}
	if _, seen := ix[key]; !seen {
		ix[key] = display
	}
}

// Displays returns the display strings sorted case-insensitively.
func (ix Index) Displays() []string {
	out := make([]string, 0, len(ix))
	for _, v := range ix {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Genres collects genre names across the items, handling both the
// list-of-records and delimited-string shapes.
func Genres(items []catalog.Item) Index {
	ix := make(Index)
	for _, item := range items {
		for _, g := range item.Genres() {
			ix.add(g)
		}
	}
	return ix
}

// Studios collects production company names across the items.
func Studios(items []catalog.Item) Index {
	ix := make(Index)
	for _, item := range items {
		for _, s := range item.Studios() {
			ix.add(s)
		}
	}
	return ix
}

// Years collects release years across the items, most recent first.
func Years(items []catalog.Item) []string {
	seen := make(map[int]struct{})
	var years []int
	for _, item := range items {
		y := item.Year()
		if y == 0 {
			continue
		}
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	out := make([]string, 0, len(years))
	for _, y := range years {
		out = append(out, strconv.Itoa(y))
	}
	return out
}

// MatchGenre reports whether the item carries the genre, compared under Key.
func MatchGenre(item catalog.Item, genre string) bool {
	want := Key(genre)
	for _, g := range item.Genres() {
		if Key(g) == want {
			return true
		}
	}
	return false
}

// MatchStudio reports whether the item carries the studio, compared under Key.
func MatchStudio(item catalog.Item, studio string) bool {
	want := Key(studio)
	for _, s := range item.Studios() {
		if Key(s) == want {
			return true
		}
	}
	return false
}

// MatchYear reports whether the item's resolved year equals the given one.
func MatchYear(item catalog.Item, year string) bool {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return false
	}
	return item.Year() == y
}
