// Package enrich merges cached TMDB metadata into raw catalog items without
// ever overwriting what the source JSON supplied.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mrocha/cineplug/internal/catalog"
	"github.com/mrocha/cineplug/internal/tmdb"
)

//go:generate mockgen -source=enricher.go -destination=mocks/source.go -package=mocks

// MetadataSource supplies TMDB records. Lookup is cache-only; Fetch may hit
// the network and is used only by the explicit prefetch path.
type MetadataSource interface {
	Lookup(mediaType string, id int64) (catalog.Item, bool)
	Fetch(ctx context.Context, mediaType string, id int64) (catalog.Item, error)
}

// enrichFields is the allow-list of fields copied from a cached record into
// an item, set-if-absent.
var enrichFields = []string{
	"title",
	"name",
	"overview",
	"release_date",
	"first_air_date",
	"runtime",
	"vote_average",
	"vote_count",
	"poster_path",
	"backdrop_path",
	"genres",
	"production_countries",
	"production_companies",
	"credits",
	"release_dates",
}

// Enricher fills metadata gaps in catalog items from a MetadataSource.
type Enricher struct {
	source MetadataSource
	log    *slog.Logger
}

// New creates an Enricher.
func New(source MetadataSource, log *slog.Logger) *Enricher {
	if log == nil {
		log = slog.Default()
	}
	return &Enricher{source: source, log: log}
}

// Enrich returns an enriched copy of every item, same length and order as
// the input. Items without a TMDB id or without a cached record pass
// through untouched; no network request happens here.
func (e *Enricher) Enrich(items []catalog.Item) []catalog.Item {
	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		out = append(out, e.enrichOne(item))
	}
	return out
}

func (e *Enricher) enrichOne(item catalog.Item) catalog.Item {
	id := item.TMDBID()
	if id == 0 {
		return item
	}
	meta, ok := e.source.Lookup(item.MediaType(), id)
	if !ok {
		return item
	}

	out := item.Clone()
	for _, field := range enrichFields {
		if v, present := meta[field]; present {
			out.SetAbsent(field, v)
		}
	}

	// Derived fields for the renderer.
	release := out.ReleaseDate()
	out.SetAbsent("year", catalog.YearOf(release))
	runtime := out.Int("runtime")
	out.SetAbsent("duration", runtime*60)
	out.SetAbsent("rating", out.Float("vote_average"))
	out.SetAbsent("votes", out.Int("vote_count"))

	// Image URLs: only fill when the item has no absolute URL of its own.
	if !strings.HasPrefix(out.String("poster", "thumbnail", "icon"), "http") {
		if p := posterOf(meta); p != "" {
			out["poster"] = p
		}
	}
	if !strings.HasPrefix(out.String("fanart"), "http") {
		if f := fanartOf(meta); f != "" {
			out["fanart"] = f
		}
	}
	return out
}

func posterOf(meta catalog.Item) string {
	if p := meta.String("poster"); strings.HasPrefix(p, "http") {
		return p
	}
	return tmdb.PosterURL(meta.String("poster_path"))
}

func fanartOf(meta catalog.Item) string {
	if f := meta.String("fanart"); strings.HasPrefix(f, "http") {
		return f
	}
	return tmdb.FanartURL(meta.String("backdrop_path"))
}
