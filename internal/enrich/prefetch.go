package enrich

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mrocha/cineplug/internal/catalog"
)

// prefetchConcurrency bounds parallel TMDB requests during a bulk prefetch.
const prefetchConcurrency = 4

// Prefetch fetches metadata for every item that has a TMDB id but no cached
// record yet, so a following Enrich pass runs entirely from cache. Fetch
// failures are logged and skipped; the menu still renders from source
// fields.
func (e *Enricher) Prefetch(ctx context.Context, items []catalog.Item) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)

	seen := make(map[string]struct{})
	for _, item := range items {
		id := item.TMDBID()
		if id == 0 {
			continue
		}
		mediaType := item.MediaType()
		key := fmt.Sprintf("%s_%d", mediaType, id)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, cached := e.source.Lookup(mediaType, id); cached {
			continue
		}
		g.Go(func() error {
			if _, err := e.source.Fetch(ctx, mediaType, id); err != nil {
				e.log.Warn("prefetch failed", "type", mediaType, "id", id, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
