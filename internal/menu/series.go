package menu

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mrocha/cineplug/internal/catalog"
	"github.com/mrocha/cineplug/internal/tmdb"
)

// openSeries renders the season list of one series. The series payload rides
// along so season and episode hops can still resolve stream URLs.
func (b *Builder) openSeries(ctx context.Context, inv *Invocation, r Renderer) error {
	p := inv.Params
	if p.TVID == 0 {
		return fmt.Errorf("menu: open series needs tv_id")
	}
	meta, err := b.meta.TV(ctx, p.TVID)
	if err != nil && len(meta) == 0 {
		return fmt.Errorf("menu: series %d: %w", p.TVID, err)
	}
	seasons, _ := meta["seasons"].([]any)
	if len(seasons) == 0 {
		return fmt.Errorf("menu: series %d has no seasons", p.TVID)
	}
	for _, raw := range seasons {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		s := catalog.Item(m)
		n := int(s.Int("season_number"))
		title := s.String("name")
		if title == "" {
			title = fmt.Sprintf("Temporada %d", n)
		}
		q := url.Values{}
		q.Set("tv_id", strconv.FormatInt(p.TVID, 10))
		q.Set("season", strconv.Itoa(n))
		if p.Payload != "" {
			q.Set("payload", p.Payload)
		}
		e := Entry{
			Title:  title,
			URL:    b.child(inv, ModeSeasonOpen, q),
			Plot:   s.String("overview"),
			Poster: tmdb.PosterURL(s.String("poster_path")),
			Fanart: meta.Fanart(),
			Year:   catalog.YearOf(s.String("air_date")),
			Folder: true,
		}
		if err := r.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// openSeason renders the episode list of one season.
func (b *Builder) openSeason(ctx context.Context, inv *Invocation, r Renderer) error {
	p := inv.Params
	if p.TVID == 0 {
		return fmt.Errorf("menu: open season needs tv_id")
	}
	meta, err := b.meta.Season(ctx, p.TVID, p.Season)
	if err != nil && len(meta) == 0 {
		return fmt.Errorf("menu: series %d season %d: %w", p.TVID, p.Season, err)
	}
	episodes, _ := meta["episodes"].([]any)
	if len(episodes) == 0 {
		return fmt.Errorf("menu: series %d season %d has no episodes", p.TVID, p.Season)
	}
	for _, raw := range episodes {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		ep := catalog.Item(m)
		n := int(ep.Int("episode_number"))
		name := ep.String("name")
		if name == "" {
			name = fmt.Sprintf("Episódio %d", n)
		}
		q := url.Values{}
		q.Set("tv_id", strconv.FormatInt(p.TVID, 10))
		q.Set("season", strconv.Itoa(p.Season))
		q.Set("episode", strconv.Itoa(n))
		if p.Payload != "" {
			q.Set("payload", p.Payload)
		}
		e := Entry{
			Title:    fmt.Sprintf("%d. %s", n, name),
			URL:      b.child(inv, ModeEpisodeDetail, q),
			Plot:     ep.String("overview"),
			Thumb:    tmdb.PosterURL(ep.String("still_path")),
			Fanart:   meta.Fanart(),
			Year:     catalog.YearOf(ep.String("air_date")),
			Duration: ep.Int("runtime") * 60,
			Rating:   ep.Float("vote_average"),
			Folder:   true,
		}
		if err := r.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// episodeDetail renders the single playable entry for one episode. The
// stream URL comes from the ride-along series payload when it carries one.
func (b *Builder) episodeDetail(ctx context.Context, inv *Invocation, r Renderer) error {
	p := inv.Params
	if p.TVID == 0 {
		return fmt.Errorf("menu: episode detail needs tv_id")
	}
	meta, err := b.meta.Episode(ctx, p.TVID, p.Season, p.Episode)
	if err != nil && len(meta) == 0 {
		return fmt.Errorf("menu: series %d S%dE%d: %w", p.TVID, p.Season, p.Episode, err)
	}
	target := b.episodeStreamURL(ctx, p)
	e := entryFromItem(meta, target, false)
	if e.Title == "Sem título" {
		e.Title = fmt.Sprintf("Episódio %d", p.Episode)
	}
	return r.Add(e)
}

// episodeStreamURL digs the per-episode stream out of the series payload.
// Accepted shapes: a flat "episodes" list on the series record, or nested
// season objects each holding their own episode list.
func (b *Builder) episodeStreamURL(ctx context.Context, p Params) string {
	if p.Payload == "" {
		return p.URL
	}
	items := b.codec.Decode(ctx, p.Payload)
	for _, it := range items {
		if u := episodeURLIn(it, p.Season, p.Episode); u != "" {
			return u
		}
	}
	return p.URL
}

func episodeURLIn(it catalog.Item, season, episode int) string {
	if eps, ok := it["episodes"].([]any); ok {
		if u := episodeURLInList(eps, season, episode); u != "" {
			return u
		}
	}
	if seasons, ok := it["seasons"].([]any); ok {
		for _, raw := range seasons {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			s := catalog.Item(m)
			if n := int(s.Int("season", "season_number")); n != 0 && n != season {
				continue
			}
			if eps, ok := m["episodes"].([]any); ok {
				if u := episodeURLInList(eps, season, episode); u != "" {
					return u
				}
			}
		}
	}
	return ""
}

func episodeURLInList(eps []any, season, episode int) string {
	for _, raw := range eps {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		ep := catalog.Item(m)
		if n := int(ep.Int("season", "season_number")); n != 0 && n != season {
			continue
		}
		if int(ep.Int("episode", "episode_number")) != episode {
			continue
		}
		if u := ep.URL(); u != "" {
			return u
		}
	}
	return ""
}

// recentSeasons lists series whose latest season premiered inside the
// window, each row opening that season directly.
func (b *Builder) recentSeasons(ctx context.Context, inv *Invocation, r Renderer) error {
	items, err := b.decode(ctx, inv)
	if err != nil {
		return err
	}
	cutoff := b.now().AddDate(0, 0, -b.cfg.Menus.RecentSeasonDays)
	for _, it := range items {
		if !onlySeries(it) {
			continue
		}
		id := it.TMDBID()
		if id == 0 {
			continue
		}
		meta, err := b.meta.TV(ctx, id)
		if err != nil && len(meta) == 0 {
			b.log.Warn("recent seasons: series fetch failed", "tv_id", id, "error", err)
			continue
		}
		seasons, _ := meta["seasons"].([]any)
		for _, raw := range seasons {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			s := catalog.Item(m)
			aired, err := parseDate(s.String("air_date"))
			if err != nil || aired.Before(cutoff) {
				continue
			}
			n := int(s.Int("season_number"))
			name := s.String("name")
			if name == "" {
				name = fmt.Sprintf("Temporada %d", n)
			}
			q := url.Values{}
			q.Set("tv_id", strconv.FormatInt(id, 10))
			q.Set("season", strconv.Itoa(n))
			q.Set("payload", b.codec.Encode([]catalog.Item{it}))
			e := Entry{
				Title:  fmt.Sprintf("%s: %s", it.Title(), name),
				URL:    b.child(inv, ModeSeasonOpen, q),
				Plot:   s.String("overview"),
				Poster: tmdb.PosterURL(s.String("poster_path")),
				Fanart: it.Fanart(),
				Year:   catalog.YearOf(s.String("air_date")),
				Folder: true,
			}
			if err := r.Add(e); err != nil {
				return err
			}
		}
	}
	return nil
}
