package menu

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mrocha/cineplug/internal/catalog"
	"github.com/mrocha/cineplug/internal/config"
	"github.com/mrocha/cineplug/internal/enrich"
	"github.com/mrocha/cineplug/internal/index"
	"github.com/mrocha/cineplug/internal/payload"
	"github.com/mrocha/cineplug/internal/search"
)

// MetadataClient is the part of the metadata fetcher the series flows need
// beyond cache-only enrichment.
type MetadataClient interface {
	TV(ctx context.Context, id int64) (catalog.Item, error)
	Season(ctx context.Context, tvID int64, season int) (catalog.Item, error)
	Episode(ctx context.Context, tvID int64, season, episode int) (catalog.Item, error)
}

// Builder turns one invocation into a rendered directory listing.
type Builder struct {
	codec    *payload.Codec
	enricher *enrich.Enricher
	meta     MetadataClient
	cfg      *config.Config
	log      *slog.Logger
	now      func() time.Time
}

func NewBuilder(codec *payload.Codec, enricher *enrich.Enricher, meta MetadataClient, cfg *config.Config, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		codec:    codec,
		enricher: enricher,
		meta:     meta,
		cfg:      cfg,
		log:      log.With("component", "menu"),
		now:      time.Now,
	}
}

// Build dispatches on the mode parameter and renders the listing. The
// renderer's Done is always called, with succeeded=false on any failure.
func (b *Builder) Build(ctx context.Context, inv *Invocation, r Renderer) (err error) {
	defer func() {
		if doneErr := r.Done(err == nil); doneErr != nil && err == nil {
			err = doneErr
		}
	}()

	p := inv.Params
	switch p.Mode {
	case 0, ModeRootMenu:
		return b.rootMenu(ctx, inv, r)

	case ModeMovieLibrary:
		return b.libraryMenu(ctx, inv, movieSubmenus, r)
	case ModeMovieList:
		return b.listItems(ctx, inv, b.movieEntry, nil, r)
	case ModeMovieSearch:
		return b.searchItems(ctx, inv, b.movieEntry, r)
	case ModeMovieGenres:
		return b.genreMenu(ctx, inv, ModeMoviesByGenre, r)
	case ModeMoviesByGenre:
		return b.listItems(ctx, inv, b.movieEntry, func(it catalog.Item) bool {
			return index.MatchGenre(it, p.Genre)
		}, r)
	case ModeMovieYears:
		return b.yearMenu(ctx, inv, ModeMoviesByYear, r)
	case ModeMoviesByYear:
		return b.listItems(ctx, inv, b.movieEntry, func(it catalog.Item) bool {
			return index.MatchYear(it, p.Year)
		}, r)
	case ModeMovieStudios:
		return b.studioMenu(ctx, inv, ModeMoviesByStudio, r)
	case ModeMoviesByStudio:
		return b.listByStudio(ctx, inv, b.movieEntry, r)
	case ModeMovieRecent:
		return b.listRecent(ctx, inv, b.movieEntry, b.cfg.Menus.RecentMovieDays, r)

	case ModeSeriesLibrary:
		return b.libraryMenu(ctx, inv, seriesSubmenus, r)
	case ModeSeriesList:
		return b.listItems(ctx, inv, b.seriesEntry(inv), onlySeries, r)
	case ModeSeriesOpen:
		return b.openSeries(ctx, inv, r)
	case ModeSeasonOpen:
		return b.openSeason(ctx, inv, r)
	case ModeEpisodeDetail:
		return b.episodeDetail(ctx, inv, r)
	case ModeSeriesSearch:
		return b.searchItems(ctx, inv, b.seriesEntry(inv), r)
	case ModeSeriesGenres:
		return b.genreMenu(ctx, inv, ModeSeriesByGenre, r)
	case ModeSeriesByGenre:
		return b.listItems(ctx, inv, b.seriesEntry(inv), func(it catalog.Item) bool {
			return onlySeries(it) && index.MatchGenre(it, p.Genre)
		}, r)
	case ModeSeriesYears:
		return b.yearMenu(ctx, inv, ModeSeriesByYear, r)
	case ModeSeriesByYear:
		return b.listItems(ctx, inv, b.seriesEntry(inv), func(it catalog.Item) bool {
			return onlySeries(it) && index.MatchYear(it, p.Year)
		}, r)
	case ModeSeriesStudios:
		return b.studioMenu(ctx, inv, ModeSeriesByStudio, r)
	case ModeSeriesByStudio:
		return b.listByStudio(ctx, inv, b.seriesEntry(inv), r)
	case ModeRecentSeries:
		return b.listRecent(ctx, inv, b.seriesEntry(inv), b.cfg.Menus.RecentSeriesDays, r)
	case ModeRecentSeasons:
		return b.recentSeasons(ctx, inv, r)

	default:
		return fmt.Errorf("menu: unknown mode %d", p.Mode)
	}
}

// decode resolves the invocation token into enriched catalog items.
func (b *Builder) decode(ctx context.Context, inv *Invocation) ([]catalog.Item, error) {
	token := inv.Params.Token()
	if token == "" {
		return nil, fmt.Errorf("menu: invocation carries no payload")
	}
	items := b.codec.Decode(ctx, token)
	if len(items) == 0 {
		return nil, fmt.Errorf("menu: payload decoded to no items")
	}
	return b.enricher.Enrich(items), nil
}

// childURL builds a plugin URL back into this addon. url.Values encoding
// keeps the parameter order deterministic.
func childURL(base string, q url.Values) string {
	return base + "?" + q.Encode()
}

func (b *Builder) child(inv *Invocation, mode int, extra url.Values) string {
	q := url.Values{}
	q.Set("mode", strconv.Itoa(mode))
	if inv.Params.Fanart != "" {
		q.Set("fanart", inv.Params.Fanart)
	}
	for k, vs := range extra {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	return childURL(inv.BaseURL, q)
}

type entryMaker func(it catalog.Item) Entry

// movieEntry renders a playable leaf pointing at the item's own URL.
func (b *Builder) movieEntry(it catalog.Item) Entry {
	return entryFromItem(it, it.URL(), false)
}

// seriesEntry renders a folder that opens the series, carrying the single
// series record as a re-encoded payload so later hops keep the stream URLs.
func (b *Builder) seriesEntry(inv *Invocation) entryMaker {
	return func(it catalog.Item) Entry {
		q := url.Values{}
		q.Set("tv_id", strconv.FormatInt(it.TMDBID(), 10))
		q.Set("payload", b.codec.Encode([]catalog.Item{it}))
		return entryFromItem(it, b.child(inv, ModeSeriesOpen, q), true)
	}
}

func onlySeries(it catalog.Item) bool {
	return it.MediaType() == "tv"
}

func entryFromItem(it catalog.Item, target string, folder bool) Entry {
	title := it.Title()
	if title == "" {
		title = "Sem título"
	}
	return Entry{
		Title:    title,
		URL:      target,
		Plot:     it.Plot(),
		Poster:   it.Poster(),
		Fanart:   it.Fanart(),
		Thumb:    it.String("thumb"),
		Year:     it.Year(),
		Duration: it.Int("duration"),
		Rating:   it.Rating(),
		Votes:    it.Votes(),
		Genres:   strings.Join(it.Genres(), " / "),
		Studios:  strings.Join(it.Studios(), " / "),
		Folder:   folder,
	}
}

// rootMenu renders the top-level catalog document. Each row either declares
// its own mode or gets one inferred from the shape of its target document.
func (b *Builder) rootMenu(ctx context.Context, inv *Invocation, r Renderer) error {
	token := inv.Params.Token()
	if token == "" && b.cfg.Catalog.Source != "" {
		token = b.cfg.Catalog.Source
	}
	items := b.codec.Normalize(ctx, token)
	if len(items) == 0 {
		return fmt.Errorf("menu: root catalog is empty")
	}
	for _, it := range items {
		mode := int(it.Int("mode"))
		if mode == 0 {
			mode = b.guessMode(ctx, it.URL())
		}
		q := url.Values{}
		q.Set("url", it.URL())
		q.Set("name", it.Title())
		e := entryFromItem(it, b.child(inv, mode, q), true)
		if err := r.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// guessMode probes a child document and classifies it as a series or movie
// library. Remote fetches go through the HTTP cache, so repeated renders of
// the root menu stay cheap.
func (b *Builder) guessMode(ctx context.Context, target string) int {
	if target == "" {
		return ModeRootMenu
	}
	items := b.codec.Decode(ctx, target)
	if len(items) == 0 {
		return ModeRootMenu
	}
	for _, it := range items {
		if onlySeries(it) {
			return ModeSeriesLibrary
		}
	}
	return ModeMovieLibrary
}

type submenu struct {
	name string
	desc string
	mode int
}

var movieSubmenus = []submenu{
	{"Todos os Filmes", "Exibir todos os filmes disponíveis", ModeMovieList},
	{"Pesquisar", "Pesquisar filmes por nome", ModeMovieSearch},
	{"Por Ano", "Filtrar filmes por ano de lançamento", ModeMovieYears},
	{"Por Gênero", "Filtrar filmes por gênero", ModeMovieGenres},
	{"Por Estúdio", "Filtrar por estúdio de produção", ModeMovieStudios},
	{"Lançamentos", "Filmes lançados recentemente", ModeMovieRecent},
}

var seriesSubmenus = []submenu{
	{"Todas as Séries", "Exibir todas as séries", ModeSeriesList},
	{"Pesquisar", "Pesquisar nesta biblioteca de séries", ModeSeriesSearch},
	{"Por Ano", "Filtrar por ano", ModeSeriesYears},
	{"Por Gênero", "Filtrar por gênero", ModeSeriesGenres},
	{"Por Estúdio", "Filtrar por estúdio", ModeSeriesStudios},
	{"Novas Temporadas", "Séries com temporadas recentes", ModeRecentSeasons},
	{"Lançamentos", "Últimos lançamentos", ModeRecentSeries},
}

// libraryMenu re-encodes the full payload once and fans it out to the fixed
// submenu rows, so every child carries the complete library.
func (b *Builder) libraryMenu(ctx context.Context, inv *Invocation, subs []submenu, r Renderer) error {
	token := inv.Params.Token()
	items := b.codec.Normalize(ctx, token)
	if len(items) == 0 {
		return fmt.Errorf("menu: library payload is empty")
	}
	encoded := b.codec.Encode(items)
	for _, s := range subs {
		q := url.Values{}
		q.Set("url", encoded)
		q.Set("name", s.name)
		e := Entry{
			Title:  s.name,
			URL:    b.child(inv, s.mode, q),
			Plot:   s.desc,
			Fanart: inv.Params.Fanart,
			Folder: true,
		}
		if err := r.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// listItems renders the decoded payload, optionally filtered, in payload
// order.
func (b *Builder) listItems(ctx context.Context, inv *Invocation, mk entryMaker, keep func(catalog.Item) bool, r Renderer) error {
	items, err := b.decode(ctx, inv)
	if err != nil {
		return err
	}
	for _, it := range items {
		if keep != nil && !keep(it) {
			continue
		}
		if err := r.Add(mk(it)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) searchItems(ctx context.Context, inv *Invocation, mk entryMaker, r Renderer) error {
	query := inv.Params.Name
	if query == "" {
		return fmt.Errorf("menu: search needs a query in the name parameter")
	}
	items, err := b.decode(ctx, inv)
	if err != nil {
		return err
	}
	for _, it := range search.Match(items, query) {
		if err := r.Add(mk(it)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) genreMenu(ctx context.Context, inv *Invocation, childMode int, r Renderer) error {
	items, err := b.decode(ctx, inv)
	if err != nil {
		return err
	}
	encoded := b.codec.Encode(items)
	ix := index.Genres(items)
	for _, display := range ix.Displays() {
		q := url.Values{}
		q.Set("url", encoded)
		q.Set("genre", index.Key(display))
		q.Set("name", display)
		e := Entry{Title: display, URL: b.child(inv, childMode, q), Fanart: inv.Params.Fanart, Folder: true}
		if err := r.Add(e); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) yearMenu(ctx context.Context, inv *Invocation, childMode int, r Renderer) error {
	items, err := b.decode(ctx, inv)
	if err != nil {
		return err
	}
	encoded := b.codec.Encode(items)
	for _, year := range index.Years(items) {
		q := url.Values{}
		q.Set("url", encoded)
		q.Set("year", year)
		q.Set("name", year)
		e := Entry{Title: year, URL: b.child(inv, childMode, q), Fanart: inv.Params.Fanart, Folder: true}
		if err := r.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// studioMenu piggybacks the studio filter onto the payload token itself, the
// way the original concatenated "|studio=Name" onto the Base64 text.
func (b *Builder) studioMenu(ctx context.Context, inv *Invocation, childMode int, r Renderer) error {
	items, err := b.decode(ctx, inv)
	if err != nil {
		return err
	}
	encoded := b.codec.Encode(items)
	ix := index.Studios(items)
	for _, display := range ix.Displays() {
		q := url.Values{}
		q.Set("url", encoded+"|studio="+url.QueryEscape(display))
		q.Set("name", display)
		e := Entry{Title: display, URL: b.child(inv, childMode, q), Fanart: inv.Params.Fanart, Folder: true}
		if err := r.Add(e); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) listByStudio(ctx context.Context, inv *Invocation, mk entryMaker, r Renderer) error {
	token := inv.Params.Token()
	items, studio := b.codec.DecodeFilter(ctx, token)
	if studio == "" {
		studio = inv.Params.Studio
	}
	if studio == "" {
		return fmt.Errorf("menu: studio filter missing")
	}
	if len(items) == 0 {
		return fmt.Errorf("menu: payload decoded to no items")
	}
	for _, it := range b.enricher.Enrich(items) {
		if !index.MatchStudio(it, studio) {
			continue
		}
		if err := r.Add(mk(it)); err != nil {
			return err
		}
	}
	return nil
}

// listRecent keeps items released inside the window, newest first.
func (b *Builder) listRecent(ctx context.Context, inv *Invocation, mk entryMaker, days int, r Renderer) error {
	items, err := b.decode(ctx, inv)
	if err != nil {
		return err
	}
	cutoff := b.now().AddDate(0, 0, -days)
	var recent []catalog.Item
	for _, it := range items {
		when, ok := releaseTime(it)
		if ok && !when.Before(cutoff) {
			recent = append(recent, it)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		a, _ := releaseTime(recent[i])
		z, _ := releaseTime(recent[j])
		return a.After(z)
	})
	for _, it := range recent {
		if err := r.Add(mk(it)); err != nil {
			return err
		}
	}
	return nil
}

func releaseTime(it catalog.Item) (time.Time, bool) {
	when, err := parseDate(it.ReleaseDate())
	return when, err == nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	return time.Parse("2006-01-02", s)
}
