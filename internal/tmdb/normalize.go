package tmdb

import (
	"fmt"
	"strings"

	"github.com/mrocha/cineplug/internal/catalog"
)

const imageBase = "https://image.tmdb.org/t/p/"

// PosterURL builds the w500 CDN URL for a poster path.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBase + "w500" + path
}

// FanartURL builds the full-resolution CDN URL for a backdrop path.
func FanartURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBase + "original" + path
}

func profileURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBase + "w185" + path
}

// crewJobs are the only crew roles kept on a normalized record.
var crewJobs = map[string]bool{
	"Director":   true,
	"Writer":     true,
	"Screenplay": true,
	"Producer":   true,
}

func normalizeMovie(d catalog.Item) {
	if t := d.String("title", "original_title"); t != "" {
		d["title"] = t
	} else {
		d["title"] = "Sem título"
	}
	d["original_title"] = d.String("original_title")
	d["year"] = catalog.YearOf(d.String("release_date"))
	normalizeShared(d, 20)
	d["countries_text"] = joinField(d, "production_countries", "iso_3166_1")
}

func normalizeTV(d catalog.Item) {
	if t := d.String("name", "original_name"); t != "" {
		d["title"] = t
	} else {
		d["title"] = "Sem título"
	}
	d["original_title"] = d.String("original_name")
	d["year"] = catalog.YearOf(d.String("first_air_date"))
	d["seasons_count"] = d.Int("number_of_seasons")
	d["episodes_count"] = d.Int("number_of_episodes")
	normalizeShared(d, 20)
	// Series responses carry bare country codes instead of records.
	if codes, ok := d["origin_country"].([]any); ok {
		var parts []string
		for _, cc := range codes {
			if s, ok := cc.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		d["countries_text"] = strings.Join(parts, ", ")
	}
}

func normalizeSeason(d catalog.Item, season int) {
	if t := d.String("name"); t != "" {
		d["title"] = t
	} else {
		d["title"] = fmt.Sprintf("Temporada %d", season)
	}
	d["overview"] = d.String("overview")
	if eps, ok := d["episodes"].([]any); ok {
		d["episodes_count"] = len(eps)
	}
	d["year"] = catalog.YearOf(d.String("air_date"))
	if p := PosterURL(d.String("poster_path")); p != "" {
		d["poster"] = p
	}
	credits := creditsOf(d)
	d["cast"] = castList(credits, 20)
	d["crew"] = crewList(credits)
}

func normalizeEpisode(d catalog.Item, episode int) {
	if t := d.String("name"); t != "" {
		d["title"] = t
	} else {
		d["title"] = fmt.Sprintf("Episódio %d", episode)
	}
	d["overview"] = d.String("overview")
	d["runtime"] = d.Int("runtime")
	d["air_date"] = d.String("air_date")
	if still := d.String("still_path"); still != "" {
		d["thumb"] = imageBase + "w500" + still
	}
	credits := creditsOf(d)
	d["cast"] = castList(credits, 15)
	d["crew"] = crewList(credits)
}

// normalizeShared applies the fields movies and series derive identically.
func normalizeShared(d catalog.Item, castLimit int) {
	d["overview"] = d.String("overview")
	if p := PosterURL(d.String("poster_path")); p != "" {
		d["poster"] = p
	}
	if f := FanartURL(d.String("backdrop_path")); f != "" {
		d["fanart"] = f
	}
	d["genres_text"] = joinField(d, "genres", "name")
	d["studios_text"] = joinField(d, "production_companies", "name")
	credits := creditsOf(d)
	d["cast"] = castList(credits, castLimit)
	d["crew"] = crewList(credits)
}

// creditsOf prefers aggregate_credits (series, seasons) over credits.
func creditsOf(d catalog.Item) map[string]any {
	if agg, ok := d["aggregate_credits"].(map[string]any); ok {
		return agg
	}
	if cr, ok := d["credits"].(map[string]any); ok {
		return cr
	}
	return nil
}

func castList(credits map[string]any, limit int) []any {
	if credits == nil {
		return []any{}
	}
	raw, _ := credits["cast"].([]any)
	if len(raw) > limit {
		raw = raw[:limit]
	}
	out := make([]any, 0, len(raw))
	for _, e := range raw {
		actor, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name, _ := actor["name"].(string)
		if name == "" {
			continue
		}
		out = append(out, map[string]any{
			"name":  name,
			"role":  characterOf(actor),
			"thumb": profileURL(stringOf(actor, "profile_path")),
		})
	}
	return out
}

// characterOf reads the role from either shape: aggregate credits nest it
// under roles[0].character, plain credits keep it at character.
func characterOf(actor map[string]any) string {
	if roles, ok := actor["roles"].([]any); ok && len(roles) > 0 {
		if role, ok := roles[0].(map[string]any); ok {
			if ch, _ := role["character"].(string); ch != "" {
				return ch
			}
		}
	}
	ch, _ := actor["character"].(string)
	return ch
}

func crewList(credits map[string]any) []any {
	if credits == nil {
		return []any{}
	}
	raw, _ := credits["crew"].([]any)
	var out []any
	for _, e := range raw {
		member, ok := e.(map[string]any)
		if !ok {
			continue
		}
		job, _ := member["job"].(string)
		if !crewJobs[job] {
			continue
		}
		out = append(out, map[string]any{
			"name": stringOf(member, "name"),
			"job":  job,
		})
	}
	if out == nil {
		out = []any{}
	}
	return out
}

// joinField joins the named string field of a list of records.
func joinField(d catalog.Item, listKey, field string) string {
	raw, _ := d[listKey].([]any)
	var parts []string
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			if v, _ := m[field].(string); v != "" {
				parts = append(parts, v)
			}
		}
	}
	return strings.Join(parts, ", ")
}

func stringOf(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}
