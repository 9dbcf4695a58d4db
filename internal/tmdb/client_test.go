package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Movie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/603", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "pt-BR", r.URL.Query().Get("language"))
		assert.Equal(t, "credits,release_dates,images,videos,external_ids", r.URL.Query().Get("append_to_response"))

		resp := map[string]any{
			"id":            603,
			"title":         "Matrix",
			"overview":      "Um hacker descobre a verdade.",
			"release_date":  "1999-03-30",
			"poster_path":   "/abc.jpg",
			"backdrop_path": "/back.jpg",
			"runtime":       136,
			"vote_average":  8.2,
			"genres": []map[string]any{
				{"id": 28, "name": "Ação"},
				{"id": 878, "name": "Ficção científica"},
			},
			"production_companies": []map[string]any{{"name": "Warner Bros. Pictures"}},
			"production_countries": []map[string]any{{"iso_3166_1": "US"}},
			"credits": map[string]any{
				"cast": []map[string]any{
					{"name": "Keanu Reeves", "character": "Neo", "profile_path": "/kr.jpg"},
				},
				"crew": []map[string]any{
					{"name": "Lana Wachowski", "job": "Director"},
					{"name": "Bill Pope", "job": "Director of Photography"},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", t.TempDir(), WithBaseURL(server.URL))

	movie, err := client.Movie(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "Matrix", movie.Title())
	assert.Equal(t, 1999, movie["year"])
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", movie["poster"])
	assert.Equal(t, "https://image.tmdb.org/t/p/original/back.jpg", movie["fanart"])
	assert.Equal(t, "Ação, Ficção científica", movie["genres_text"])
	assert.Equal(t, "Warner Bros. Pictures", movie["studios_text"])
	assert.Equal(t, "US", movie["countries_text"])

	cast, ok := movie["cast"].([]any)
	require.True(t, ok)
	require.Len(t, cast, 1)
	actor := cast[0].(map[string]any)
	assert.Equal(t, "Keanu Reeves", actor["name"])
	assert.Equal(t, "Neo", actor["role"])
	assert.Equal(t, "https://image.tmdb.org/t/p/w185/kr.jpg", actor["thumb"])

	crew, ok := movie["crew"].([]any)
	require.True(t, ok)
	require.Len(t, crew, 1, "only Director/Writer/Screenplay/Producer are kept")
	assert.Equal(t, "Lana Wachowski", crew[0].(map[string]any)["name"])
}

func TestClient_Movie_CachedSecondCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 603, "title": "Matrix", "overview": "x"})
	}))
	defer server.Close()

	client := NewClient("test-key", t.TempDir(), WithBaseURL(server.URL))

	_, err := client.Movie(context.Background(), 603)
	require.NoError(t, err)
	_, err = client.Movie(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second call must come from cache")
}

func TestClient_Movie_DiskCacheSurvivesProcess(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 603, "title": "Matrix", "overview": "x"})
	}))
	defer server.Close()

	dir := t.TempDir()
	first := NewClient("test-key", dir, WithBaseURL(server.URL))
	_, err := first.Movie(context.Background(), 603)
	require.NoError(t, err)

	// A fresh client models the next invocation: empty memory tier.
	second := NewClient("test-key", dir, WithBaseURL(server.URL))
	movie, err := second.Movie(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "Matrix", movie.Title())
	assert.Equal(t, 1, calls)
}

func TestClient_LocaleFallback(t *testing.T) {
	var languages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("language")
		languages = append(languages, lang)
		resp := map[string]any{
			"id":           603,
			"title":        "Matrix",
			"release_date": "1999-03-30",
			"runtime":      136,
		}
		if lang == "en-US" {
			resp["overview"] = "A hacker learns the truth."
			resp["runtime"] = 999 // must NOT be spliced in
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", t.TempDir(), WithBaseURL(server.URL))

	movie, err := client.Movie(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, []string{"pt-BR", "en-US"}, languages)
	assert.Equal(t, "A hacker learns the truth.", movie["overview"])
	assert.Equal(t, float64(136), movie["runtime"], "non-locale fields keep preferred-locale values")
}

func TestClient_NoFallbackWhenComplete(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 603, "title": "Matrix", "overview": "Completo.",
		})
	}))
	defer server.Close()

	client := NewClient("test-key", t.TempDir(), WithBaseURL(server.URL))
	_, err := client.Movie(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_Movie_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}))
	defer server.Close()

	client := NewClient("test-key", t.TempDir(), WithBaseURL(server.URL))

	movie, err := client.Movie(context.Background(), 99999999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, movie)
}

func TestClient_FailureServesStaleCache(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 603, "title": "Matrix", "overview": "x"})
	}))
	defer server.Close()

	dir := t.TempDir()
	client := NewClient("test-key", dir, WithBaseURL(server.URL))
	_, err := client.Movie(context.Background(), 603)
	require.NoError(t, err)

	healthy = false
	// New client with zero TTL: the disk entry is expired, forcing a fetch
	// attempt that now fails and falls back to the stale record.
	expired := NewClient("test-key", dir, WithBaseURL(server.URL), WithCacheTTL(0))
	movie, err := expired.Movie(context.Background(), 603)
	assert.Error(t, err)
	assert.Equal(t, "Matrix", movie.Title())
}

func TestClient_TV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/tv/1396", r.URL.Path)
		assert.Equal(t, "aggregate_credits,content_ratings,images,videos,external_ids", r.URL.Query().Get("append_to_response"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":                 1396,
			"name":               "Breaking Bad",
			"overview":           "Um professor de química.",
			"first_air_date":     "2008-01-20",
			"number_of_seasons":  5,
			"number_of_episodes": 62,
			"origin_country":     []string{"US"},
			"aggregate_credits": map[string]any{
				"cast": []map[string]any{
					{"name": "Bryan Cranston", "roles": []map[string]any{{"character": "Walter White"}}},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", t.TempDir(), WithBaseURL(server.URL))

	show, err := client.TV(context.Background(), 1396)
	require.NoError(t, err)
	assert.Equal(t, "Breaking Bad", show.Title())
	assert.Equal(t, 2008, show["year"])
	assert.Equal(t, int64(5), show["seasons_count"])
	assert.Equal(t, int64(62), show["episodes_count"])
	assert.Equal(t, "US", show["countries_text"])

	cast := show["cast"].([]any)
	require.Len(t, cast, 1)
	assert.Equal(t, "Walter White", cast[0].(map[string]any)["role"])
}

func TestClient_SeasonAndEpisode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/tv/1396/season/2":
			assert.Equal(t, "aggregate_credits,images,videos,external_ids", r.URL.Query().Get("append_to_response"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"overview": "Segunda temporada.",
				"air_date": "2009-03-08",
				"episodes": []map[string]any{{"name": "e1"}, {"name": "e2"}},
			})
		case "/3/tv/1396/season/2/episode/5":
			assert.Equal(t, "credits,images,videos,external_ids", r.URL.Query().Get("append_to_response"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"name":       "Breakage",
				"overview":   "Episódio cinco.",
				"runtime":    47,
				"air_date":   "2009-04-05",
				"still_path": "/still.jpg",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient("test-key", t.TempDir(), WithBaseURL(server.URL))

	season, err := client.Season(context.Background(), 1396, 2)
	require.NoError(t, err)
	assert.Equal(t, "Temporada 2", season.Title(), "unnamed season falls back to numbered title")
	assert.Equal(t, 2, season["episodes_count"])
	assert.Equal(t, 2009, season["year"])

	episode, err := client.Episode(context.Background(), 1396, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "Breakage", episode.Title())
	assert.Equal(t, int64(47), episode["runtime"])
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/still.jpg", episode["thumb"])
}
