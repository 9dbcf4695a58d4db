package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_Accessors(t *testing.T) {
	it := Item{
		"name":           "Breaking Bad",
		"tmdb_id":        "1396",
		"tmdb_type":      "tv",
		"link":           "http://example.com/bb",
		"plot":           "A chemistry teacher.",
		"first_air_date": "2008-01-20",
		"vote_average":   8.9,
		"vote_count":     float64(12000),
	}

	assert.Equal(t, "Breaking Bad", it.Title())
	assert.Equal(t, int64(1396), it.TMDBID())
	assert.Equal(t, "tv", it.MediaType())
	assert.Equal(t, "http://example.com/bb", it.URL())
	assert.Equal(t, "A chemistry teacher.", it.Plot())
	assert.Equal(t, 2008, it.Year())
	assert.Equal(t, 8.9, it.Rating())
	assert.Equal(t, int64(12000), it.Votes())
}

func TestItem_MediaTypeDefaultsToMovie(t *testing.T) {
	assert.Equal(t, "movie", Item{}.MediaType())
	assert.Equal(t, "movie", Item{"type": ""}.MediaType())
}

func TestItem_YearFromReleaseDate(t *testing.T) {
	assert.Equal(t, 2021, Item{"release_date": "2021-07-04"}.Year())
	assert.Equal(t, 0, Item{"release_date": "soon"}.Year())
	assert.Equal(t, 0, Item{}.Year())
	assert.Equal(t, 1994, Item{"year": float64(1994)}.Year())
}

func TestItem_Names_BothShapes(t *testing.T) {
	record := Item{"genres": []any{
		map[string]any{"id": float64(18), "name": "Drama"},
		map[string]any{"name": "Crime"},
	}}
	assert.Equal(t, []string{"Drama", "Crime"}, record.Genres())

	delimited := Item{"genre": "Action, Sci-Fi / Thriller"}
	assert.Equal(t, []string{"Action", "Sci-Fi", "Thriller"}, delimited.Genres())

	assert.Nil(t, Item{}.Genres())
}

func TestItem_SetAbsent(t *testing.T) {
	it := Item{"title": "Kept", "overview": "", "runtime": float64(0)}

	it.SetAbsent("title", "Replaced")
	it.SetAbsent("overview", "Filled")
	it.SetAbsent("runtime", float64(120))
	it.SetAbsent("new_field", "New")

	assert.Equal(t, "Kept", it["title"])
	assert.Equal(t, "Filled", it["overview"])
	assert.Equal(t, float64(120), it["runtime"])
	assert.Equal(t, "New", it["new_field"])
}

func TestItem_Clone_DoesNotAlias(t *testing.T) {
	orig := Item{"title": "Original"}
	copy := orig.Clone()
	copy["title"] = "Changed"
	assert.Equal(t, "Original", orig["title"])
}

func TestItemsFromDocument(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		want  int
		title string
	}{
		{"bare list", `[{"title":"A"},{"title":"B"}]`, 2, "A"},
		{"menu container", `{"menu":[{"title":"M"}]}`, 1, "M"},
		{"items container", `{"items":[{"title":"I"}]}`, 1, "I"},
		{"channels container", `{"channels":[{"title":"C"}]}`, 1, "C"},
		{"single object", `{"title":"S"}`, 1, "S"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ItemsFromDocument([]byte(tt.doc))
			require.NoError(t, err)
			require.Len(t, items, tt.want)
			assert.Equal(t, tt.title, items[0].Title())
		})
	}
}

func TestItemsFromDocument_Invalid(t *testing.T) {
	_, err := ItemsFromDocument([]byte(`not json`))
	assert.Error(t, err)

	_, err = ItemsFromDocument([]byte(`"just a string"`))
	assert.Error(t, err)
}
