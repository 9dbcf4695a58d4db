package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrocha/cineplug/internal/catalog"
)

func TestMatch_Substring(t *testing.T) {
	items := []catalog.Item{
		{"title": "The Matrix"},
		{"title": "The Matrix Reloaded"},
		{"title": "Blade Runner"},
	}

	got := Match(items, "matrix")
	require.Len(t, got, 2)
	assert.Equal(t, "The Matrix", got[0].Title())
	assert.Equal(t, "The Matrix Reloaded", got[1].Title())
}

func TestMatch_AccentInsensitive(t *testing.T) {
	items := []catalog.Item{{"title": "Cidade de Deus"}, {"name": "Tropa de Élite"}}

	got := Match(items, "elite")
	require.Len(t, got, 1)
	assert.Equal(t, "Tropa de Élite", got[0].Title())
}

func TestMatch_FuzzyTypo(t *testing.T) {
	items := []catalog.Item{{"title": "Interstellar"}, {"title": "Up"}}

	got := Match(items, "intersteller")
	require.NotEmpty(t, got)
	assert.Equal(t, "Interstellar", got[0].Title())
}

func TestMatch_EmptyQueryAndNoTitle(t *testing.T) {
	items := []catalog.Item{{"title": "A"}, {"url": "http://x"}}

	assert.Nil(t, Match(items, ""))
	assert.Nil(t, Match(items, "   "))
	assert.Empty(t, Match([]catalog.Item{{"url": "http://x"}}, "anything"))
}
