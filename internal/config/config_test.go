package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[profile]
dir = "/tmp/cineplug-test"

[tmdb]
api_key = "abc123"
language = "pt-BR"
cache_ttl_days = 14

[menus]
recent_movie_days = 10

[render]
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.TMDB.APIKey)
	assert.Equal(t, 14*24*time.Hour, cfg.TMDBCacheTTL())
	assert.Equal(t, "/tmp/cineplug-test/tmdb_cache", filepath.ToSlash(cfg.TMDBCacheDir()))
	assert.Equal(t, 10, cfg.Menus.RecentMovieDays)
	assert.Equal(t, "json", cfg.Render.Format)

	// Unset fields get defaults.
	assert.Equal(t, "en-US", cfg.TMDB.FallbackLang)
	assert.Equal(t, 90, cfg.Menus.RecentSeriesDays)
	assert.Equal(t, 6*time.Hour, cfg.HTTPCacheTTL())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("CINEPLUG_TEST_KEY", "from-env")
	path := writeConfig(t, `
[tmdb]
api_key = "${CINEPLUG_TEST_KEY}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TMDB.APIKey)
}

func TestLoad_UnsetEnvVarLeftVerbatim(t *testing.T) {
	path := writeConfig(t, `
[tmdb]
api_key = "${CINEPLUG_DOES_NOT_EXIST}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${CINEPLUG_DOES_NOT_EXIST}", cfg.TMDB.APIKey)
}

func TestLoad_ValidationErrors(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "loud"

[render]
format = "xml"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "render.format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "pt-BR", cfg.TMDB.Language)
	assert.Equal(t, 7*24*time.Hour, cfg.TMDBCacheTTL())
	assert.Equal(t, 30, cfg.Menus.RecentMovieDays)
	assert.Equal(t, "text", cfg.Render.Format)
	assert.NotEmpty(t, cfg.Profile.Dir)
}
