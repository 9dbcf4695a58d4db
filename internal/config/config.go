// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Profile Profile       `toml:"profile"`
	TMDB    TMDBConfig    `toml:"tmdb"`
	Catalog CatalogConfig `toml:"catalog"`
	Menus   MenusConfig   `toml:"menus"`
	Render  RenderConfig  `toml:"render"`
	Log     LogConfig     `toml:"log"`
}

// Profile locates the per-user data directory, the equivalent of the host
// profile the original add-on wrote under.
type Profile struct {
	Dir string `toml:"dir"`
}

type TMDBConfig struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	Language     string `toml:"language"`
	FallbackLang string `toml:"fallback_language"`
	CacheTTLDays int    `toml:"cache_ttl_days"`
}

type CatalogConfig struct {
	// Source is the default catalog document: a local path or an HTTP URL.
	Source string `toml:"source"`
	// HTTPCacheTTLHours bounds how long remote catalog responses are reused.
	HTTPCacheTTLHours int    `toml:"http_cache_ttl_hours"`
	HTTPCachePath     string `toml:"http_cache_path"`
}

// MenusConfig holds the "recent" window sizes. These were hardcoded in the
// original add-on with no documented rationale, so they are configuration
// points here.
type MenusConfig struct {
	RecentMovieDays  int `toml:"recent_movie_days"`
	RecentSeriesDays int `toml:"recent_series_days"`
	RecentSeasonDays int `toml:"recent_season_days"`
}

type RenderConfig struct {
	// Format selects the directory sink: "text" or "json".
	Format string `toml:"format"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, used when no
// config file exists yet.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Profile.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Profile.Dir = filepath.Join(home, ".cineplug")
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org"
	}
	if c.TMDB.Language == "" {
		c.TMDB.Language = "pt-BR"
	}
	if c.TMDB.FallbackLang == "" {
		c.TMDB.FallbackLang = "en-US"
	}
	if c.TMDB.CacheTTLDays == 0 {
		c.TMDB.CacheTTLDays = 7
	}
	if c.Catalog.HTTPCacheTTLHours == 0 {
		c.Catalog.HTTPCacheTTLHours = 6
	}
	if c.Catalog.HTTPCachePath == "" {
		c.Catalog.HTTPCachePath = filepath.Join(c.Profile.Dir, "http_cache.db")
	}
	if c.Menus.RecentMovieDays == 0 {
		c.Menus.RecentMovieDays = 30
	}
	if c.Menus.RecentSeriesDays == 0 {
		c.Menus.RecentSeriesDays = 90
	}
	if c.Menus.RecentSeasonDays == 0 {
		c.Menus.RecentSeasonDays = 60
	}
	if c.Render.Format == "" {
		c.Render.Format = "text"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// TMDBCacheDir is where per-entity metadata files live.
func (c *Config) TMDBCacheDir() string {
	return filepath.Join(c.Profile.Dir, "tmdb_cache")
}

// TMDBCacheTTL returns the entity cache validity window.
func (c *Config) TMDBCacheTTL() time.Duration {
	return time.Duration(c.TMDB.CacheTTLDays) * 24 * time.Hour
}

// HTTPCacheTTL returns the remote catalog cache validity window.
func (c *Config) HTTPCacheTTL() time.Duration {
	return time.Duration(c.Catalog.HTTPCacheTTLHours) * time.Hour
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match
	})
}
