package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validRenderFormats = map[string]bool{
	"text": true, "json": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if !validRenderFormats[c.Render.Format] {
		errs = append(errs, fmt.Sprintf("render.format: must be text or json; got %q", c.Render.Format))
	}
	if c.TMDB.CacheTTLDays < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.cache_ttl_days: must not be negative, got %d", c.TMDB.CacheTTLDays))
	}
	if c.Catalog.HTTPCacheTTLHours < 0 {
		errs = append(errs, fmt.Sprintf("catalog.http_cache_ttl_hours: must not be negative, got %d", c.Catalog.HTTPCacheTTLHours))
	}
	for name, days := range map[string]int{
		"menus.recent_movie_days":  c.Menus.RecentMovieDays,
		"menus.recent_series_days": c.Menus.RecentSeriesDays,
		"menus.recent_season_days": c.Menus.RecentSeasonDays,
	} {
		if days < 0 {
			errs = append(errs, fmt.Sprintf("%s: must not be negative, got %d", name, days))
		}
	}
	return errs
}

// ConfigError aggregates configuration errors.
type ConfigError struct {
	Path   string
	Errors []string
}

func (e *ConfigError) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	parts := []string{fmt.Sprintf("config %s: validation failed:", e.Path)}
	for _, err := range e.Errors {
		parts = append(parts, fmt.Sprintf("  - %s", err))
	}
	return strings.Join(parts, "\n")
}
