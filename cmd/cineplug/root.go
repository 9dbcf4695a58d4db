package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrocha/cineplug/internal/config"
	"github.com/mrocha/cineplug/internal/enrich"
	"github.com/mrocha/cineplug/internal/httpcache"
	"github.com/mrocha/cineplug/internal/menu"
	"github.com/mrocha/cineplug/internal/payload"
	"github.com/mrocha/cineplug/internal/tmdb"
)

var version = "dev"

var (
	configPath   string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "cineplug",
	Short: "Catalog menu pipeline for payload-encoded media libraries",
	Long: `cineplug - catalog menu pipeline for payload-encoded media libraries

Renders one directory listing per invocation from a payload token,
enriching catalog items with cached TMDB metadata along the way.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.cineplug/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format: text or json (overrides config)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("cineplug {{.Version}}\n")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// app holds the wired pipeline for one CLI invocation.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	store    *httpcache.Store
	codec    *payload.Codec
	tmdb     *tmdb.Client
	enricher *enrich.Enricher
	builder  *menu.Builder
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".cineplug", "config.toml")
		if _, err := os.Stat(path); err != nil {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if outputFormat != "" {
		cfg.Render.Format = outputFormat
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	store, err := httpcache.Open(cfg.Catalog.HTTPCachePath)
	if err != nil {
		// Degrade to uncached fetches rather than refusing to run.
		logger.Warn("http cache unavailable", "path", cfg.Catalog.HTTPCachePath, "error", err)
		store = nil
	}
	fetcher := httpcache.NewClient(store, cfg.HTTPCacheTTL(), logger)
	codec := payload.NewCodec(fetcher, logger)

	tc := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDBCacheDir(),
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithLocales(cfg.TMDB.Language, cfg.TMDB.FallbackLang),
		tmdb.WithCacheTTL(cfg.TMDBCacheTTL()),
		tmdb.WithLogger(logger),
	)
	enricher := enrich.New(tc, logger)

	return &app{
		cfg:      cfg,
		log:      logger,
		store:    store,
		codec:    codec,
		tmdb:     tc,
		enricher: enricher,
		builder:  menu.NewBuilder(codec, enricher, tc, cfg, logger),
	}, nil
}

func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}
