package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrocha/cineplug/internal/catalog"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one TMDB record into the cache",
	Long: `Fetch one TMDB record into the cache and print it.

Examples:
  cineplug fetch --type movie --id 157336
  cineplug fetch --type tv --id 70523
  cineplug fetch --type tv --id 70523 --season 1
  cineplug fetch --type tv --id 70523 --season 1 --episode 3`,
	RunE: runFetchCmd,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().String("type", "movie", "Media type (movie or tv)")
	fetchCmd.Flags().Int64("id", 0, "TMDB id")
	fetchCmd.Flags().Int("season", -1, "Season number (tv only)")
	fetchCmd.Flags().Int("episode", 0, "Episode number (tv only, needs --season)")
	_ = fetchCmd.MarkFlagRequired("id")
}

func runFetchCmd(cmd *cobra.Command, args []string) error {
	mediaType, _ := cmd.Flags().GetString("type")
	id, _ := cmd.Flags().GetInt64("id")
	season, _ := cmd.Flags().GetInt("season")
	episode, _ := cmd.Flags().GetInt("episode")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	var record catalog.Item
	switch {
	case mediaType == "tv" && season >= 0 && episode > 0:
		record, err = app.tmdb.Episode(ctx, id, season, episode)
	case mediaType == "tv" && season >= 0:
		record, err = app.tmdb.Season(ctx, id, season)
	case mediaType == "tv":
		record, err = app.tmdb.TV(ctx, id)
	case mediaType == "movie":
		record, err = app.tmdb.Movie(ctx, id)
	default:
		return fmt.Errorf("unknown media type %q", mediaType)
	}
	if err != nil && len(record) == 0 {
		return fmt.Errorf("fetch %s %d: %w", mediaType, id, err)
	}
	if err != nil {
		app.log.Warn("serving stale record", "type", mediaType, "id", id, "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(record)
}
