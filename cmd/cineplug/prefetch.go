package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrocha/cineplug/internal/catalog"
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch <catalog-file-or-url>",
	Short: "Warm the TMDB cache for a whole catalog",
	Long: `Warm the TMDB cache for every item in a catalog document.

The argument is a payload token, a local JSON file, or a remote URL.

Examples:
  cineplug prefetch ./library.json
  cineplug prefetch https://host/menu.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPrefetchCmd,
}

func init() {
	rootCmd.AddCommand(prefetchCmd)
}

func runPrefetchCmd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	source := args[0]
	var items []catalog.Item
	if data, err := os.ReadFile(source); err == nil {
		items, err = catalog.ItemsFromDocument(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", source, err)
		}
	} else {
		items = app.codec.Decode(cmd.Context(), source)
	}
	if len(items) == 0 {
		return fmt.Errorf("no items in %s", source)
	}

	app.enricher.Prefetch(cmd.Context(), items)
	fmt.Printf("prefetched metadata for %d items\n", len(items))
	return nil
}
