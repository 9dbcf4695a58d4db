package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrocha/cineplug/internal/catalog"
	"github.com/mrocha/cineplug/internal/menu"
	"github.com/mrocha/cineplug/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <query>...",
	Short: "Search a catalog by title",
	Long: `Search a catalog by title with accent-insensitive fuzzy matching.

Examples:
  cineplug search --catalog ./library.json interstellar
  cineplug search --catalog https://host/menu.json "tropa de elite"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("catalog", "", "Catalog file, URL, or payload token (defaults to configured source)")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	source, _ := cmd.Flags().GetString("catalog")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if source == "" {
		source = app.cfg.Catalog.Source
	}
	if source == "" {
		return fmt.Errorf("no catalog: pass --catalog or set catalog.source in the config")
	}

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

	matches := search.Match(app.enricher.Enrich(items), query)
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}

	r, err := menu.NewRenderer(app.cfg.Render.Format, os.Stdout)
	if err != nil {
		return err
	}
	for _, it := range matches {
		e := menu.Entry{
			Title:  it.Title(),
			URL:    it.URL(),
			Year:   it.Year(),
			Rating: it.Rating(),
		}
		if err := r.Add(e); err != nil {
			return err
		}
	}
	return r.Done(true)
}
