package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrocha/cineplug/internal/menu"
)

var renderCmd = &cobra.Command{
	Use:   "render <base-url> <handle> [query]",
	Short: "Render one directory listing",
	Long: `Render one directory listing from an invocation.

The arguments follow the host convention: the plugin base URL, the
integer directory handle, and the "?"-prefixed query string.

Examples:
  cineplug render plugin://cineplug/ 1 "?mode=100&url=https://host/menu.json"
  cineplug render plugin://cineplug/ 1 "?mode=101&url=eyJhIjoxfQ"`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runRenderCmd,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRenderCmd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	inv, err := menu.ParseInvocation(args)
	if err != nil {
		return err
	}
	r, err := menu.NewRenderer(app.cfg.Render.Format, os.Stdout)
	if err != nil {
		return err
	}
	return app.builder.Build(cmd.Context(), inv, r)
}
