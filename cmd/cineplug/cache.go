package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local caches",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop expired HTTP cache rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if app.store == nil {
			return fmt.Errorf("http cache is not available")
		}
		n, err := app.store.Prune(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("pruned %d expired entries\n", n)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the HTTP and TMDB caches",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if app.store != nil {
			if err := app.store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clearing http cache: %w", err)
			}
		}
		if err := app.tmdb.ClearCache(); err != nil {
			return fmt.Errorf("clearing tmdb cache: %w", err)
		}
		fmt.Println("caches cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
