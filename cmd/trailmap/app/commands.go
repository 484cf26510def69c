package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/trailmap/cmd/attractions"
	"github.com/trailmap/trailmap/cmd/trailmap/cmd/backend"
	"github.com/trailmap/trailmap/cmd/trailmap/cmd/bounds"
	"github.com/trailmap/trailmap/cmd/trailmap/cmd/cache"
	"github.com/trailmap/trailmap/cmd/trailmap/cmd/export"
	"github.com/trailmap/trailmap/cmd/trailmap/cmd/hero"
	"github.com/trailmap/trailmap/cmd/trailmap/cmd/hikes"
	"github.com/trailmap/trailmap/cmd/trailmap/cmd/importcmd"
	"github.com/trailmap/trailmap/cmd/trailmap/cmd/lodgings"
	"github.com/trailmap/trailmap/cmd/trailmap/cmd/serve"
	synccmd "github.com/trailmap/trailmap/cmd/trailmap/cmd/sync"
)

// registerCommands adds every subcommand to the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core
	rootCmd.AddCommand(synccmd.NewCommand(a))
	rootCmd.AddCommand(hikes.NewCommand(a))
	rootCmd.AddCommand(lodgings.NewCommand(a))
	rootCmd.AddCommand(attractions.NewCommand(a))
	rootCmd.AddCommand(bounds.NewCommand(a))

	// Management
	rootCmd.AddCommand(importcmd.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))
	rootCmd.AddCommand(hero.NewCommand(a))
	rootCmd.AddCommand(backend.NewCommand(a))
	rootCmd.AddCommand(cache.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	rootCmd.AddCommand(a.createVersionCommand())
}

// createVersionCommand creates the version command.
func (a *App) createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("trailmap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
