// Package cache provides the cache command.
package cache

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/cmdutil"
	"github.com/trailmap/trailmap/internal/cmd/emoji"
)

// NewCommand creates the cache command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		GroupID: "management",
		Short:   "Manage the local cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove every locally stored value",
		Long: `Clear removes the hike snapshot, accommodations, attractions, the hero
image and the backend override. Remote hikes are not touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmdutil.Confirm(cmd, "remove all local data including accommodations and attractions"); err != nil {
				return err
			}
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if err := tm.ClearLocal(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s local data cleared\n", emoji.Success)
			return nil
		},
	}
	cmdutil.AddYesFlag(clear)
	cmd.AddCommand(clear)

	return cmd
}
