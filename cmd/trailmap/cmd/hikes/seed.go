package hikes

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/cmdutil"
	"github.com/trailmap/trailmap/internal/cmd/emoji"
)

func newSeedCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace every remote hike with the bundled defaults",
		Long: `Seed wipes the remote collection and adds the bundled default hikes in
order. It stops at the first failed add; hikes added before it stay.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmdutil.Confirm(cmd, "delete every remote hike and add the bundled defaults"); err != nil {
				return err
			}

			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			n, err := tm.SeedDefaults(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s seeded %d hikes\n", emoji.Success, n)
			return nil
		},
	}

	cmdutil.AddYesFlag(cmd)

	return cmd
}

func newWipeCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every remote hike",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmdutil.Confirm(cmd, "delete every remote hike"); err != nil {
				return err
			}

			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if err := tm.WipeHikes(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s remote hikes wiped\n", emoji.Success)
			return nil
		},
	}

	cmdutil.AddYesFlag(cmd)

	return cmd
}
