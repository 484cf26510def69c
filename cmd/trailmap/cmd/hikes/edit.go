package hikes

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/cmdutil"
	"github.com/trailmap/trailmap/internal/cmd/emoji"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/records"
)

func newAddCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a hike to the remote collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hike, err := cmdutil.Hike(cmd, records.Hike{})
			if err != nil {
				return err
			}

			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if err := tm.AddHike(cmd.Context(), hike); err != nil {
				return errors.WrapResource("add", "hike", hike.Name, err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s added %q, %d hikes now\n", emoji.Success, hike.Name, len(tm.Hikes()))
			return nil
		},
	}

	cmdutil.AddRecordFlags(cmd, records.KindHikes)

	return cmd
}

func newUpdateCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <index>",
		Short: "Change the hike at a position",
		Long: `Update refreshes first, then replaces the hike at <index> with the
current values overlaid by the flags given. A position the remote has no id
for is left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := cmdutil.Index(args[0])
			if err != nil {
				return err
			}

			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			refresh(cmd.Context(), tm, app.Logger())

			current, err := tm.Hike(index)
			if err != nil {
				return err
			}
			hike, err := cmdutil.Hike(cmd, current)
			if err != nil {
				return err
			}

			sent, err := tm.UpdateHike(cmd.Context(), index, hike)
			if err != nil {
				return errors.WrapResource("update", "hike", args[0], err)
			}
			if !sent {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s position %d has no server id, nothing changed\n", emoji.Warning, index)
				return nil
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s updated %q\n", emoji.Success, hike.Name)
			return nil
		},
	}

	cmdutil.AddRecordFlags(cmd, records.KindHikes)

	return cmd
}

func newDeleteCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Remove the hike at a position",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := cmdutil.Index(args[0])
			if err != nil {
				return err
			}

			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			refresh(cmd.Context(), tm, app.Logger())

			sent, err := tm.DeleteHike(cmd.Context(), index)
			if err != nil {
				return errors.WrapResource("delete", "hike", args[0], err)
			}
			if !sent {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s position %d has no server id, nothing removed\n", emoji.Warning, index)
				return nil
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s removed position %d, %d hikes now\n", emoji.Success, index, len(tm.Hikes()))
			return nil
		},
	}
}
