// Package lodgings provides the lodgings command. Lodgings live only in the
// local cache; every change is written through immediately.
package lodgings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/cmdutil"
	"github.com/trailmap/trailmap/internal/cmd/emoji"
	"github.com/trailmap/trailmap/internal/cmd/output"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/records"
)

// NewCommand creates the lodgings command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lodgings",
		Aliases: []string{"lodging", "accommodations"},
		GroupID: "core",
		Short:   "List and edit accommodations (local only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newUpdateCommand(app))
	cmd.AddCommand(newDeleteCommand(app))

	return cmd
}

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accommodations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			items := tm.Lodgings()
			format := app.OutputFormat()
			return output.Render(cmd.OutOrStdout(), format,
				output.LodgingsToTableData(items, format == string(output.FormatWide)), items)
		},
	}
}

func newAddCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an accommodation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := cmdutil.Lodging(cmd, records.Lodging{})
			if err != nil {
				return err
			}
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			index, err := tm.AddLodging(l)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s added %q at position %d\n", emoji.Success, l.Name, index)
			return nil
		},
	}
	cmdutil.AddRecordFlags(cmd, records.KindAccommodations)
	return cmd
}

func newUpdateCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <index>",
		Short: "Change the accommodation at a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := cmdutil.Index(args[0])
			if err != nil {
				return err
			}
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}

			items := tm.Lodgings()
			if index >= len(items) {
				return errors.NewNotFoundError(records.KindAccommodations.Singular(), args[0])
			}
			l, err := cmdutil.Lodging(cmd, items[index])
			if err != nil {
				return err
			}
			if err := tm.UpdateLodging(index, l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s updated %q\n", emoji.Success, l.Name)
			return nil
		},
	}
	cmdutil.AddRecordFlags(cmd, records.KindAccommodations)
	return cmd
}

func newDeleteCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Remove the accommodation at a position",
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
			if err := tm.DeleteLodging(index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s removed position %d\n", emoji.Success, index)
			return nil
		},
	}
}
