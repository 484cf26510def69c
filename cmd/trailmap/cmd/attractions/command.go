// Package attractions provides the attractions command. Attractions live
// only in the local cache; every change is written through immediately.
package attractions

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

// NewCommand creates the attractions command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attractions",
		Aliases: []string{"attraction", "poi"},
		GroupID: "core",
		Short:   "List and edit attractions (local only)",
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
		Short:   "List attractions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			items := tm.Attractions()
			format := app.OutputFormat()
			return output.Render(cmd.OutOrStdout(), format,
				output.AttractionsToTableData(items, format == string(output.FormatWide)), items)
		},
	}
}

func newAddCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an attraction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := cmdutil.Attraction(cmd, records.Attraction{})
			if err != nil {
				return err
			}
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			index, err := tm.AddAttraction(a)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s added %q at position %d\n", emoji.Success, a.Name, index)
			return nil
		},
	}
	cmdutil.AddRecordFlags(cmd, records.KindAttractions)
	return cmd
}

func newUpdateCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <index>",
		Short: "Change the attraction at a position",
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

			items := tm.Attractions()
			if index >= len(items) {
				return errors.NewNotFoundError(records.KindAttractions.Singular(), args[0])
			}
			a, err := cmdutil.Attraction(cmd, items[index])
			if err != nil {
				return err
			}
			if err := tm.UpdateAttraction(index, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s updated %q\n", emoji.Success, a.Name)
			return nil
		},
	}
	cmdutil.AddRecordFlags(cmd, records.KindAttractions)
	return cmd
}

func newDeleteCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Remove the attraction at a position",
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
			if err := tm.DeleteAttraction(index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s removed position %d\n", emoji.Success, index)
			return nil
		},
	}
}
