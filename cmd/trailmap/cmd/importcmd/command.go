// Package importcmd provides the import command and its json and sheet
// subcommands.
package importcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/cmdutil"
	"github.com/trailmap/trailmap/internal/cmd/emoji"
)

// NewCommand creates the import command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import",
		GroupID: "management",
		Short:   "Load records from an export document or a spreadsheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newJSONCommand(app))
	cmd.AddCommand(newSheetCommand(app))

	return cmd
}

func newJSONCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "json <location>",
		Short: "Replace local state with an export document",
		Long: `Import json validates the document first; nothing changes when it is
invalid. Hikes from the document are shown and cached but not sent to the
remote service. The location is a file path, "-" for stdin or s3://bucket/key.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if err := tm.ImportFrom(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s imported %d hikes, %d accommodations, %d attractions\n",
				emoji.Success, len(tm.Hikes()), len(tm.Lodgings()), len(tm.Attractions()))
			return nil
		},
	}
}

func newSheetCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet <file>",
		Short: "Replace every remote hike with the rows of a spreadsheet",
		Long: `Import sheet reads an .xlsx or .csv file and seeds the remote service
with its rows: the remote collection is wiped, then each row is added in
order. Workbooks with more than one sheet are read from the second sheet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdutil.Confirm(cmd, "delete every remote hike and add the rows of "+args[0]); err != nil {
				return err
			}

			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			n, err := tm.ImportSheet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s seeded %d hikes from %s\n", emoji.Success, n, args[0])
			return nil
		},
	}

	cmdutil.AddYesFlag(cmd)

	return cmd
}
