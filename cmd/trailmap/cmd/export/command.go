// Package export provides the export command.
package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/emoji"
)

// NewCommand creates the export command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export [location]",
		GroupID: "management",
		Short:   "Write every record to a JSON document",
		Long: `Export writes hikes, accommodations, attractions, the hero image and the
backend override to one JSON document. The location is a file path, "-"
for stdout (the default) or s3://bucket/key.`,
		Example: `  trailmap export > trip.json
  trailmap export trip.json
  trailmap export s3://trips/2026/trip.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := "-"
			if len(args) == 1 {
				location = args[0]
			}

			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if offline, _ := cmd.Flags().GetBool("offline"); !offline {
				tm.Refresh(cmd.Context())
			}

			if err := tm.ExportTo(cmd.Context(), location); err != nil {
				return err
			}
			if location != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s exported %d hikes, %d accommodations, %d attractions to %s\n",
					emoji.Success, len(tm.Hikes()), len(tm.Lodgings()), len(tm.Attractions()), location)
			}
			return nil
		},
	}

	cmd.Flags().Bool("offline", false, "Export the cached hikes without refreshing")

	return cmd
}
