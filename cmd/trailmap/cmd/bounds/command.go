// Package bounds provides the bounds command.
package bounds

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/output"
)

// NewCommand creates the bounds command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "bounds",
		GroupID: "core",
		Short:   "Print the box around every mappable record",
		Long: `Bounds covers every hike, accommodation and attraction that has both
coordinates, using the hikes currently cached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			b, ok := tm.Bounds()
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "no record has coordinates")
				return nil
			}
			return output.Render(cmd.OutOrStdout(), app.OutputFormat(), output.BoundsToTableData(b), b)
		},
	}
}
