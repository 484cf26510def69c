package hikes

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/output"
)

func newListCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List hikes",
		Long: `List refreshes from the remote service and prints the hikes. With
--offline it prints the last cached snapshot without contacting anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			region, _ := cmd.Flags().GetString("region")
			offline, _ := cmd.Flags().GetBool("offline")

			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if !offline {
				refresh(cmd.Context(), tm, app.Logger())
			}

			tm.SetRegion(region)
			hikes := tm.FilteredHikes()

			format := app.OutputFormat()
			fmt.Fprintf(cmd.ErrOrStderr(), "%d hikes (%s)\n", len(hikes), tm.Source())
			return output.Render(cmd.OutOrStdout(), format,
				output.HikesToTableData(hikes, format == string(output.FormatWide)), hikes)
		},
	}

	cmd.Flags().String("region", "", "Only show hikes in this region")
	cmd.Flags().Bool("offline", false, "Show the cached hikes without refreshing")

	return cmd
}

func newRegionsCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the distinct hike regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if offline, _ := cmd.Flags().GetBool("offline"); !offline {
				refresh(cmd.Context(), tm, app.Logger())
			}

			regions := tm.Regions()
			return output.Render(cmd.OutOrStdout(), app.OutputFormat(),
				output.ListToTableData("Region", regions), regions)
		},
	}

	cmd.Flags().Bool("offline", false, "Use the cached hikes without refreshing")

	return cmd
}
