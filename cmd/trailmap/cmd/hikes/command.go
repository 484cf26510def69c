// Package hikes provides the hikes command and its subcommands.
package hikes

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/cmd/application"
)

// NewCommand creates the hikes command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hikes",
		Aliases: []string{"hike"},
		GroupID: "core",
		Short:   "List and edit the remote hike collection",
		Long: `Hikes are stored by the remote service. Positions shown by "hikes list"
are what update and delete address; they are mapped to the service's own
ids on every successful list.`,
		Example: `  trailmap hikes list
  trailmap hikes list --region Galilee -o wide
  trailmap hikes add --name "Nahal Amud" --region Galilee --lat 32.92 --lon 35.49
  trailmap hikes update 3 --difficulty hard
  trailmap hikes delete 3
  trailmap hikes seed --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newRegionsCommand(app))
	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newUpdateCommand(app))
	cmd.AddCommand(newDeleteCommand(app))
	cmd.AddCommand(newSeedCommand(app))
	cmd.AddCommand(newWipeCommand(app))

	return cmd
}

// refresh lists the remote so positions map to server ids, and logs when
// the hikes came from a fallback instead.
func refresh(ctx context.Context, tm trailmap.Client, logger *zerolog.Logger) trailmap.Outcome {
	outcome := tm.Refresh(ctx)
	if outcome.Source != trailmap.SourceRemote {
		logger.Warn().
			Err(outcome.Err).
			Str("source", outcome.Source.String()).
			Int("count", outcome.Count).
			Msg("remote unavailable, showing fallback hikes")
	}
	return outcome
}
