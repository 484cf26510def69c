// Package sync provides the sync command, which refreshes hikes from the
// remote service and its fallbacks.
package sync

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/emoji"
	"github.com/trailmap/trailmap/internal/cmd/output"
)

// Result is what sync reports.
type Result struct {
	Source  string `json:"source"  yaml:"source"`
	Count   int    `json:"count"   yaml:"count"`
	State   string `json:"state"   yaml:"state"`
	Backend string `json:"backend" yaml:"backend"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewCommand creates the sync command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Refresh hikes from the remote service",
		Long: `Sync lists hikes from the remote service. When the service fails or
returns nothing, hikes come from the cached snapshot, the bundled defaults,
or the static hikes file, whichever is the first to have any.

Sync never fails because of the remote; the report names where the hikes
came from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}

			outcome := tm.Refresh(cmd.Context())
			result := Result{
				Source:  outcome.Source.String(),
				Count:   outcome.Count,
				State:   tm.State().String(),
				Backend: tm.BackendURL(),
			}
			if outcome.Err != nil {
				result.Error = outcome.Err.Error()
			}

			report(cmd, outcome)

			return output.Render(cmd.OutOrStdout(), app.OutputFormat(), output.Data{
				Headers: []string{"Property", "Value"},
				Rows: [][]string{
					{"Source", result.Source},
					{"Hikes", fmt.Sprint(result.Count)},
					{"State", result.State},
					{"Backend", orNone(result.Backend)},
				},
			}, result)
		},
	}
}

// report writes a one-line status to stderr.
func report(cmd *cobra.Command, outcome trailmap.Outcome) {
	w := cmd.ErrOrStderr()
	switch {
	case outcome.Source == trailmap.SourceRemote:
		fmt.Fprintf(w, "%s %d hikes from the remote service\n", emoji.Success, outcome.Count)
	case outcome.Source == trailmap.SourceNone:
		fmt.Fprintf(w, "%s no hikes available from any source\n", emoji.Error)
	default:
		fmt.Fprintf(w, "%s remote unavailable, %d hikes from %s\n", emoji.Warning, outcome.Count, outcome.Source)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
