// Package backend provides the backend command, which shows and overrides
// the remote endpoint.
package backend

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/emoji"
)

// NewCommand creates the backend command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backend",
		GroupID: "management",
		Short:   "Show or override the remote endpoint",
		Long: `The endpoint is chosen from, in order: --backend-url, the override
stored by "backend set", the configured backend_url. With none of them the
remote is disabled and hikes come from the fallbacks.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the endpoint in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if u := tm.BackendURL(); u != "" {
				fmt.Fprintln(cmd.OutOrStdout(), u)
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "remote disabled: no endpoint configured")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <url>",
		Short: "Store an endpoint override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if err := tm.SetBackendURL(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s backend set to %s\n", emoji.Success, tm.BackendURL())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Remove the stored override",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if err := tm.SetBackendURL(cmd.Context(), ""); err != nil {
				return err
			}
			u := tm.BackendURL()
			if u == "" {
				u = "(none)"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s override removed, using %s\n", emoji.Success, u)
			return nil
		},
	})

	return cmd
}
