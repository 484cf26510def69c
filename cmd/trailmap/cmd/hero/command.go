// Package hero provides the hero command, which manages the trip's hero image.
package hero

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/cmd/emoji"
	"github.com/trailmap/trailmap/pkg/errors"
)

// NewCommand creates the hero command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hero",
		GroupID: "management",
		Short:   "Show or change the hero image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored hero image URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			u, err := tm.HeroURL(cmd.Context())
			if err != nil {
				return err
			}
			if u == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "no hero image set")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <url>",
		Short: "Use an image URL as the hero image (\"\" removes it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if err := tm.SetHeroURL(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s hero image updated\n", emoji.Success)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <image-file>",
		Short: "Store an image file as the hero image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.WrapIO("read", args[0], err)
			}
			tm, err := app.Trailmap(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := tm.SetHeroImage(cmd.Context(), data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s hero image stored (%d bytes)\n", emoji.Success, len(data))
			return nil
		},
	})

	return cmd
}
