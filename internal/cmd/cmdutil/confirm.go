package cmdutil

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/pkg/errors"
)

// AddYesFlag adds --yes to a destructive command.
func AddYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

// Confirm gates a destructive action. --yes always proceeds; otherwise a
// terminal is asked and anything else is refused.
func Confirm(cmd *cobra.Command, action string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return nil
	}

	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !(isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd())) {
		return &errors.ValidationError{Field: "yes", Message: action + " needs --yes when not run interactively"}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "This will %s. Continue? [y/N] ", action)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errors.ErrCanceled
	}
}
