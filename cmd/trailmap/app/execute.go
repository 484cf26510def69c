package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trailmap/trailmap/internal/cmd/cmdutil"
	"github.com/trailmap/trailmap/internal/cmd/output"
	"github.com/trailmap/trailmap/pkg/errors"
)

const rootLong = `Trailmap keeps a trip's hikes in a remote spreadsheet service and its
accommodations and attractions in a local cache.

When the remote service is unreachable or empty, hikes are served from the
last cached snapshot, the bundled defaults, or a static hikes file, in that
order. Every command works offline against whatever was last seen.`

// Execute builds the command tree and runs it with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.createRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "trailmap",
		Short:             "Hiking trip planner backed by a spreadsheet service",
		Long:              rootLong,
		Version:           a.version,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetVersionTemplate("trailmap {{.Version}}\n")
	root.AddGroup(
		&cobra.Group{ID: "core", Title: "Trip Data:"},
		&cobra.Group{ID: "management", Title: "Management Commands:"},
	)

	c := a.config
	pf := root.PersistentFlags()

	// output and logging
	pf.StringVar(&c.ConfigFile, "config", "", "config file (default $HOME/.trailmap.yaml)")
	pf.StringVarP(&c.Format, "format", "o", c.Format, "output format: table, wide, json, yaml")
	pf.BoolVarP(&c.Verbose, "verbose", "v", false, "debug logging")
	pf.BoolVarP(&c.Quiet, "quiet", "q", false, "only log warnings and errors")
	pf.StringVar(&c.LogLevel, "log-level", "", "trace, debug, info, warn or error; beats -v and -q")
	pf.BoolVar(&c.NoColor, "no-color", false, "disable colored output")

	// remote and local storage
	pf.StringVar(&a.backendFlag, "backend-url", "", "remote endpoint for this run only")
	pf.DurationVar(&c.CallTimeout, "timeout", c.CallTimeout, "limit for each remote call")
	pf.StringVar(&c.CacheDriver, "cache-driver", c.CacheDriver, "local cache: files, sqlite or memory")
	pf.StringVar(&c.CachePath, "cache-path", c.CachePath, "local cache location")

	a.registerCommands(root)
	return root
}

// setupCommand runs before every command: it validates --format, folds the
// global flags into the config, reloads an explicit --config file and
// rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	format := cmdutil.MustFlag(f.GetString, "format")
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}

	a.config.UpdateFromFlags(
		cmdutil.MustFlag(f.GetBool, "verbose"),
		cmdutil.MustFlag(f.GetBool, "quiet"),
		cmdutil.MustFlag(f.GetBool, "no-color"),
		format,
		cmdutil.MustFlag(f.GetString, "log-level"),
	)

	if f.Changed("config") {
		if err := a.config.reload(f.Changed); err != nil {
			return errors.WrapResource("load", "config", a.config.ConfigFile, err)
		}
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// ExitOnError prints err to stderr and exits with status 1. A nil err is
// ignored.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
