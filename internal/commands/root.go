package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// NewRoot builds the overlay command tree with its global flags and
// subcommands. With no subcommand it opens the TUI. Callers add the
// Before/After hooks that own process state.
func NewRoot(flags *Flags, version string) *cli.Command {
	root := &cli.Command{
		Name:      "overlay",
		Usage:     "Modal dialogs and toast notifications in the terminal",
		UsageText: "overlay [global options] command [command options]",
		Description: `Overlay renders a page of trigger buttons. Each trigger opens a modal
dialog or shows a toast notification, as described by the config file.

Run 'overlay' with no arguments to open the interactive page.
Run 'overlay snapshot' to script clicks headlessly and print the page HTML.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("OVERLAY_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (the TUI defaults to the state directory)",
				Sources:     cli.EnvVars("OVERLAY_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("OVERLAY_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
	}

	tuiCmd := NewTuiCmd(flags)

	root = tuiCmd.Register(root)
	root = NewSnapshotCmd(flags).Register(root)
	root = NewInitCmd(flags).Register(root)
	root = NewConfigValidateCmd(flags).Register(root)

	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'overlay --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return root
}

// RunsTUI reports whether the invocation opens the terminal page: no
// subcommand, or the tui subcommand.
func RunsTUI(c *cli.Command) bool {
	first := c.Args().First()
	return first == "" || first == "tui"
}
