package commands

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/overlay/internal/core/clock"
	"github.com/hay-kot/overlay/internal/core/config"
	"github.com/hay-kot/overlay/internal/core/dom"
	"github.com/hay-kot/overlay/internal/core/logging"
	"github.com/hay-kot/overlay/internal/page"
	"github.com/hay-kot/overlay/internal/tui"
)

// timerBuffer bounds how many expired callbacks may wait for the Update loop.
const timerBuffer = 64

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Register adds the tui command to the application.
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive page (default command)",
		UsageText: "overlay tui",
		Description: `Renders the trigger page in the terminal. Press a trigger's hotkey or click
it to open a modal or show a notification. Inside a modal, tab and enter
press its buttons, esc closes it and b clicks the backdrop.`,
		Action: cmd.run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg, err := cmd.flags.LoadConfig()
	if err != nil {
		return err
	}

	loop := clock.NewLoop(timerBuffer)
	remount := func(cfg *config.Config, viewport dom.Size) (*page.Page, error) {
		return page.Mount(page.Build(cfg, viewport), cfg, loop, log.Logger)
	}

	cols, rows := terminalSize(100, 30)
	p, err := remount(cfg, dom.Size{
		Width:  float64(cols) * dom.CellWidth,
		Height: float64(rows) * dom.LineHeight,
	})
	if err != nil {
		return err
	}

	opts := tui.Options{
		Timers:  loop.C(),
		Intro:   cfg.Page.Intro,
		Logger:  logging.Component("tui"),
		Remount: remount,
	}

	watcher, err := tui.NewConfigWatcher(cmd.flags.ConfigPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cmd.flags.ConfigPath).Msg("config changes will not be picked up")
	} else {
		defer func() { _ = watcher.Close() }()
		opts.Watcher = watcher
	}

	m := tui.New(p, opts)

	log.Info().
		Int("triggers", len(p.Triggers())).
		Int("cols", cols).
		Int("rows", rows).
		Msg("starting tui")

	prog := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// terminalSize returns stdout's size in cells, or the fallback when stdout
// is not a terminal.
func terminalSize(fallbackCols, fallbackRows int) (int, int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return fallbackCols, fallbackRows
	}
	return cols, rows
}
