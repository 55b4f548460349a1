package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/overlay/internal/core/clock"
	"github.com/hay-kot/overlay/internal/core/config"
	"github.com/hay-kot/overlay/internal/core/dom"
	"github.com/hay-kot/overlay/internal/page"
)

// Viewport used by snapshot when neither a size flag nor a terminal is
// available.
const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 800
)

type SnapshotCmd struct {
	flags  *Flags
	clicks []string
	after  time.Duration
	width  int
	height int
}

// NewSnapshotCmd creates a new snapshot command.
func NewSnapshotCmd(flags *Flags) *SnapshotCmd {
	return &SnapshotCmd{flags: flags}
}

// Register adds the snapshot command to the application.
func (cmd *SnapshotCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "snapshot",
		Usage:     "Click triggers headlessly and print the resulting page HTML",
		UsageText: "overlay snapshot [options]",
		Description: `Builds the page, clicks the given triggers in order, advances a simulated
clock and prints the body HTML. No real time passes.

Examples:
  overlay snapshot --click defaultModalBtn
  overlay snapshot --click successNotifBtn --after 10ms
  overlay snapshot --click warningNotifBtn --after 3300ms`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "click",
				Usage:       "trigger element id to click (repeatable)",
				Destination: &cmd.clicks,
			},
			&cli.DurationFlag{
				Name:        "after",
				Usage:       "simulated time to advance after the clicks",
				Destination: &cmd.after,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "viewport width in pixels (defaults to the terminal size)",
				Destination: &cmd.width,
			},
			&cli.IntFlag{
				Name:        "height",
				Usage:       "viewport height in pixels (defaults to the terminal size)",
				Destination: &cmd.height,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *SnapshotCmd) run(ctx context.Context, c *cli.Command) error {
	cfg, err := cmd.flags.LoadConfig()
	if err != nil {
		return err
	}

	return snapshot(c.Root().Writer, cfg, snapshotOptions{
		Clicks:   cmd.clicks,
		After:    cmd.after,
		Viewport: cmd.viewport(),
	}, log.Logger)
}

func (cmd *SnapshotCmd) viewport() dom.Size {
	size := dom.Size{Width: defaultViewportWidth, Height: defaultViewportHeight}
	if cols, rows := terminalSize(0, 0); cols > 0 {
		size = dom.Size{
			Width:  float64(cols) * dom.CellWidth,
			Height: float64(rows) * dom.LineHeight,
		}
	}

	if cmd.width > 0 {
		size.Width = float64(cmd.width)
	}
	if cmd.height > 0 {
		size.Height = float64(cmd.height)
	}
	return size
}

type snapshotOptions struct {
	Clicks   []string
	After    time.Duration
	Viewport dom.Size
}

// snapshot mounts a page on a fake clock, replays the clicks and writes the
// body HTML to w.
func snapshot(w io.Writer, cfg *config.Config, opts snapshotOptions, logger zerolog.Logger) error {
	fake := clock.NewFake()
	doc := page.Build(cfg, opts.Viewport)

	p, err := page.Mount(doc, cfg, fake, logger)
	if err != nil {
		return err
	}

	for _, key := range opts.Clicks {
		if err := p.Click(key); err != nil {
			return fmt.Errorf("click: %w", err)
		}
	}
	if opts.After > 0 {
		fake.Advance(opts.After)
	}

	out, err := doc.HTML()
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	logger.Debug().
		Int("clicks", len(opts.Clicks)).
		Dur("after", opts.After).
		Int("pending_timers", fake.Pending()).
		Msg("snapshot rendered")

	_, err = fmt.Fprintln(w, out)
	return err
}
