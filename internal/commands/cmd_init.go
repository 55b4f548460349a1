package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/overlay/internal/core/config"
	"github.com/hay-kot/overlay/internal/core/styles"
	"github.com/hay-kot/overlay/internal/printer"
)

type InitCmd struct {
	flags *Flags
	yes   bool
	force bool
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Write a default configuration file",
		UsageText: "overlay init [options]",
		Description: `Writes the default page (four modals, five notifications) to the config
path so it can be edited.

Use --yes to accept all defaults without prompts.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)
	path := cmd.flags.ConfigPath

	if configExists(path) && !cmd.force {
		if cmd.yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", path)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(path + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if !cmd.yes {
		if err := promptConfig(&cfg); err != nil {
			return err
		}
	}

	backup, err := writeConfig(path, &cfg)
	if err != nil {
		return err
	}
	if backup != "" {
		p.Infof("Backed up existing config to %s", backup)
	}

	p.Successf("Wrote %s", path)
	p.Printf("")
	p.Printf("  Run 'overlay' to open the page")
	return nil
}

func promptConfig(cfg *config.Config) error {
	themes := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themes = append(themes, huh.NewOption(name, name))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Theme").
			Options(themes...).
			Value(&cfg.TUI.Theme),
		huh.NewConfirm().
			Title("Sanitize modal and notification content?").
			Description("Strips scripts and event handlers from configured markup").
			Value(&cfg.Content.Sanitize),
	))
	return form.Run()
}

// writeConfig writes cfg to path, keeping a .bak copy of any existing file.
// It returns the backup path, or "" when there was nothing to back up.
func writeConfig(path string, cfg *config.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("invalid config: %w", err)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	backup, err := backupConfig(path)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return backup, nil
}

func backupConfig(path string) (string, error) {
	if !configExists(path) {
		return "", nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read existing config: %w", err)
	}

	backupPath := path + ".bak"
	if err := os.WriteFile(backupPath, content, 0o644); err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	return backupPath, nil
}

func configExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
