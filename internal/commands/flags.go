package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hay-kot/overlay/internal/core/config"
	"github.com/hay-kot/overlay/internal/core/styles"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded on first use by LoadConfig.
	Config *config.Config
}

// LoadConfig loads the config file once and applies its theme.
func (f *Flags) LoadConfig() (*config.Config, error) {
	if f.Config != nil {
		return f.Config, nil
	}

	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Validation ensures the theme name is known.
	palette, _ := styles.GetPalette(cfg.TUI.Theme)
	styles.SetTheme(palette)

	f.Config = cfg
	return cfg, nil
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "overlay", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/overlay/overlay.log
// On Linux: $XDG_STATE_HOME/overlay/overlay.log (defaults to ~/.local/state/overlay/overlay.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "overlay", "overlay.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "overlay", "overlay.log")
	}

	return filepath.Join(home, ".local", "state", "overlay", "overlay.log")
}
