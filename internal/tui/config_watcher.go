package tui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/hay-kot/overlay/internal/core/config"
)

// configChangeMsg is sent when the config file changes on disk.
type configChangeMsg struct {
	cfg *config.Config
	err error
}

// ConfigWatcher watches the config file for changes.
type ConfigWatcher struct {
	watcher     *fsnotify.Watcher
	path        string
	debounceDur time.Duration
}

// NewConfigWatcher creates a watcher for the config file at path. The
// file's directory must exist.
func NewConfigWatcher(path string) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return &ConfigWatcher{
		watcher:     watcher,
		path:        path,
		debounceDur: 100 * time.Millisecond,
	}, nil
}

// Start returns a command that waits for the next change and reloads the
// config. Issue it again after each configChangeMsg.
func (w *ConfigWatcher) Start() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.relevant(event) {
					continue
				}

				// Debounce: wait for changes to settle
				time.Sleep(w.debounceDur)
				if !w.drain() {
					return nil
				}

				cfg, err := config.Load(w.path)
				return configChangeMsg{cfg: cfg, err: err}

			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// drain discards queued events. It reports false once the watcher is closed.
func (w *ConfigWatcher) drain() bool {
	for {
		select {
		case _, ok := <-w.watcher.Events:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}

func (w *ConfigWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// Close stops the watcher.
func (w *ConfigWatcher) Close() error {
	return w.watcher.Close()
}
