// Package config handles configuration loading and validation for overlay.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Element keys of the page skeleton.
const (
	DefaultBackdrop  = "modalBackdrop"
	DefaultContainer = "notificationContainer"
)

// Config holds the application configuration.
type Config struct {
	Page          PageConfig            `yaml:"page"`
	Timing        Timing                `yaml:"timing"`
	Content       Content               `yaml:"content"`
	Modals        []ModalTrigger        `yaml:"modals"`
	Notifications []NotificationTrigger `yaml:"notifications"`
	TUI           TUIConfig             `yaml:"tui"`
}

// PageConfig names the shared elements of the page.
type PageConfig struct {
	Backdrop  string `yaml:"backdrop"`  // element id of the modal backdrop
	Container string `yaml:"container"` // element id of the notification container
	Intro     string `yaml:"intro"`     // markdown shown above the triggers
}

// Timing holds transition and timeout durations.
type Timing struct {
	ModalTransition     time.Duration `yaml:"modal_transition"`
	NotificationEnter   time.Duration `yaml:"notification_enter"`
	NotificationExit    time.Duration `yaml:"notification_exit"`
	NotificationTimeout time.Duration `yaml:"notification_timeout"`
}

// Content controls how titles and bodies are inserted into the page.
type Content struct {
	// Sanitize strips unsafe markup from titles and bodies. Content is
	// trusted when false.
	Sanitize bool `yaml:"sanitize"`
}

// ModalTrigger defines a trigger button that opens a modal.
type ModalTrigger struct {
	Trigger string `yaml:"trigger"` // element id of the trigger button
	Key     string `yaml:"key"`     // TUI hotkey
	Title   string `yaml:"title"`
	Body    string `yaml:"body"`
	Variant string `yaml:"variant"` // default, large, scrollable, centered
}

// NotificationTrigger defines a trigger button that shows a notification.
type NotificationTrigger struct {
	Trigger string `yaml:"trigger"`
	Key     string `yaml:"key"`
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
	Variant string `yaml:"variant"` // info, success, error, warning, custom
	Icon    string `yaml:"icon"`    // icon class, custom variant only
	// Timeout overrides timing.notification_timeout. Zero or negative keeps
	// the notification until it is dismissed.
	Timeout *time.Duration `yaml:"timeout,omitempty"`
}

// TimeoutOr returns the trigger's timeout, or def when none is set.
func (n NotificationTrigger) TimeoutOr(def time.Duration) time.Duration {
	if n.Timeout == nil {
		return def
	}
	return *n.Timeout
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns the demo page: four modals and five notifications.
func DefaultConfig() Config {
	customTimeout := 5000 * time.Millisecond

	return Config{
		Page: PageConfig{
			Backdrop:  DefaultBackdrop,
			Container: DefaultContainer,
			Intro: "# Modals & Notifications\n\n" +
				"Press a hotkey to open a modal or show a notification. " +
				"`esc` or a click outside closes the open modal.",
		},
		Timing: Timing{
			ModalTransition:     200 * time.Millisecond,
			NotificationEnter:   10 * time.Millisecond,
			NotificationExit:    300 * time.Millisecond,
			NotificationTimeout: 3000 * time.Millisecond,
		},
		Modals: []ModalTrigger{
			{
				Trigger: "defaultModalBtn",
				Key:     "1",
				Title:   "Default Modal",
				Body:    "This is a default modal with some content. Click outside or press ESC to close.",
				Variant: "default",
			},
			{
				Trigger: "largeModalBtn",
				Key:     "2",
				Title:   "Large Modal",
				Body:    strings.Repeat("This modal has a larger width. Useful for more content. ", 10),
				Variant: "large",
			},
			{
				Trigger: "scrollableModalBtn",
				Key:     "3",
				Title:   "Scrollable Modal",
				Body:    strings.Repeat("This content is long enough to make the modal scrollable. ", 30),
				Variant: "scrollable",
			},
			{
				Trigger: "centeredModalBtn",
				Key:     "4",
				Title:   "Centered Modal",
				Body:    "This modal is vertically centered on the page.",
				Variant: "centered",
			},
		},
		Notifications: []NotificationTrigger{
			{
				Trigger: "successNotifBtn",
				Key:     "s",
				Title:   "Success!",
				Message: "Your action was completed successfully.",
				Variant: "success",
			},
			{
				Trigger: "errorNotifBtn",
				Key:     "e",
				Title:   "Error!",
				Message: "Something went wrong. Please try again.",
				Variant: "error",
			},
			{
				Trigger: "warningNotifBtn",
				Key:     "w",
				Title:   "Warning!",
				Message: "This action requires your attention.",
				Variant: "warning",
			},
			{
				Trigger: "infoNotifBtn",
				Key:     "i",
				Title:   "Info",
				Message: "Here is some information for you.",
				Variant: "info",
			},
			{
				Trigger: "customNotifBtn",
				Key:     "c",
				Title:   "Custom Notification",
				Message: "This notification has a custom icon and longer timeout.",
				Variant: "custom",
				Icon:    "fas fa-star",
				Timeout: &customTimeout,
			},
		},
		TUI: TUIConfig{
			Theme: "tokyo-night",
		},
	}
}

// Load reads configuration from the given path. If configPath is empty or
// doesn't exist, the defaults are returned.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Page.Backdrop == "" {
		c.Page.Backdrop = defaults.Page.Backdrop
	}
	if c.Page.Container == "" {
		c.Page.Container = defaults.Page.Container
	}
	if c.Timing.ModalTransition == 0 {
		c.Timing.ModalTransition = defaults.Timing.ModalTransition
	}
	if c.Timing.NotificationEnter == 0 {
		c.Timing.NotificationEnter = defaults.Timing.NotificationEnter
	}
	if c.Timing.NotificationExit == 0 {
		c.Timing.NotificationExit = defaults.Timing.NotificationExit
	}
	if c.Timing.NotificationTimeout == 0 {
		c.Timing.NotificationTimeout = defaults.Timing.NotificationTimeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}

	for i := range c.Modals {
		if c.Modals[i].Variant == "" {
			c.Modals[i].Variant = "default"
		}
	}
	for i := range c.Notifications {
		if c.Notifications[i].Variant == "" {
			c.Notifications[i].Variant = "info"
		}
	}
}
