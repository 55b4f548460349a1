package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/overlay/internal/core/modal"
	"github.com/hay-kot/overlay/internal/core/notify"
	"github.com/hay-kot/overlay/internal/core/styles"
)

// ReservedKeys are bound by the TUI and cannot be used as trigger hotkeys.
var ReservedKeys = []string{"q", "b", "d", "?", "esc", "tab", "shift+tab", "enter", "ctrl+c"}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("page.backdrop", c.Page.Backdrop, required),
		criterio.Run("page.container", c.Page.Container, required),
		criterio.Run("timing.modal_transition", c.Timing.ModalTransition, nonNegative),
		criterio.Run("timing.notification_enter", c.Timing.NotificationEnter, nonNegative),
		criterio.Run("timing.notification_exit", c.Timing.NotificationExit, nonNegative),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
		c.validateTriggers(),
	)
}

// ValidateDeep runs Validate and additionally checks that configPath, when
// given, is a readable file.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
	)
}

// Warnings returns non-fatal configuration issues. Unknown variants are
// rendered with the default style rather than rejected.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	for _, m := range c.Modals {
		if !modal.Variant(m.Variant).IsValid() {
			warnings = append(warnings, ValidationWarning{
				Category: "Modals",
				Item:     m.Trigger,
				Message:  fmt.Sprintf("unknown variant %q, the default width is used", m.Variant),
			})
		}
		if m.Key == "" {
			warnings = append(warnings, ValidationWarning{
				Category: "Modals",
				Item:     m.Trigger,
				Message:  "no hotkey, trigger is only reachable with the mouse",
			})
		}
	}

	for _, n := range c.Notifications {
		v := notify.Variant(n.Variant)
		if !v.IsValid() {
			warnings = append(warnings, ValidationWarning{
				Category: "Notifications",
				Item:     n.Trigger,
				Message:  fmt.Sprintf("unknown variant %q, rendered as info", n.Variant),
			})
		}
		if n.Icon != "" && v != notify.VariantCustom {
			warnings = append(warnings, ValidationWarning{
				Category: "Notifications",
				Item:     n.Trigger,
				Message:  "icon is ignored unless variant is custom",
			})
		}
		if n.Key == "" {
			warnings = append(warnings, ValidationWarning{
				Category: "Notifications",
				Item:     n.Trigger,
				Message:  "no hotkey, trigger is only reachable with the mouse",
			})
		}
	}

	return warnings
}

// validateTriggers checks that every trigger has an id and that element ids
// and hotkeys are unique across modals, notifications and the page skeleton.
func (c *Config) validateTriggers() error {
	var errs criterio.FieldErrorsBuilder

	ids := map[string]string{
		c.Page.Backdrop:  "page.backdrop",
		c.Page.Container: "page.container",
	}
	keys := map[string]string{}

	check := func(field, trigger, key string) {
		if trigger == "" {
			errs = errs.Append(field+".trigger", errors.New("is required"))
		} else if prev, ok := ids[trigger]; ok {
			errs = errs.Append(field+".trigger", fmt.Errorf("duplicate element id %q (also used by %s)", trigger, prev))
		} else {
			ids[trigger] = field
		}

		if key == "" {
			return
		}
		if slices.Contains(ReservedKeys, key) {
			errs = errs.Append(field+".key", fmt.Errorf("key %q is reserved", key))
			return
		}
		if prev, ok := keys[key]; ok {
			errs = errs.Append(field+".key", fmt.Errorf("duplicate key %q (also used by %s)", key, prev))
			return
		}
		keys[key] = field
	}

	for i, m := range c.Modals {
		check(fmt.Sprintf("modals[%d]", i), m.Trigger, m.Key)
	}
	for i, n := range c.Notifications {
		check(fmt.Sprintf("notifications[%d]", i), n.Trigger, n.Key)
	}

	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func required(s string) error {
	if s == "" {
		return errors.New("is required")
	}
	return nil
}

func nonNegative(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative, got %s", d)
	}
	return nil
}

func knownTheme(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q, available: %v", name, styles.ThemeNames())
	}
	return nil
}
