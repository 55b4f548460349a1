// Package notify implements the transient notification (toast) manager.
package notify

import "time"

// Variant selects a notification's icon and color family.
type Variant string

const (
	VariantInfo    Variant = "info"
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantCustom  Variant = "custom"
)

// ParseVariant maps s to a Variant, falling back to VariantInfo.
func ParseVariant(s string) Variant {
	v := Variant(s)
	if v.IsValid() {
		return v
	}
	return VariantInfo
}

// IsValid reports whether v is one of the known variants.
func (v Variant) IsValid() bool {
	switch v {
	case VariantInfo, VariantSuccess, VariantError, VariantWarning, VariantCustom:
		return true
	default:
		return false
	}
}

// Variants lists every variant.
func Variants() []Variant {
	return []Variant{VariantInfo, VariantSuccess, VariantError, VariantWarning, VariantCustom}
}

// Icon classes from the glyph font.
const (
	IconInfo    = "fas fa-info-circle"
	IconSuccess = "fas fa-check-circle"
	IconError   = "fas fa-times-circle"
	IconWarning = "fas fa-exclamation-triangle"
	IconBell    = "fas fa-bell"
)

// Style is the visual treatment for a variant.
type Style struct {
	Icon   string
	Family string // color family: blue, green, red, yellow, indigo
}

// Background returns the background utility class.
func (s Style) Background() string { return "bg-" + s.Family + "-100" }

// Text returns the text color utility class.
func (s Style) Text() string { return "text-" + s.Family + "-800" }

// Border returns the border color utility class.
func (s Style) Border() string { return "border-" + s.Family + "-200" }

// StyleFor returns the style for v. icon is only used by VariantCustom, which
// falls back to the bell when icon is empty.
func StyleFor(v Variant, icon string) Style {
	switch v {
	case VariantSuccess:
		return Style{Icon: IconSuccess, Family: "green"}
	case VariantError:
		return Style{Icon: IconError, Family: "red"}
	case VariantWarning:
		return Style{Icon: IconWarning, Family: "yellow"}
	case VariantCustom:
		if icon == "" {
			icon = IconBell
		}
		return Style{Icon: icon, Family: "indigo"}
	default:
		return Style{Icon: IconInfo, Family: "blue"}
	}
}

// Notification is a single notification as requested by the caller.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Variant   Variant
	Icon      string
	Timeout   time.Duration // <= 0 disables auto-dismiss
	CreatedAt time.Time
}

// Style returns the notification's visual treatment.
func (n Notification) Style() Style {
	return StyleFor(n.Variant, n.Icon)
}

// State is a notification's position in its lifecycle.
type State int

const (
	StateEntering State = iota // attached, still translated off-screen
	StateShown
	StateLeaving // animating out, detach pending
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateEntering:
		return "entering"
	case StateShown:
		return "shown"
	case StateLeaving:
		return "leaving"
	default:
		return "removed"
	}
}
