// Package markup decides how caller supplied titles, bodies and messages are
// treated before they are inserted into the document.
package markup

import "github.com/microcosm-cc/bluemonday"

// Policy transforms markup before insertion.
type Policy interface {
	Sanitize(s string) string
}

type trusted struct{}

func (trusted) Sanitize(s string) string { return s }

// Trusted inserts markup as given. This is the default: widget content comes
// from page configuration, not from end users.
func Trusted() Policy {
	return trusted{}
}

// Strict strips scripts, event handlers and other active content using
// bluemonday's user generated content policy.
func Strict() Policy {
	return bluemonday.UGCPolicy()
}

// ForConfig returns Strict when sanitize is set and Trusted otherwise.
func ForConfig(sanitize bool) Policy {
	if sanitize {
		return Strict()
	}
	return Trusted()
}
