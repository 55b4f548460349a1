// Package modal implements the modal dialog manager: it builds dialog
// subtrees, keeps at most one of them active, runs the class-driven open and
// close transitions, and positions the active dialog in the viewport.
package modal

import (
	"github.com/hay-kot/overlay/internal/core/clock"
	"github.com/hay-kot/overlay/internal/core/dom"
)

// Class names shared with the stylesheet and the rendering hosts.
const (
	ClassContent = "modal-content"
	ClassTitle   = "modal-title"
	ClassBody    = "modal-body"
	ClassClose   = "modal-close-btn"
	ClassCancel  = "modal-cancel-btn"
	ClassConfirm = "modal-confirm-btn"

	ClassOpaque = "opacity-100"
	ClassScaled = "scale-100"
)

// State is a modal's position in its visibility lifecycle.
type State int

const (
	StateHidden State = iota
	StateOpening
	StateVisible
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateVisible:
		return "visible"
	case StateClosing:
		return "closing"
	default:
		return "hidden"
	}
}

// Modal is a handle to a built dialog. Handles are reused across open and
// close cycles.
type Modal struct {
	title   string
	body    string
	variant Variant

	root    *dom.Element
	content *dom.Element
	closeBt *dom.Element
	cancel  *dom.Element
	confirm *dom.Element

	state State
	timer clock.Timer
}

// Title returns the title markup.
func (m *Modal) Title() string { return m.title }

// Body returns the body markup.
func (m *Modal) Body() string { return m.body }

// Variant returns the variant the modal was built with.
func (m *Modal) Variant() Variant { return m.variant }

// State returns the current lifecycle state.
func (m *Modal) State() State { return m.state }

// Element returns the outer positioned element.
func (m *Modal) Element() *dom.Element { return m.root }

// Content returns the dialog box inside the positioned element.
func (m *Modal) Content() *dom.Element { return m.content }

// CloseButton returns the header close icon button.
func (m *Modal) CloseButton() *dom.Element { return m.closeBt }

// CancelButton returns the footer cancel button.
func (m *Modal) CancelButton() *dom.Element { return m.cancel }

// ConfirmButton returns the footer confirm button.
func (m *Modal) ConfirmButton() *dom.Element { return m.confirm }
