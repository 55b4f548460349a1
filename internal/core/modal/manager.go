package modal

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/overlay/internal/core/clock"
	"github.com/hay-kot/overlay/internal/core/dom"
	"github.com/hay-kot/overlay/internal/core/markup"
)

const (
	// DefaultTransition matches the stylesheet's opacity/scale transition.
	DefaultTransition = 200 * time.Millisecond

	// minTop keeps tall dialogs clear of the top of the viewport.
	minTop = 20.0
)

// Option configures a Manager.
type Option func(*Manager)

// WithTransition sets the delay between starting a close and applying the
// hidden end state.
func WithTransition(d time.Duration) Option {
	return func(m *Manager) {
		m.transition = d
	}
}

// WithLogger sets the manager's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithPolicy sets the markup policy applied to titles and bodies.
func WithPolicy(p markup.Policy) Option {
	return func(m *Manager) {
		m.policy = p
	}
}

// Manager owns the single active-modal slot.
type Manager struct {
	doc        *dom.Document
	backdrop   *dom.Element
	sched      clock.Scheduler
	transition time.Duration
	policy     markup.Policy
	log        zerolog.Logger

	active      *Modal
	escape      dom.ListenerID
	escapeBound bool
}

// New creates a Manager and binds the backdrop click and window resize
// listeners.
func New(doc *dom.Document, backdrop *dom.Element, sched clock.Scheduler, opts ...Option) *Manager {
	m := &Manager{
		doc:        doc,
		backdrop:   backdrop,
		sched:      sched,
		transition: DefaultTransition,
		policy:     markup.Trusted(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	backdrop.OnClick(func() {
		if m.active != nil {
			m.Close(m.active)
		}
	})
	doc.AddEventListener(dom.EventResize, func(dom.Event) {
		if m.active != nil {
			m.Position(m.active)
		}
	})

	return m
}

// Active returns the active modal, or nil.
func (m *Manager) Active() *Modal {
	return m.active
}

// Backdrop returns the shared backdrop element.
func (m *Manager) Backdrop() *dom.Element {
	return m.backdrop
}

// Build constructs a hidden, transparent dialog and appends it to the body.
// Unknown variants get the default width.
func (m *Manager) Build(title, body string, variant Variant) *Modal {
	if !variant.IsValid() {
		m.log.Debug().Str("variant", string(variant)).Msg("unknown modal variant, using default")
		variant = VariantDefault
	}

	md := &Modal{title: title, body: body, variant: variant}

	md.root = m.doc.CreateElement("div")
	md.root.SetClassName("fixed z-50 hidden opacity-0 transform")

	md.content = m.div("bg-white rounded-lg shadow-xl transform transition-all " +
		ClassContent + " " + strings.Join(variant.Classes(), " "))
	md.root.AppendChild(md.content)

	header := m.div("p-4 border-b border-gray-200 flex justify-between items-center")
	heading := m.doc.CreateElement("h3")
	heading.SetClassName(ClassTitle + " text-lg font-semibold text-gray-800")
	heading.SetInnerHTML(m.policy.Sanitize(title))
	md.closeBt = m.button(ClassClose+" text-gray-400 hover:text-gray-500", "")
	md.closeBt.SetInnerHTML(`<i class="fas fa-times"></i>`)
	header.AppendChild(heading)
	header.AppendChild(md.closeBt)

	content := m.div(ClassBody + " p-4 text-gray-600")
	content.SetInnerHTML(m.policy.Sanitize(body))

	footer := m.div("p-4 border-t border-gray-200 flex justify-end space-x-3")
	md.cancel = m.button(ClassCancel+" px-4 py-2 bg-gray-200 hover:bg-gray-300 rounded transition", "Cancel")
	md.confirm = m.button(ClassConfirm+" px-4 py-2 bg-blue-600 hover:bg-blue-700 text-white rounded transition", "Confirm")
	footer.AppendChild(md.cancel)
	footer.AppendChild(md.confirm)

	md.content.AppendChild(header)
	md.content.AppendChild(content)
	md.content.AppendChild(footer)

	m.doc.Body().AppendChild(md.root)

	md.closeBt.OnClick(func() { m.Close(md) })
	md.cancel.OnClick(func() { m.Close(md) })

	return md
}

func (m *Manager) div(className string) *dom.Element {
	el := m.doc.CreateElement("div")
	el.SetClassName(className)
	return el
}

func (m *Manager) button(className, label string) *dom.Element {
	el := m.doc.CreateElement("button")
	el.SetClassName(className)
	if label != "" {
		el.SetText(label)
	}
	return el
}

// Open shows md, closing any other active modal first.
func (m *Manager) Open(md *Modal) {
	if md == nil {
		return
	}
	if m.active != nil && m.active != md {
		m.Close(m.active)
	}

	clock.Stop(md.timer)
	m.active = md

	m.backdrop.Show()
	md.root.Show()

	// Flush layout so the opacity/scale change below animates.
	md.root.Reflow()

	m.backdrop.AddClass(ClassOpaque)
	md.root.AddClass(ClassOpaque, ClassScaled)

	m.Position(md)
	m.bindEscape()

	md.state = StateOpening
	md.timer = m.sched.AfterFunc(m.transition, func() {
		md.timer = nil
		if md.state == StateOpening {
			md.state = StateVisible
		}
	})

	m.log.Debug().Str("title", md.title).Str("variant", string(md.variant)).Msg("modal opened")
}

// Close starts the close transition for md. Closing a modal that is hidden
// or already closing does nothing.
func (m *Manager) Close(md *Modal) {
	if md == nil {
		return
	}
	if md.state == StateHidden || md.state == StateClosing {
		m.log.Debug().Str("title", md.title).Stringer("state", md.state).Msg("modal close ignored")
		return
	}

	// Unbind now rather than after the delay so a second Escape cannot
	// re-enter Close.
	m.unbindEscape()

	m.backdrop.RemoveClass(ClassOpaque)
	md.root.RemoveClass(ClassOpaque, ClassScaled)

	md.state = StateClosing
	clock.Stop(md.timer)
	md.timer = m.sched.AfterFunc(m.transition, func() {
		m.finishClose(md)
	})

	m.log.Debug().Str("title", md.title).Msg("modal closing")
}

func (m *Manager) finishClose(md *Modal) {
	md.timer = nil
	md.state = StateHidden
	md.root.Hide()

	// A different modal may have been opened during the transition; it owns
	// the backdrop now.
	if m.active == md {
		m.backdrop.Hide()
		m.active = nil
	}

	m.log.Debug().Str("title", md.title).Msg("modal hidden")
}

// Position places md in the viewport. Centered dialogs are anchored at the
// viewport center; all others are centered horizontally with a top offset of
// a quarter of the free vertical space, never less than 20px.
func (m *Manager) Position(md *Modal) {
	if md == nil {
		return
	}

	if md.variant == VariantCentered {
		md.root.SetStyle("left", "50%")
		md.root.SetStyle("top", "50%")
		md.root.SetStyle("transform", "translate(-50%, -50%)")
		return
	}

	viewport := m.doc.Viewport()
	height := md.content.Measure().Height
	top := math.Max(minTop, (viewport.Height-height)/4)

	md.root.SetStyle("top", px(top))
	md.root.SetStyle("left", "50%")
	md.root.SetStyle("transform", "translateX(-50%)")
}

func (m *Manager) bindEscape() {
	if m.escapeBound {
		return
	}
	m.escape = m.doc.AddEventListener(dom.EventKeyDown, func(ev dom.Event) {
		if ev.Key == dom.KeyEscape && m.active != nil {
			m.Close(m.active)
		}
	})
	m.escapeBound = true
}

func (m *Manager) unbindEscape() {
	if !m.escapeBound {
		return
	}
	m.doc.RemoveEventListener(dom.EventKeyDown, m.escape)
	m.escapeBound = false
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
