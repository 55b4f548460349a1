package notify

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/overlay/internal/core/clock"
	"github.com/hay-kot/overlay/internal/core/dom"
	"github.com/hay-kot/overlay/internal/core/markup"
)

const (
	DefaultTimeout    = 3000 * time.Millisecond
	DefaultEnterDelay = 10 * time.Millisecond
	DefaultExitDelay  = 300 * time.Millisecond

	// IDPrefix prefixes the monotonic counter in notification ids.
	IDPrefix = "notification-"

	ClassOffscreen = "translate-x-full"
	ClassTitle     = "notification-title"
	ClassMessage   = "notification-message"
	ClassClose     = "notification-close-btn"
)

// Option configures a Manager.
type Option func(*Manager)

// WithDefaultTimeout sets the auto-dismiss delay used when Show is not given
// WithTimeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(m *Manager) { m.defaultTimeout = d }
}

// WithEnterDelay sets the delay before the slide-in transition starts.
func WithEnterDelay(d time.Duration) Option {
	return func(m *Manager) { m.enterDelay = d }
}

// WithExitDelay sets the delay between starting a dismissal and detaching.
func WithExitDelay(d time.Duration) Option {
	return func(m *Manager) { m.exitDelay = d }
}

// WithLogger sets the manager's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithPolicy sets the markup policy applied to titles and messages.
func WithPolicy(p markup.Policy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithNow overrides the function used to stamp CreatedAt.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// ShowOption customizes a single notification.
type ShowOption func(*Notification)

// WithVariant sets the variant. The default is VariantInfo.
func WithVariant(v Variant) ShowOption {
	return func(n *Notification) { n.Variant = v }
}

// WithIcon sets the icon class used by VariantCustom.
func WithIcon(icon string) ShowOption {
	return func(n *Notification) { n.Icon = icon }
}

// WithTimeout sets the auto-dismiss delay. Zero or negative keeps the
// notification until it is dismissed manually.
func WithTimeout(d time.Duration) ShowOption {
	return func(n *Notification) { n.Timeout = d }
}

// Entry is a live notification together with its element and state.
type Entry struct {
	Notification
	State   State
	Element *dom.Element
}

type entry struct {
	n     Notification
	el    *dom.Element
	state State

	enter clock.Timer
	auto  clock.Timer
}

// Manager appends notifications to a container and runs their timers.
type Manager struct {
	doc            *dom.Document
	container      *dom.Element
	sched          clock.Scheduler
	defaultTimeout time.Duration
	enterDelay     time.Duration
	exitDelay      time.Duration
	policy         markup.Policy
	log            zerolog.Logger
	now            func() time.Time

	next    uint64
	entries []*entry
	byID    map[string]*entry
}

// New creates a Manager that stacks notifications inside container.
func New(doc *dom.Document, container *dom.Element, sched clock.Scheduler, opts ...Option) *Manager {
	m := &Manager{
		doc:            doc,
		container:      container,
		sched:          sched,
		defaultTimeout: DefaultTimeout,
		enterDelay:     DefaultEnterDelay,
		exitDelay:      DefaultExitDelay,
		policy:         markup.Trusted(),
		log:            zerolog.Nop(),
		now:            time.Now,
		byID:           make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Container returns the element notifications are appended to.
func (m *Manager) Container() *dom.Element {
	return m.container
}

// Show appends a notification and returns its id. Ids are never reused.
func (m *Manager) Show(title, message string, opts ...ShowOption) string {
	n := Notification{
		ID:      IDPrefix + strconv.FormatUint(m.next, 10),
		Title:   title,
		Message: message,
		Variant: VariantInfo,
		Timeout: m.defaultTimeout,
	}
	m.next++

	for _, opt := range opts {
		opt(&n)
	}
	if !n.Variant.IsValid() {
		m.log.Debug().Str("variant", string(n.Variant)).Msg("unknown notification variant, using info")
		n.Variant = VariantInfo
	}
	n.CreatedAt = m.now()

	e := &entry{n: n, state: StateEntering}
	e.el = m.build(n)
	m.container.AppendChild(e.el)
	m.entries = append(m.entries, e)
	m.byID[n.ID] = e

	e.enter = m.sched.AfterFunc(m.enterDelay, func() {
		e.enter = nil
		if e.state == StateEntering {
			e.el.RemoveClass(ClassOffscreen)
			e.state = StateShown
		}
	})

	id := n.ID
	if btn := e.el.QueryClass(ClassClose); btn != nil {
		btn.OnClick(func() { m.Dismiss(id) })
	}

	if n.Timeout > 0 {
		e.auto = m.sched.AfterFunc(n.Timeout, func() {
			e.auto = nil
			m.Dismiss(id)
		})
	}

	m.log.Debug().
		Str("id", id).
		Str("variant", string(n.Variant)).
		Dur("timeout", n.Timeout).
		Msg("notification shown")

	return id
}

// Dismiss slides the notification out and detaches it after the exit delay.
// Unknown ids and notifications already leaving are ignored.
func (m *Manager) Dismiss(id string) {
	e, ok := m.byID[id]
	if !ok || e.state == StateLeaving || e.state == StateRemoved {
		m.log.Debug().Str("id", id).Msg("dismiss ignored")
		return
	}

	clock.Stop(e.enter)
	clock.Stop(e.auto)
	e.enter, e.auto = nil, nil

	e.el.AddClass(ClassOffscreen)
	e.state = StateLeaving

	m.sched.AfterFunc(m.exitDelay, func() {
		m.detach(e)
	})

	m.log.Debug().Str("id", id).Msg("notification dismissed")
}

func (m *Manager) detach(e *entry) {
	e.el.Remove()
	m.doc.Release(e.el)
	e.state = StateRemoved
	delete(m.byID, e.n.ID)
	for i, other := range m.entries {
		if other == e {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
}

// Entries returns live notifications in arrival order, including ones that
// are still entering or already leaving.
func (m *Manager) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = Entry{Notification: e.n, State: e.state, Element: e.el}
	}
	return out
}

// Lookup returns the live notification with id.
func (m *Manager) Lookup(id string) (Entry, bool) {
	e, ok := m.byID[id]
	if !ok {
		return Entry{}, false
	}
	return Entry{Notification: e.n, State: e.state, Element: e.el}, true
}

// Newest returns the most recent notification that is not leaving.
func (m *Manager) Newest() (Entry, bool) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.state == StateEntering || e.state == StateShown {
			return Entry{Notification: e.n, State: e.state, Element: e.el}, true
		}
	}
	return Entry{}, false
}

func (m *Manager) build(n Notification) *dom.Element {
	style := n.Style()

	el := m.doc.CreateElement("div")
	el.SetID(n.ID)
	el.SetClassName(style.Background() + " " + style.Border() + " border-l-4 " + style.Text() +
		" p-4 rounded shadow-lg transform transition-all duration-300 " + ClassOffscreen)

	row := m.doc.CreateElement("div")
	row.SetClassName("flex items-start")

	iconWrap := m.doc.CreateElement("div")
	iconWrap.SetClassName("flex-shrink-0 " + style.Text() + " text-lg mr-3")
	icon := m.doc.CreateElement("i")
	icon.SetClassName(style.Icon)
	iconWrap.AppendChild(icon)

	text := m.doc.CreateElement("div")
	text.SetClassName("flex-1")
	title := m.doc.CreateElement("h4")
	title.SetClassName(ClassTitle + " font-semibold")
	title.SetInnerHTML(m.policy.Sanitize(n.Title))
	message := m.doc.CreateElement("p")
	message.SetClassName(ClassMessage + " text-sm mt-1")
	message.SetInnerHTML(m.policy.Sanitize(n.Message))
	text.AppendChild(title)
	text.AppendChild(message)

	closeBtn := m.doc.CreateElement("button")
	closeBtn.SetClassName(ClassClose + " ml-2 text-gray-400 hover:text-gray-500")
	closeBtn.SetInnerHTML(`<i class="fas fa-times"></i>`)

	row.AppendChild(iconWrap)
	row.AppendChild(text)
	row.AppendChild(closeBtn)
	el.AppendChild(row)

	return el
}
