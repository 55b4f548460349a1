// Package page builds the demo page skeleton and mounts the modal and
// notification managers on it.
package page

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/overlay/internal/core/clock"
	"github.com/hay-kot/overlay/internal/core/config"
	"github.com/hay-kot/overlay/internal/core/dom"
	"github.com/hay-kot/overlay/internal/core/logging"
	"github.com/hay-kot/overlay/internal/core/markup"
	"github.com/hay-kot/overlay/internal/core/modal"
	"github.com/hay-kot/overlay/internal/core/notify"
)

// Class names of the page skeleton.
const (
	ClassBackdrop  = "fixed inset-0 bg-black bg-opacity-50 hidden opacity-0 transition-opacity"
	ClassContainer = "fixed top-4 right-4 z-50 space-y-3"
	ClassTrigger   = "trigger-btn"
	ClassSection   = "trigger-section"

	// AttrHotkey carries a trigger's TUI hotkey.
	AttrHotkey = "data-key"
)

// Kind tells what a trigger does when clicked.
type Kind int

const (
	KindModal Kind = iota
	KindNotification
)

func (k Kind) String() string {
	if k == KindModal {
		return "modal"
	}
	return "notification"
}

// Trigger is a mounted trigger button.
type Trigger struct {
	Key     string // element id
	Hotkey  string
	Label   string
	Kind    Kind
	Variant string
	Element *dom.Element
}

// Page is a mounted page: both managers plus the triggers bound to them.
type Page struct {
	doc           *dom.Document
	modals        *modal.Manager
	notifications *notify.Manager
	triggers      []Trigger
	byKey         map[string]int
	byTrigger     map[string]*modal.Modal
	log           zerolog.Logger
}

// Build creates the page skeleton for cfg: one trigger button per configured
// modal and notification, the modal backdrop and the notification container.
func Build(cfg *config.Config, viewport dom.Size) *dom.Document {
	doc := dom.NewDocument(viewport)
	body := doc.Body()

	wrap := doc.CreateElement("div")
	wrap.SetClassName("container mx-auto px-4 py-8")
	body.AppendChild(wrap)

	if len(cfg.Modals) > 0 {
		section := newSection(doc, "Modals")
		for _, m := range cfg.Modals {
			section.AppendChild(newTrigger(doc, m.Trigger, m.Key, m.Title))
		}
		wrap.AppendChild(section)
	}

	if len(cfg.Notifications) > 0 {
		section := newSection(doc, "Notifications")
		for _, n := range cfg.Notifications {
			section.AppendChild(newTrigger(doc, n.Trigger, n.Key, n.Title))
		}
		wrap.AppendChild(section)
	}

	backdrop := doc.CreateElement("div")
	backdrop.SetID(cfg.Page.Backdrop)
	backdrop.SetClassName(ClassBackdrop)
	body.AppendChild(backdrop)

	container := doc.CreateElement("div")
	container.SetID(cfg.Page.Container)
	container.SetClassName(ClassContainer)
	body.AppendChild(container)

	return doc
}

func newSection(doc *dom.Document, heading string) *dom.Element {
	section := doc.CreateElement("section")
	section.SetClassName(ClassSection + " mb-8")
	h := doc.CreateElement("h2")
	h.SetClassName("text-xl font-semibold mb-4")
	h.SetText(heading)
	section.AppendChild(h)
	return section
}

func newTrigger(doc *dom.Document, id, hotkey, label string) *dom.Element {
	btn := doc.CreateElement("button")
	btn.SetID(id)
	btn.SetClassName(ClassTrigger + " px-4 py-2 rounded")
	if hotkey != "" {
		btn.SetAttr(AttrHotkey, hotkey)
	}
	btn.SetText(label)
	return btn
}

// Mount looks up the page elements named by cfg, creates both managers and
// binds every trigger. A missing element fails with *dom.MissingElementError
// before anything is bound.
func Mount(doc *dom.Document, cfg *config.Config, sched clock.Scheduler, logger zerolog.Logger) (*Page, error) {
	backdrop, err := doc.Lookup(cfg.Page.Backdrop)
	if err != nil {
		return nil, fmt.Errorf("mount page: %w", err)
	}
	container, err := doc.Lookup(cfg.Page.Container)
	if err != nil {
		return nil, fmt.Errorf("mount page: %w", err)
	}

	modalEls := make([]*dom.Element, len(cfg.Modals))
	for i, m := range cfg.Modals {
		if modalEls[i], err = doc.Lookup(m.Trigger); err != nil {
			return nil, fmt.Errorf("mount page: %w", err)
		}
	}
	notifEls := make([]*dom.Element, len(cfg.Notifications))
	for i, n := range cfg.Notifications {
		if notifEls[i], err = doc.Lookup(n.Trigger); err != nil {
			return nil, fmt.Errorf("mount page: %w", err)
		}
	}

	policy := markup.ForConfig(cfg.Content.Sanitize)

	p := &Page{
		doc: doc,
		modals: modal.New(doc, backdrop, sched,
			modal.WithTransition(cfg.Timing.ModalTransition),
			modal.WithLogger(logging.ComponentOf(logger, "modal")),
			modal.WithPolicy(policy),
		),
		notifications: notify.New(doc, container, sched,
			notify.WithDefaultTimeout(cfg.Timing.NotificationTimeout),
			notify.WithEnterDelay(cfg.Timing.NotificationEnter),
			notify.WithExitDelay(cfg.Timing.NotificationExit),
			notify.WithLogger(logging.ComponentOf(logger, "notify")),
			notify.WithPolicy(policy),
		),
		byKey:     make(map[string]int),
		byTrigger: make(map[string]*modal.Modal),
		log:       logging.ComponentOf(logger, "page"),
	}

	for i, m := range cfg.Modals {
		md := p.modals.Build(m.Title, m.Body, modal.Variant(m.Variant))
		p.byTrigger[m.Trigger] = md
		modalEls[i].OnClick(func() { p.modals.Open(md) })

		p.add(Trigger{
			Key:     m.Trigger,
			Hotkey:  m.Key,
			Label:   m.Title,
			Kind:    KindModal,
			Variant: string(md.Variant()),
			Element: modalEls[i],
		})
	}

	for i, n := range cfg.Notifications {
		opts := []notify.ShowOption{
			notify.WithVariant(notify.ParseVariant(n.Variant)),
			notify.WithIcon(n.Icon),
			notify.WithTimeout(n.TimeoutOr(cfg.Timing.NotificationTimeout)),
		}
		title, message := n.Title, n.Message
		key := n.Trigger
		notifEls[i].OnClick(func() {
			id := p.notifications.Show(title, message, opts...)
			ctx := logging.WithNotificationID(logging.WithTrigger(context.Background(), key), id)
			p.log.Debug().Ctx(ctx).Msg("notification triggered")
		})

		p.add(Trigger{
			Key:     n.Trigger,
			Hotkey:  n.Key,
			Label:   n.Title,
			Kind:    KindNotification,
			Variant: string(notify.ParseVariant(n.Variant)),
			Element: notifEls[i],
		})
	}

	p.log.Debug().
		Int("modals", len(cfg.Modals)).
		Int("notifications", len(cfg.Notifications)).
		Msg("page mounted")

	return p, nil
}

func (p *Page) add(t Trigger) {
	p.byKey[t.Key] = len(p.triggers)
	p.triggers = append(p.triggers, t)
}

// Document returns the mounted document.
func (p *Page) Document() *dom.Document { return p.doc }

// Modals returns the modal manager.
func (p *Page) Modals() *modal.Manager { return p.modals }

// Notifications returns the notification manager.
func (p *Page) Notifications() *notify.Manager { return p.notifications }

// Triggers lists triggers in configuration order, modals first.
func (p *Page) Triggers() []Trigger {
	out := make([]Trigger, len(p.triggers))
	copy(out, p.triggers)
	return out
}

// Modal returns the modal opened by the trigger with key.
func (p *Page) Modal(key string) (*modal.Modal, bool) {
	md, ok := p.byTrigger[key]
	return md, ok
}

// Hotkey returns the trigger bound to hotkey.
func (p *Page) Hotkey(hotkey string) (Trigger, bool) {
	if hotkey == "" {
		return Trigger{}, false
	}
	for _, t := range p.triggers {
		if t.Hotkey == hotkey {
			return t, true
		}
	}
	return Trigger{}, false
}

// Click dispatches a click on the trigger with key.
func (p *Page) Click(key string) error {
	i, ok := p.byKey[key]
	if !ok {
		return &dom.MissingElementError{Key: key}
	}

	ctx := logging.WithTrigger(context.Background(), key)
	p.log.Debug().Ctx(ctx).Msg("trigger clicked")

	p.triggers[i].Element.Click()
	return nil
}
