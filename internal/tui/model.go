// Package tui hosts the page in the terminal. The document is rendered with
// lipgloss and fed the click, key and resize events bubbletea reports.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/hay-kot/overlay/internal/core/config"
	"github.com/hay-kot/overlay/internal/core/dom"
	"github.com/hay-kot/overlay/internal/core/modal"
	"github.com/hay-kot/overlay/internal/core/notify"
	"github.com/hay-kot/overlay/internal/core/styles"
	"github.com/hay-kot/overlay/internal/page"
)

// Modal buttons in focus order.
const (
	focusClose = iota
	focusCancel
	focusConfirm
	focusCount
)

// Options configures the TUI.
type Options struct {
	// Timers delivers expired scheduler callbacks, normally clock.Loop.C().
	// Nil when the caller drives the scheduler itself.
	Timers <-chan func()
	// Intro is markdown rendered above the triggers.
	Intro  string
	Logger zerolog.Logger

	// Watcher reports config file changes. Optional.
	Watcher *ConfigWatcher
	// Remount builds and mounts a page for a reloaded config. Without it
	// config changes are ignored.
	Remount func(cfg *config.Config, viewport dom.Size) (*page.Page, error)
}

// timerMsg carries an expired timer callback to the Update loop.
type timerMsg func()

func waitForTimer(ch <-chan func()) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		fn, ok := <-ch
		if !ok {
			return nil
		}
		return timerMsg(fn)
	}
}

// Model is the Bubble Tea model for the page.
type Model struct {
	page    *page.Page
	doc     *dom.Document
	timers  <-chan func()
	watcher *ConfigWatcher
	remount func(*config.Config, dom.Size) (*page.Page, error)
	keys    keyMap
	help    help.Model
	log     zerolog.Logger

	width  int
	height int

	intro      string
	introCache string
	introWidth int

	// modal bookkeeping
	byContent map[*dom.Element]*modal.Modal
	shown     *modal.Modal
	focus     int
	body      viewport.Model

	quitting bool
}

// New creates a Model for a mounted page and installs the terminal layout
// function on its document.
func New(p *page.Page, opts Options) *Model {
	m := &Model{
		timers:  opts.Timers,
		watcher: opts.Watcher,
		remount: opts.Remount,
		keys:    newKeyMap(),
		help:    help.New(),
		log:     opts.Logger,
		body:    viewport.New(0, 0),
	}
	m.body.KeyMap = m.keys.viewportKeys()
	m.setPage(p, opts.Intro)
	return m
}

// setPage makes p the displayed page and drops state tied to the old one.
func (m *Model) setPage(p *page.Page, intro string) {
	m.page = p
	m.doc = p.Document()
	m.intro = intro
	m.introCache = ""
	m.shown = nil
	m.focus = focusCancel

	m.byContent = make(map[*dom.Element]*modal.Modal)
	for _, t := range p.Triggers() {
		if md, ok := p.Modal(t.Key); ok {
			m.byContent[md.Content()] = md
		}
	}

	m.doc.SetLayout(m.layout)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if cmd := waitForTimer(m.timers); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.shown != nil {
			m.loadBody(m.shown)
		}
		m.doc.Resize(dom.Size{
			Width:  float64(msg.Width) * dom.CellWidth,
			Height: float64(msg.Height) * dom.LineHeight,
		})
	case timerMsg:
		msg()
		cmd = waitForTimer(m.timers)
	case configChangeMsg:
		m.reload(msg)
		if m.watcher != nil {
			cmd = m.watcher.Start()
		}
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}

	m.syncModal()
	return m, cmd
}

// reload swaps in a page built from a changed config. Failures keep the
// current page and surface as an error notification on it.
func (m *Model) reload(msg configChangeMsg) {
	if m.remount == nil {
		return
	}

	err := msg.err
	var p *page.Page
	if err == nil {
		p, err = m.remount(msg.cfg, m.doc.Viewport())
	}
	if err != nil {
		m.log.Warn().Err(err).Msg("config reload failed")
		m.page.Notifications().Show("Config not reloaded", err.Error(), notify.WithVariant(notify.VariantError))
		return
	}

	palette, _ := styles.GetPalette(msg.cfg.TUI.Theme)
	styles.SetTheme(palette)

	m.setPage(p, msg.cfg.Page.Intro)
	m.log.Info().Int("triggers", len(p.Triggers())).Msg("config reloaded")
	p.Notifications().Show("Config reloaded",
		fmt.Sprintf("%d triggers", len(p.Triggers())),
		notify.WithVariant(notify.VariantSuccess))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return tea.Quit
	}

	// Escape goes to the document; the modal manager decides what it means.
	if key.Matches(msg, m.keys.Escape) {
		m.doc.DispatchKey(dom.KeyEscape)
		return nil
	}

	if md := m.openModal(); md != nil {
		return m.handleModalKey(md, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Dismiss):
		if e, ok := m.page.Notifications().Newest(); ok {
			m.page.Notifications().Dismiss(e.ID)
		}
	case key.Matches(msg, m.keys.Backdrop):
		m.page.Modals().Backdrop().Click()
	default:
		if t, ok := m.page.Hotkey(msg.String()); ok {
			if err := m.page.Click(t.Key); err != nil {
				m.log.Error().Err(err).Str("trigger", t.Key).Msg("click trigger")
			}
		}
	}
	return nil
}

func (m *Model) handleModalKey(md *modal.Modal, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Backdrop):
		m.page.Modals().Backdrop().Click()
	case key.Matches(msg, m.keys.Next):
		m.focus = (m.focus + 1) % focusCount
	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus + focusCount - 1) % focusCount
	case key.Matches(msg, m.keys.Press):
		m.button(md, m.focus).Click()
	default:
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	f := m.frame()
	x, y := msg.X, msg.Y

	for _, t := range f.toasts {
		if t.box.contains(x, y) {
			if btn := t.entry.Element.QueryClass(notify.ClassClose); btn != nil {
				btn.Click()
			}
			return
		}
	}

	if f.modal != nil {
		pm := f.modal
		if !pm.box.contains(x, y) {
			m.page.Modals().Backdrop().Click()
			return
		}
		for i, hit := range pm.buttons {
			if hit.contains(x, y) {
				m.focus = i
				m.button(pm.md, i).Click()
				return
			}
		}
		return
	}

	if trigger, ok := f.triggerRows[y]; ok {
		if err := m.page.Click(trigger); err != nil {
			m.log.Error().Err(err).Str("trigger", trigger).Msg("click trigger")
		}
	}
}

func (m *Model) button(md *modal.Modal, focus int) *dom.Element {
	switch focus {
	case focusClose:
		return md.CloseButton()
	case focusConfirm:
		return md.ConfirmButton()
	default:
		return md.CancelButton()
	}
}

// openModal returns the active modal while it is opening or visible.
func (m *Model) openModal() *modal.Modal {
	md := m.page.Modals().Active()
	if md == nil {
		return nil
	}
	if s := md.State(); s != modal.StateOpening && s != modal.StateVisible {
		return nil
	}
	return md
}

// syncModal resets focus and reloads the body viewport whenever a different
// modal becomes active.
func (m *Model) syncModal() {
	md := m.openModal()
	if md == m.shown {
		return
	}
	m.shown = md
	m.focus = focusCancel
	if md != nil {
		m.loadBody(md)
	}
}
