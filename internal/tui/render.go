package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/overlay/internal/core/dom"
	"github.com/hay-kot/overlay/internal/core/modal"
	"github.com/hay-kot/overlay/internal/core/notify"
	"github.com/hay-kot/overlay/internal/core/styles"
	"github.com/hay-kot/overlay/internal/page"
)

const (
	minModalCols = 24
	toastCols    = 40
	toastTop     = 1 // top-4
	toastRight   = 2 // right-4
	toastGap     = 1 // space-y-3
)

// rect is a cell rectangle in screen coordinates.
type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (r rect) offset(dx, dy int) rect {
	return rect{x: r.x + dx, y: r.y + dy, w: r.w, h: r.h}
}

type placedModal struct {
	md      *modal.Modal
	view    string
	box     rect
	buttons [focusCount]rect
}

type placedToast struct {
	entry notify.Entry
	view  string
	box   rect
}

// frame is one laid out screen. View draws it and the mouse handler hit
// tests against it.
type frame struct {
	base        []string
	triggerRows map[int]string
	modal       *placedModal
	toasts      []placedToast
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	f := m.frame()
	lines := f.base

	if pm := f.modal; pm != nil {
		overlayAt(lines, strings.Split(pm.view, "\n"), m.width, pm.box.x, pm.box.y, pm.box.w)
	}
	for _, t := range f.toasts {
		overlayAt(lines, strings.Split(t.view, "\n"), m.width, t.box.x, t.box.y, t.box.w)
	}

	return strings.Join(lines, "\n")
}

func (m *Model) frame() frame {
	f := frame{triggerRows: make(map[int]string)}
	f.base = m.renderBase(f.triggerRows)

	backdrop := m.page.Modals().Backdrop()
	if !backdrop.Hidden() && backdrop.HasClass(modal.ClassOpaque) {
		for i, line := range f.base {
			f.base[i] = styles.DimmedStyle.Render(ansi.Strip(line))
		}
	}

	if md := m.openModal(); md != nil {
		view, buttons := m.renderModal(md)
		w, h := lipgloss.Width(view), lipgloss.Height(view)
		x, y := m.placement(md, w, h)

		pm := &placedModal{md: md, view: view, box: rect{x: x, y: y, w: w, h: h}}
		for i, b := range buttons {
			pm.buttons[i] = b.offset(x, y)
		}
		f.modal = pm
	}

	y := toastTop
	for _, e := range m.page.Notifications().Entries() {
		if e.Element.HasClass(notify.ClassOffscreen) {
			continue
		}
		view := renderToast(e, min(toastCols, max(m.width-toastRight, 1)))
		w, h := lipgloss.Width(view), lipgloss.Height(view)
		f.toasts = append(f.toasts, placedToast{
			entry: e,
			view:  view,
			box:   rect{x: max(m.width-w-toastRight, 0), y: y, w: w, h: h},
		})
		y += h + toastGap
	}

	return f
}

// renderBase draws the page behind the overlays: intro, triggers and help,
// padded to the screen height.
func (m *Model) renderBase(rows map[int]string) []string {
	var lines []string

	if intro := m.renderIntro(); intro != "" {
		lines = append(lines, strings.Split(intro, "\n")...)
	}

	section := func(heading string, kind page.Kind) {
		first := true
		for _, t := range m.page.Triggers() {
			if t.Kind != kind {
				continue
			}
			if first {
				lines = append(lines, strings.Split(styles.TriggerSectionStyle.Render(heading), "\n")...)
				first = false
			}
			rows[len(lines)] = t.Key
			lines = append(lines, renderTrigger(t))
		}
	}
	section("Modals", page.KindModal)
	section("Notifications", page.KindNotification)

	var helpView string
	if m.openModal() != nil {
		helpView = m.help.View(modalKeys{m.keys})
	} else {
		helpView = m.help.View(m.keys)
	}
	helpLines := strings.Split(styles.HelpStyle.Render(helpView), "\n")

	if m.height <= 0 {
		return append(lines, helpLines...)
	}

	bodyRows := max(m.height-len(helpLines), 0)
	if len(lines) > bodyRows {
		for row := range rows {
			if row >= bodyRows {
				delete(rows, row)
			}
		}
		lines = lines[:bodyRows]
	}
	for len(lines) < bodyRows {
		lines = append(lines, "")
	}
	lines = append(lines, helpLines...)
	if len(lines) > m.height {
		lines = lines[len(lines)-m.height:]
	}
	return lines
}

func renderTrigger(t page.Trigger) string {
	hotkey := " "
	if t.Hotkey != "" {
		hotkey = t.Hotkey
	}
	return "  " + styles.TriggerKeyStyle.Render("["+hotkey+"]") + " " +
		styles.TriggerStyle.Render(t.Label) + " " +
		styles.HelpStyle.Render(t.Variant)
}

func (m *Model) renderIntro() string {
	if m.intro == "" {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	if m.introCache != "" && m.introWidth == width {
		return m.introCache
	}

	out := m.intro
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		out, err = r.Render(m.intro)
	}
	if err != nil {
		m.log.Warn().Err(err).Msg("render intro")
		out = m.intro
	}

	m.introCache = strings.Trim(out, "\n")
	m.introWidth = width
	return m.introCache
}

// modalCols is the outer width of md's box: the variant's max width,
// limited by the terminal.
func (m *Model) modalCols(md *modal.Modal) int {
	cols := int(dom.MaxWidth(md.Content(), m.doc.Viewport().Width) / dom.CellWidth)
	if m.width > 0 {
		cols = min(cols, m.width-4)
	}
	return max(cols, minModalCols)
}

// renderModal draws md's dialog box and returns the button hit boxes
// relative to the box origin.
func (m *Model) renderModal(md *modal.Modal) (string, [focusCount]rect) {
	var hits [focusCount]rect

	cols := m.modalCols(md)
	inner := cols - 4 // border and padding

	closeBtn := m.styleFor(md, focusClose, styles.ModalCloseStyle, styles.ModalCloseStyle.Reverse(true)).
		Render(styles.IconClose)
	closeW := lipgloss.Width(closeBtn)
	titleW := max(inner-closeW-1, 1)
	title := ansi.Truncate(textOf(md.Content(), modal.ClassTitle), titleW, "…")
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.ModalTitleStyle.Width(titleW).Render(title), " ", closeBtn)

	body := styles.ModalBodyStyle.Render(m.bodyView(md, inner))

	cancel := m.styleFor(md, focusCancel, styles.ModalButtonStyle, styles.ModalButtonSelectedStyle).
		Render("Cancel")
	confirm := m.styleFor(md, focusConfirm, styles.ModalConfirmStyle, styles.ModalConfirmStyle.Underline(true)).
		Render("Confirm")
	footer := lipgloss.PlaceHorizontal(inner, lipgloss.Right, cancel+" "+confirm)

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	view := styles.ModalStyle.Width(cols - 2).Render(content)

	// Content starts inside the border and left padding.
	const ox, oy = 2, 1
	footerY := oy + lipgloss.Height(header) + lipgloss.Height(body)
	confirmW, cancelW := lipgloss.Width(confirm), lipgloss.Width(cancel)

	hits[focusClose] = rect{x: ox + inner - closeW, y: oy, w: closeW, h: 1}
	hits[focusConfirm] = rect{x: ox + inner - confirmW, y: footerY, w: confirmW, h: 1}
	hits[focusCancel] = rect{x: ox + inner - confirmW - 1 - cancelW, y: footerY, w: cancelW, h: 1}

	return view, hits
}

func (m *Model) styleFor(md *modal.Modal, focus int, normal, focused lipgloss.Style) lipgloss.Style {
	if md == m.shown && m.focus == focus {
		return focused
	}
	return normal
}

// bodyView renders the modal body. Scrollable modals show a window of the
// body through the viewport.
func (m *Model) bodyView(md *modal.Modal, width int) string {
	text := lipgloss.NewStyle().Width(width).Render(textOf(md.Content(), modal.ClassBody))
	if md.Variant() != modal.VariantScrollable {
		return text
	}

	vp := m.body
	if md != m.shown {
		vp = viewport.New(width, m.bodyHeight(text))
		vp.SetContent(text)
	}

	indicator := styles.HelpStyle.Render(fmt.Sprintf("%3.f%%", vp.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Right, vp.View(), indicator)
}

func (m *Model) bodyHeight(text string) int {
	limit := 8
	if m.height > 0 {
		limit = max(m.height/2, 3)
	}
	return min(lipgloss.Height(text), limit)
}

// loadBody sizes the body viewport for md and resets its scroll position.
func (m *Model) loadBody(md *modal.Modal) {
	inner := m.modalCols(md) - 4
	text := lipgloss.NewStyle().Width(inner).Render(textOf(md.Content(), modal.ClassBody))

	m.body.Width = inner
	m.body.Height = m.bodyHeight(text)
	m.body.SetContent(text)
	m.body.GotoTop()
}

// placement converts md's inline position styles to a cell offset.
func (m *Model) placement(md *modal.Modal, w, h int) (int, int) {
	root := md.Element()

	// left: 50% with a -50% horizontal translate in every variant.
	x := max((m.width-w)/2, 0)

	var y int
	top := root.Style("top")
	switch {
	case strings.HasSuffix(top, "%"):
		pct, _ := strconv.ParseFloat(strings.TrimSuffix(top, "%"), 64)
		y = int(float64(m.height) * pct / 100)
		if strings.Contains(root.Style("transform"), ", -50%") {
			y -= h / 2
		}
	case strings.HasSuffix(top, "px"):
		px, _ := strconv.ParseFloat(strings.TrimSuffix(top, "px"), 64)
		y = int(math.Round(px / dom.LineHeight))
	}

	return x, max(y, 0)
}

// layout is the document LayoutFunc: modal boxes are measured by rendering
// them, everything else falls back to the estimate.
func (m *Model) layout(el *dom.Element, viewport dom.Size) dom.Rect {
	md, ok := m.byContent[el]
	if !ok {
		return dom.EstimateLayout(el, viewport)
	}

	view, _ := m.renderModal(md)
	return dom.Rect{
		Width:  float64(lipgloss.Width(view)) * dom.CellWidth,
		Height: float64(lipgloss.Height(view)) * dom.LineHeight,
	}
}

func renderToast(e notify.Entry, cols int) string {
	st := e.Style()
	box := styles.ToastStyle(st.Family)
	inner := max(cols-box.GetHorizontalFrameSize(), 1)

	head := styles.Glyph(st.Icon) + " " +
		styles.ToastTitleStyle.Render(textOf(e.Element, notify.ClassTitle))
	head = ansi.Truncate(head, max(inner-2, 1), "…")
	head = lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(max(inner-1, 1)).Render(head), styles.IconClose)

	msg := styles.ToastMessageStyle.Width(inner).Render(textOf(e.Element, notify.ClassMessage))

	return box.Width(cols - box.GetBorderLeftSize()).Render(lipgloss.JoinVertical(lipgloss.Left, head, msg))
}

// textOf returns the whitespace-collapsed text of el's first descendant with
// class.
func textOf(el *dom.Element, class string) string {
	target := el.QueryClass(class)
	if target == nil {
		return ""
	}
	return strings.Join(strings.Fields(target.TextContent()), " ")
}

// overlayAt draws fgLines over bgLines at x, y, clipping to width w.
func overlayAt(bgLines []string, fgLines []string, w, x, y, fgW int) {
	if fgW <= 0 {
		return
	}
	x, y = max(x, 0), max(y, 0)

	for i := 0; i < len(fgLines) && y+i < len(bgLines); i++ {
		bgLine := bgLines[y+i]
		left := ansi.Cut(bgLine, 0, x)
		if n := ansi.StringWidth(left); n < x {
			left += strings.Repeat(" ", x-n)
		}
		right := ""
		if w > x+fgW {
			right = ansi.Cut(bgLine, x+fgW, w)
		}

		fgLine := fgLines[i]
		if n := ansi.StringWidth(fgLine); n < fgW {
			fgLine += strings.Repeat(" ", fgW-n)
		} else if n > fgW {
			fgLine = ansi.Cut(fgLine, 0, fgW)
		}

		bgLines[y+i] = left + fgLine + right
	}
}
