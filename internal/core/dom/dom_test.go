package dom

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDoc() *Document {
	return NewDocument(Size{Width: 1280, Height: 800})
}

func TestElement_ClassList(t *testing.T) {
	d := newTestDoc()
	el := d.CreateElement("div")
	el.SetClassName("fixed  z-50 hidden")

	assert.Equal(t, []string{"fixed", "z-50", "hidden"}, el.Classes())
	assert.True(t, el.Hidden())

	el.AddClass("opacity-100", "fixed")
	assert.Equal(t, "fixed z-50 hidden opacity-100", el.ClassName())

	el.Show()
	el.RemoveClass("z-50", "missing")
	assert.Equal(t, "fixed opacity-100", el.ClassName())
	assert.False(t, el.Hidden())
}

func TestElement_Style(t *testing.T) {
	d := newTestDoc()
	el := d.CreateElement("div")

	el.SetStyle("left", "50%")
	el.SetStyle("transform", "translateX(-50%)")
	el.SetStyle("left", "10px")

	assert.Equal(t, "10px", el.Style("left"))
	assert.Equal(t, "translateX(-50%)", el.Style("transform"))
	assert.Empty(t, el.Style("top"))

	v, ok := el.Attr("style")
	require.True(t, ok)
	assert.Equal(t, "left: 10px; transform: translateX(-50%)", v)
}

func TestElement_SetInnerHTML_keeps_markup(t *testing.T) {
	d := newTestDoc()
	el := d.CreateElement("div")

	el.SetInnerHTML(`Hello <b class="x">world</b><script>alert(1)</script>`)

	assert.Equal(t, "Hello worldalert(1)", el.TextContent())
	inner, err := el.InnerHTML()
	require.NoError(t, err)
	assert.Equal(t, `Hello <b class="x">world</b><script>alert(1)</script>`, inner)
	assert.NotNil(t, el.QueryClass("x"))
}

func TestElement_tree_operations(t *testing.T) {
	d := newTestDoc()
	parent := d.CreateElement("div")
	parent.SetID("parent")
	child := d.CreateElement("span")
	child.SetClassName("target")

	parent.AppendChild(child)
	assert.False(t, child.Connected())

	d.Body().AppendChild(parent)
	assert.True(t, child.Connected())

	got, ok := d.GetElementByID("parent")
	require.True(t, ok)
	assert.Same(t, parent, got)
	assert.Same(t, child, parent.FirstElementChild())
	assert.Same(t, child, parent.QueryClass("target"))
	assert.Same(t, parent, child.Parent())

	parent.Remove()
	assert.False(t, child.Connected())
	_, ok = d.GetElementByID("parent")
	assert.False(t, ok)

	assert.NotPanics(t, parent.Remove)
}

func TestDocument_Lookup_missing(t *testing.T) {
	d := newTestDoc()

	_, err := d.Lookup("modalBackdrop")

	var missing *MissingElementError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "modalBackdrop", missing.Key)
	assert.Contains(t, err.Error(), `"modalBackdrop"`)
}

func TestDocument_listeners(t *testing.T) {
	d := newTestDoc()
	var keys []string

	id := d.AddEventListener(EventKeyDown, func(ev Event) { keys = append(keys, ev.Key) })
	assert.Equal(t, 1, d.ListenerCount(EventKeyDown))

	d.DispatchKey(KeyEscape)
	assert.True(t, d.RemoveEventListener(EventKeyDown, id))
	assert.False(t, d.RemoveEventListener(EventKeyDown, id))
	d.DispatchKey(KeyEscape)

	assert.Equal(t, []string{KeyEscape}, keys)
}

func TestDocument_listener_removed_during_dispatch(t *testing.T) {
	d := newTestDoc()
	calls := 0

	var id ListenerID
	id = d.AddEventListener(EventKeyDown, func(Event) {
		calls++
		d.RemoveEventListener(EventKeyDown, id)
	})
	d.AddEventListener(EventKeyDown, func(Event) { calls++ })

	d.DispatchKey("a")
	d.DispatchKey("a")

	assert.Equal(t, 3, calls)
}

func TestDocument_Resize(t *testing.T) {
	d := newTestDoc()
	resized := 0
	d.AddEventListener(EventResize, func(Event) { resized++ })

	d.Resize(Size{Width: 640, Height: 480})

	assert.Equal(t, 1, resized)
	assert.Equal(t, Size{Width: 640, Height: 480}, d.Viewport())
}

func TestElement_Click(t *testing.T) {
	d := newTestDoc()
	btn := d.CreateElement("button")
	clicks := 0
	btn.OnClick(func() { clicks++ })

	btn.Click()
	btn.Click()

	assert.Equal(t, 2, clicks)
}

func TestElement_Measure_uses_layout(t *testing.T) {
	d := newTestDoc()
	el := d.CreateElement("div")
	d.SetLayout(func(_ *Element, vp Size) Rect {
		return Rect{Width: vp.Width / 2, Height: 100}
	})

	assert.Equal(t, Rect{Width: 640, Height: 100}, el.Measure())

	el.Reflow()
	assert.Equal(t, 1, d.Reflows())

	d.SetLayout(nil)
	el.SetClassName("max-w-md")
	assert.Equal(t, 448.0, el.Measure().Width)
}

func TestEstimateLayout_grows_with_text(t *testing.T) {
	d := newTestDoc()
	short := d.CreateElement("div")
	short.SetClassName("max-w-md")
	short.SetText("short")

	long := d.CreateElement("div")
	long.SetClassName("max-w-md")
	long.SetText(strings.Repeat("word ", 200))

	assert.Less(t, EstimateLayout(short, d.Viewport()).Height, EstimateLayout(long, d.Viewport()).Height)
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(14, 14))
	assert.False(t, r.Contains(15, 10))
	assert.False(t, r.Contains(9, 12))
}

func TestDocument_HTML(t *testing.T) {
	d := newTestDoc()
	el := d.CreateElement("div")
	el.SetID("x")
	d.Body().AppendChild(el)

	out, err := d.HTML()
	require.NoError(t, err)
	assert.Equal(t, `<body><div id="x"></div></body>`, out)
}

func TestMaxWidth(t *testing.T) {
	doc := NewDocument(Size{Width: 1280, Height: 800})
	el := doc.CreateElement("div")

	assert.InDelta(t, 1280.0, MaxWidth(el, 1280), 0)

	el.SetClassName("w-full max-w-2xl overflow-y-auto")
	assert.InDelta(t, 672.0, MaxWidth(el, 1280), 0)
	assert.InDelta(t, 400.0, MaxWidth(el, 400), 0, "limit wins when narrower")
}

func TestDocument_Release(t *testing.T) {
	d := newTestDoc()
	container := d.CreateElement("div")
	d.Body().AppendChild(container)
	baseline := d.ElementCount()

	for i := 0; i < 100; i++ {
		el := d.CreateElement("div")
		btn := d.CreateElement("button")
		btn.SetClassName("close")
		el.AppendChild(btn)
		container.AppendChild(el)

		require.NotNil(t, el.QueryClass("close"))
		el.Remove()
		d.Release(el)
	}

	assert.Equal(t, baseline, d.ElementCount())
	assert.Empty(t, container.Children())
}

func TestDocument_Release_keeps_body(t *testing.T) {
	d := newTestDoc()
	before := d.ElementCount()

	d.Release(d.Body())
	d.Release(nil)

	assert.Equal(t, before, d.ElementCount())
}
