package modal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/overlay/internal/core/clock"
	"github.com/hay-kot/overlay/internal/core/dom"
	"github.com/hay-kot/overlay/internal/core/markup"
)

type fixture struct {
	doc      *dom.Document
	backdrop *dom.Element
	clock    *clock.Fake
	mgr      *Manager
	height   float64
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		doc:    dom.NewDocument(dom.Size{Width: 1280, Height: 800}),
		clock:  clock.NewFake(),
		height: 200,
	}
	f.doc.SetLayout(func(_ *dom.Element, _ dom.Size) dom.Rect {
		return dom.Rect{Width: 448, Height: f.height}
	})

	f.backdrop = f.doc.CreateElement("div")
	f.backdrop.SetID("modalBackdrop")
	f.backdrop.SetClassName("fixed inset-0 hidden opacity-0")
	f.doc.Body().AppendChild(f.backdrop)

	f.mgr = New(f.doc, f.backdrop, f.clock, opts...)
	return f
}

// allVariantClasses is the union of every variant's class group.
func allVariantClasses() map[string]bool {
	out := map[string]bool{}
	for _, v := range Variants() {
		for _, c := range v.Classes() {
			out[c] = true
		}
	}
	return out
}

func variantClassesOf(el *dom.Element) []string {
	all := allVariantClasses()
	var got []string
	for _, c := range el.Classes() {
		if all[c] {
			got = append(got, c)
		}
	}
	return got
}

func TestBuild_structure(t *testing.T) {
	f := newFixture(t)

	md := f.mgr.Build("Default Modal", "Some <em>content</em>", VariantDefault)

	root := md.Element()
	assert.True(t, root.Connected())
	assert.Same(t, f.doc.Body(), root.Parent())
	assert.True(t, root.Hidden())
	assert.True(t, root.HasClass("opacity-0"))
	assert.Equal(t, StateHidden, md.State())

	assert.Same(t, md.Content(), root.FirstElementChild())
	assert.Equal(t, "Default Modal", root.QueryClass(ClassTitle).TextContent())
	assert.Equal(t, "Some content", root.QueryClass(ClassBody).TextContent())
	assert.NotNil(t, md.CloseButton())
	assert.Equal(t, "Cancel", md.CancelButton().TextContent())
	assert.Equal(t, "Confirm", md.ConfirmButton().TextContent())
}

func TestBuild_variant_classes(t *testing.T) {
	tests := []struct {
		variant Variant
		want    []string
	}{
		{VariantDefault, []string{"w-full", "max-w-md"}},
		{VariantLarge, []string{"w-full", "max-w-4xl"}},
		{VariantScrollable, []string{"w-full", "max-w-2xl", "overflow-y-auto"}},
		{VariantCentered, []string{"w-full", "max-w-md", "top-1/2", "-translate-y-1/2"}},
		{Variant("giant"), []string{"w-full", "max-w-md"}},
		{Variant(""), []string{"w-full", "max-w-md"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			f := newFixture(t)
			md := f.mgr.Build("T", "B", tt.variant)
			assert.Equal(t, tt.want, variantClassesOf(md.Content()))
		})
	}
}

func TestParseVariant(t *testing.T) {
	assert.Equal(t, VariantLarge, ParseVariant("large"))
	assert.Equal(t, VariantDefault, ParseVariant("LARGE"))
	assert.Equal(t, VariantDefault, ParseVariant("nope"))
}

func TestBuild_content_is_not_sanitized_by_default(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", `<img src="x" onerror="alert(1)">`, VariantDefault)

	html, err := md.Content().QueryClass(ClassBody).InnerHTML()
	require.NoError(t, err)
	assert.Contains(t, html, "onerror")
}

func TestBuild_strict_policy_sanitizes(t *testing.T) {
	f := newFixture(t, WithPolicy(markup.Strict()))
	md := f.mgr.Build("T", `<img src="x" onerror="alert(1)">`, VariantDefault)

	html, err := md.Content().QueryClass(ClassBody).InnerHTML()
	require.NoError(t, err)
	assert.NotContains(t, html, "onerror")
}

func TestOpen_shows_modal_and_backdrop(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantDefault)

	f.mgr.Open(md)

	assert.Same(t, md, f.mgr.Active())
	assert.False(t, md.Element().Hidden())
	assert.False(t, f.backdrop.Hidden())
	assert.True(t, md.Element().HasClass(ClassOpaque))
	assert.True(t, md.Element().HasClass(ClassScaled))
	assert.True(t, f.backdrop.HasClass(ClassOpaque))
	assert.Equal(t, 1, f.doc.Reflows(), "open forces one layout flush")
	assert.Equal(t, 1, f.doc.ListenerCount(dom.EventKeyDown))
	assert.Equal(t, StateOpening, md.State())

	f.clock.Advance(DefaultTransition)
	assert.Equal(t, StateVisible, md.State())
}

func TestClose_applies_hidden_state_after_transition(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantDefault)
	f.mgr.Open(md)
	f.clock.Advance(DefaultTransition)

	f.mgr.Close(md)

	assert.Equal(t, StateClosing, md.State())
	assert.False(t, md.Element().HasClass(ClassOpaque))
	assert.False(t, f.backdrop.HasClass(ClassOpaque))
	assert.False(t, md.Element().Hidden(), "hidden is applied after the transition")
	assert.Equal(t, 0, f.doc.ListenerCount(dom.EventKeyDown), "escape is unbound immediately")
	assert.Same(t, md, f.mgr.Active())

	f.clock.Advance(DefaultTransition - time.Millisecond)
	assert.False(t, md.Element().Hidden())

	f.clock.Advance(time.Millisecond)
	assert.True(t, md.Element().Hidden())
	assert.True(t, f.backdrop.Hidden())
	assert.Nil(t, f.mgr.Active())
	assert.Equal(t, StateHidden, md.State())
}

func TestClose_triggers_all_close(t *testing.T) {
	triggers := map[string]func(f *fixture, md *Modal){
		"close button":  func(_ *fixture, md *Modal) { md.CloseButton().Click() },
		"cancel button": func(_ *fixture, md *Modal) { md.CancelButton().Click() },
		"backdrop":      func(f *fixture, _ *Modal) { f.backdrop.Click() },
		"escape":        func(f *fixture, _ *Modal) { f.doc.DispatchKey(dom.KeyEscape) },
	}

	for name, trigger := range triggers {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			md := f.mgr.Build("T", "B", VariantDefault)
			f.mgr.Open(md)

			trigger(f, md)
			f.clock.Advance(DefaultTransition)

			assert.Equal(t, StateHidden, md.State())
			assert.Nil(t, f.mgr.Active())
		})
	}
}

func TestConfirm_has_no_builtin_effect(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantDefault)
	f.mgr.Open(md)
	f.clock.Advance(DefaultTransition)

	md.ConfirmButton().Click()

	assert.Equal(t, StateVisible, md.State())
}

func TestEscape_other_keys_ignored(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantDefault)
	f.mgr.Open(md)

	f.doc.DispatchKey("Enter")

	assert.Equal(t, StateOpening, md.State())
}

func TestEscape_double_press_closes_once(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantDefault)
	f.mgr.Open(md)

	f.doc.DispatchKey(dom.KeyEscape)
	f.doc.DispatchKey(dom.KeyEscape)

	assert.Equal(t, 1, f.clock.Pending(), "only one hide is scheduled")
	f.clock.Advance(DefaultTransition)
	assert.Equal(t, StateHidden, md.State())
}

func TestClose_hidden_modal_is_noop(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantDefault)

	assert.NotPanics(t, func() { f.mgr.Close(md) })
	assert.NotPanics(t, func() { f.mgr.Close(nil) })
	assert.Equal(t, 0, f.clock.Pending())
	assert.True(t, md.Element().Hidden())
}

func TestOpen_second_modal_closes_first(t *testing.T) {
	f := newFixture(t)
	first := f.mgr.Build("First", "B", VariantDefault)
	second := f.mgr.Build("Second", "B", VariantLarge)

	f.mgr.Open(first)
	f.clock.Advance(DefaultTransition)
	f.mgr.Open(second)

	assert.Same(t, second, f.mgr.Active())
	assert.Equal(t, StateClosing, first.State())
	assert.Equal(t, StateOpening, second.State())
	assert.Equal(t, 1, f.doc.ListenerCount(dom.EventKeyDown))

	f.clock.Advance(DefaultTransition)

	assert.Equal(t, StateHidden, first.State())
	assert.True(t, first.Element().Hidden())
	assert.Equal(t, StateVisible, second.State())
	assert.Same(t, second, f.mgr.Active())
	assert.False(t, f.backdrop.Hidden(), "backdrop stays for the new modal")
	assert.True(t, f.backdrop.HasClass(ClassOpaque))
	assert.False(t, second.Element().Hidden())
}

func TestOpen_during_close_transition_cancels_hide(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantDefault)
	f.mgr.Open(md)
	f.mgr.Close(md)

	f.clock.Advance(100 * time.Millisecond)
	f.mgr.Open(md)
	f.clock.Advance(time.Second)

	assert.Equal(t, StateVisible, md.State())
	assert.False(t, md.Element().Hidden())
	assert.Same(t, md, f.mgr.Active())
}

func TestClose_during_open_transition(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantDefault)
	f.mgr.Open(md)

	f.clock.Advance(50 * time.Millisecond)
	f.mgr.Close(md)
	f.clock.Advance(time.Second)

	assert.Equal(t, StateHidden, md.State())
	assert.True(t, md.Element().Hidden())
	assert.Nil(t, f.mgr.Active())
}

func TestEscape_after_close_does_nothing(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantDefault)
	f.mgr.Open(md)
	f.mgr.Close(md)
	f.clock.Advance(DefaultTransition)

	f.doc.DispatchKey(dom.KeyEscape)

	assert.Equal(t, 0, f.clock.Pending())
}

func TestWithTransition(t *testing.T) {
	f := newFixture(t, WithTransition(500*time.Millisecond))
	md := f.mgr.Build("T", "B", VariantDefault)
	f.mgr.Open(md)
	f.mgr.Close(md)

	f.clock.Advance(DefaultTransition)
	assert.Equal(t, StateClosing, md.State())

	f.clock.Advance(300 * time.Millisecond)
	assert.Equal(t, StateHidden, md.State())
}

func TestPosition_centered(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantCentered)

	f.mgr.Open(md)

	el := md.Element()
	assert.Equal(t, "50%", el.Style("left"))
	assert.Equal(t, "50%", el.Style("top"))
	assert.Equal(t, "translate(-50%, -50%)", el.Style("transform"))
}

func TestPosition_top_offset(t *testing.T) {
	tests := []struct {
		name     string
		viewport float64
		height   float64
		wantTop  string
	}{
		{"quarter of free space", 800, 200, "150px"},
		{"fractional", 801, 200, "150.25px"},
		{"clamped for tall content", 800, 780, "20px"},
		{"clamped when taller than viewport", 400, 900, "20px"},
	}

	for _, tt := range tests {
		for _, v := range []Variant{VariantDefault, VariantLarge, VariantScrollable} {
			t.Run(tt.name+"/"+string(v), func(t *testing.T) {
				f := newFixture(t)
				f.height = tt.height
				f.doc.Resize(dom.Size{Width: 1280, Height: tt.viewport})
				md := f.mgr.Build("T", "B", v)

				f.mgr.Open(md)

				el := md.Element()
				assert.Equal(t, tt.wantTop, el.Style("top"))
				assert.Equal(t, "50%", el.Style("left"))
				assert.Equal(t, "translateX(-50%)", el.Style("transform"))
			})
		}
	}
}

func TestResize_repositions_active_modal_only(t *testing.T) {
	f := newFixture(t)
	active := f.mgr.Build("Active", "B", VariantDefault)
	idle := f.mgr.Build("Idle", "B", VariantDefault)

	f.mgr.Open(active)
	assert.Equal(t, "150px", active.Element().Style("top"))

	f.doc.Resize(dom.Size{Width: 1280, Height: 1000})

	assert.Equal(t, "200px", active.Element().Style("top"))
	assert.Equal(t, "50%", active.Element().Style("left"))
	assert.Equal(t, "translateX(-50%)", active.Element().Style("transform"))
	assert.Empty(t, idle.Element().Style("top"))
}

func TestResize_without_active_modal(t *testing.T) {
	f := newFixture(t)
	md := f.mgr.Build("T", "B", VariantDefault)

	f.doc.Resize(dom.Size{Width: 1280, Height: 1000})

	assert.Empty(t, md.Element().Style("top"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "hidden", StateHidden.String())
	assert.Equal(t, "opening", StateOpening.String())
	assert.Equal(t, "visible", StateVisible.String())
	assert.Equal(t, "closing", StateClosing.String())
}
