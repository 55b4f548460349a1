package page

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/overlay/internal/core/clock"
	"github.com/hay-kot/overlay/internal/core/config"
	"github.com/hay-kot/overlay/internal/core/dom"
	"github.com/hay-kot/overlay/internal/core/logging"
	"github.com/hay-kot/overlay/internal/core/modal"
	"github.com/hay-kot/overlay/internal/core/notify"
)

var viewport = dom.Size{Width: 1280, Height: 800}

func mountDefault(t *testing.T) (*Page, *clock.Fake) {
	t.Helper()

	cfg := config.DefaultConfig()
	doc := Build(&cfg, viewport)
	fake := clock.NewFake()

	p, err := Mount(doc, &cfg, fake, zerolog.Nop())
	require.NoError(t, err)
	return p, fake
}

func TestBuild_skeleton(t *testing.T) {
	cfg := config.DefaultConfig()
	doc := Build(&cfg, viewport)

	backdrop, err := doc.Lookup("modalBackdrop")
	require.NoError(t, err)
	assert.True(t, backdrop.Hidden())
	assert.True(t, backdrop.HasClass("opacity-0"))

	container, err := doc.Lookup("notificationContainer")
	require.NoError(t, err)
	assert.True(t, container.HasClass("right-4"))
	assert.Empty(t, container.Children())

	btn, err := doc.Lookup("customNotifBtn")
	require.NoError(t, err)
	assert.Equal(t, "Custom Notification", btn.TextContent())
	key, ok := btn.Attr(AttrHotkey)
	require.True(t, ok)
	assert.Equal(t, "c", key)
}

func TestMount_triggers_in_config_order(t *testing.T) {
	p, _ := mountDefault(t)

	var keys, hotkeys []string
	for _, tr := range p.Triggers() {
		keys = append(keys, tr.Key)
		hotkeys = append(hotkeys, tr.Hotkey)
	}

	assert.Equal(t, []string{
		"defaultModalBtn", "largeModalBtn", "scrollableModalBtn", "centeredModalBtn",
		"successNotifBtn", "errorNotifBtn", "warningNotifBtn", "infoNotifBtn", "customNotifBtn",
	}, keys)
	assert.Equal(t, []string{"1", "2", "3", "4", "s", "e", "w", "i", "c"}, hotkeys)

	tr, ok := p.Hotkey("3")
	require.True(t, ok)
	assert.Equal(t, KindModal, tr.Kind)
	assert.Equal(t, "scrollable", tr.Variant)

	_, ok = p.Hotkey("z")
	assert.False(t, ok)
	_, ok = p.Hotkey("")
	assert.False(t, ok)
}

func TestMount_builds_one_modal_per_trigger(t *testing.T) {
	p, _ := mountDefault(t)

	for _, key := range []string{"defaultModalBtn", "largeModalBtn", "scrollableModalBtn", "centeredModalBtn"} {
		md, ok := p.Modal(key)
		require.True(t, ok, key)
		assert.Equal(t, modal.StateHidden, md.State())
		assert.True(t, md.Element().Connected())
	}

	md, _ := p.Modal("largeModalBtn")
	assert.Equal(t, modal.VariantLarge, md.Variant())
	assert.True(t, strings.HasPrefix(md.Body(), "This modal has a larger width."))
}

func TestMount_missing_trigger(t *testing.T) {
	cfg := config.DefaultConfig()
	doc := Build(&cfg, viewport)

	cfg.Notifications = append(cfg.Notifications, config.NotificationTrigger{Trigger: "ghostBtn"})

	_, err := Mount(doc, &cfg, clock.NewFake(), zerolog.Nop())
	require.Error(t, err)

	var missing *dom.MissingElementError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ghostBtn", missing.Key)
	assert.Contains(t, err.Error(), `mount page: element "ghostBtn" not found`)
}

func TestMount_missing_container(t *testing.T) {
	cfg := config.DefaultConfig()
	doc := Build(&cfg, viewport)
	cfg.Page.Container = "toasts"

	_, err := Mount(doc, &cfg, clock.NewFake(), zerolog.Nop())

	var missing *dom.MissingElementError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "toasts", missing.Key)
}

func TestMount_missing_trigger_binds_nothing(t *testing.T) {
	cfg := config.DefaultConfig()
	doc := Build(&cfg, viewport)
	cfg.Modals = append(cfg.Modals, config.ModalTrigger{Trigger: "ghostBtn"})

	_, err := Mount(doc, &cfg, clock.NewFake(), zerolog.Nop())
	require.Error(t, err)

	btn, _ := doc.Lookup("defaultModalBtn")
	btn.Click()

	backdrop, _ := doc.Lookup("modalBackdrop")
	assert.True(t, backdrop.Hidden(), "no modal was built or bound")
}

func TestClick_modal_trigger(t *testing.T) {
	p, fake := mountDefault(t)

	require.NoError(t, p.Click("defaultModalBtn"))

	md := p.Modals().Active()
	require.NotNil(t, md)
	assert.Equal(t, "Default Modal", md.Title())
	assert.False(t, p.Modals().Backdrop().Hidden())

	fake.Advance(modal.DefaultTransition)
	assert.Equal(t, modal.StateVisible, md.State())

	require.NoError(t, p.Click("centeredModalBtn"))
	assert.Equal(t, "Centered Modal", p.Modals().Active().Title())

	fake.Advance(modal.DefaultTransition)
	assert.Equal(t, modal.StateHidden, md.State())
	assert.False(t, p.Modals().Backdrop().Hidden())
}

func TestClick_notification_trigger(t *testing.T) {
	p, fake := mountDefault(t)

	require.NoError(t, p.Click("customNotifBtn"))
	require.NoError(t, p.Click("errorNotifBtn"))

	entries := p.Notifications().Entries()
	require.Len(t, entries, 2)

	custom := entries[0]
	assert.Equal(t, "notification-0", custom.ID)
	assert.Equal(t, notify.VariantCustom, custom.Variant)
	assert.Equal(t, "fas fa-star", custom.Icon)
	assert.Equal(t, 5000*time.Millisecond, custom.Timeout)

	assert.Equal(t, notify.VariantError, entries[1].Variant)
	assert.Equal(t, 3000*time.Millisecond, entries[1].Timeout)

	fake.Advance(3000*time.Millisecond + notify.DefaultExitDelay)
	entries = p.Notifications().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "notification-0", entries[0].ID)
}

func TestClick_unknown_trigger(t *testing.T) {
	p, _ := mountDefault(t)

	err := p.Click("nope")
	var missing *dom.MissingElementError
	require.ErrorAs(t, err, &missing)
}

func TestMount_uses_configured_timing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timing.ModalTransition = 50 * time.Millisecond
	cfg.Timing.NotificationTimeout = 0
	cfg.Notifications[0].Timeout = nil

	doc := Build(&cfg, viewport)
	fake := clock.NewFake()
	p, err := Mount(doc, &cfg, fake, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, p.Click("defaultModalBtn"))
	md := p.Modals().Active()
	p.Modals().Close(md)
	fake.Advance(50 * time.Millisecond)
	assert.Equal(t, modal.StateHidden, md.State())

	require.NoError(t, p.Click("successNotifBtn"))
	fake.Advance(time.Hour)
	assert.Len(t, p.Notifications().Entries(), 1, "zero timeout keeps the notification")
}

func TestMount_sanitize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Content.Sanitize = true
	cfg.Modals[0].Body = `<p onclick="steal()">hi</p><script>alert(1)</script>`

	doc := Build(&cfg, viewport)
	p, err := Mount(doc, &cfg, clock.NewFake(), zerolog.Nop())
	require.NoError(t, err)

	md, _ := p.Modal("defaultModalBtn")
	out, err := md.Element().OuterHTML()
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, "<p>hi</p>")
}

func TestClick_notification_logs_id(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel).Hook(logging.ContextHook{})

	cfg := config.DefaultConfig()
	p, err := Mount(Build(&cfg, viewport), &cfg, clock.NewFake(), logger)
	require.NoError(t, err)
	buf.Reset()

	require.NoError(t, p.Click("errorNotifBtn"))

	var triggered map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "notification triggered" {
			triggered = entry
		}
	}

	require.NotNil(t, triggered, buf.String())
	assert.Equal(t, "page", triggered[logging.ComponentKey])
	assert.Equal(t, "errorNotifBtn", triggered["trigger"])
	assert.Equal(t, notify.IDPrefix+"0", triggered["notification_id"])
}
