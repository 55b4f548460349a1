package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/x/exp/golden"
	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/overlay/pkg/tuitest"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("valid %s", "config")
	p.Warnf("careful")
	p.Errorf("%d error(s)", 2)
	p.Infof("note")
	p.Printf("  plain")

	assert.Equal(t, "✓ valid config\n! careful\n✗ 2 error(s)\n• note\n  plain", tuitest.StripANSI(buf.String()))
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))
	assert.NotNil(t, Ctx(context.Background()))
}

func TestPrinter_golden(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("Configuration is valid")
	p.Warnf("Modals: unknown variant %q, the default width is used", "huge")
	p.Printf("  Item: %s", "a")
	p.Errorf("%d error(s) found", 1)

	golden.RequireEqual(t, []byte(tuitest.StripANSI(buf.String())))
}
