package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrusted_passes_markup_through(t *testing.T) {
	in := `<b>bold</b><script>alert(1)</script>`
	assert.Equal(t, in, Trusted().Sanitize(in))
}

func TestStrict_removes_scripts(t *testing.T) {
	out := Strict().Sanitize(`<b>bold</b><script>alert(1)</script>`)

	assert.Contains(t, out, "<b>bold</b>")
	assert.NotContains(t, out, "script")
}

func TestForConfig(t *testing.T) {
	in := `<img src="x" onerror="alert(1)">`

	assert.Equal(t, in, ForConfig(false).Sanitize(in))
	assert.NotContains(t, ForConfig(true).Sanitize(in), "onerror")
}
