package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlyph(t *testing.T) {
	assert.Equal(t, "\uf005", Glyph("fas fa-star"))
	assert.Equal(t, "\uf0f3", Glyph("fa-bell fas"))
	assert.Equal(t, IconFallback, Glyph("fas fa-unicorn"))
	assert.Equal(t, IconFallback, Glyph(""))
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	assert.Contains(t, names, DefaultTheme)
	assert.IsIncreasing(t, names)

	for _, name := range names {
		_, ok := GetPalette(name)
		assert.True(t, ok, name)
	}
}

func TestPalette_Family(t *testing.T) {
	p, ok := GetPalette("gruvbox")
	require.True(t, ok)

	tests := []struct {
		family string
		want   lipgloss.Color
	}{
		{"blue", p.Primary},
		{"green", p.Success},
		{"red", p.Error},
		{"yellow", p.Warning},
		{"indigo", p.Secondary},
		{"mauve", p.Primary},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Family(tt.family), tt.family)
	}
}

func TestGlamourStyle_follows_theme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, _ := GetPalette("onedark")
	SetTheme(p)

	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, "#abb2bf", *cfg.Document.Color)
	require.NotNil(t, cfg.H2.Color)
	assert.Equal(t, "#61afef", *cfg.H2.Color)
}

func TestColorHexPtr_invalid(t *testing.T) {
	assert.Nil(t, colorHexPtr(""))
	assert.Nil(t, colorHexPtr("not-a-color"))

	got := colorHexPtr("#DCD7BA")
	require.NotNil(t, got)
	assert.Equal(t, "#dcd7ba", *got)
}
