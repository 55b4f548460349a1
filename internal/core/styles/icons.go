package styles

import "strings"

// Nerd Font renderings of Font Awesome icon classes. The font patches the
// Font Awesome code points unchanged, so fa-<name> maps directly.
var faGlyphs = map[string]string{
	"fa-info-circle":          "\uf05a", // 
	"fa-check-circle":         "\uf058", // 
	"fa-times-circle":         "\uf057", // 
	"fa-exclamation-triangle": "\uf071", // 
	"fa-bell":                 "\uf0f3", // 
	"fa-star":                 "\uf005", // 
	"fa-times":                "\uf00d", // 
	"fa-heart":                "\uf004", // 
	"fa-bolt":                 "\uf0e7", // 
	"fa-envelope":             "\uf0e0", // 
}

// IconFallback is drawn for icon classes without a known glyph.
const IconFallback = "•"

// IconClose is the glyph of a close button.
var IconClose = faGlyphs["fa-times"]

// Glyph returns the terminal glyph for an icon class list such as
// "fas fa-star".
func Glyph(class string) string {
	for _, c := range strings.Fields(class) {
		if g, ok := faGlyphs[c]; ok {
			return g
		}
	}
	return IconFallback
}
