package dom

import (
	"math"
	"strings"
)

// Size is a viewport size in CSS pixels. Terminal hosts map one cell to
// CellWidth by LineHeight pixels.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an element box in CSS pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top returns the top edge.
func (r Rect) Top() float64 { return r.Y }

// Left returns the left edge.
func (r Rect) Left() float64 { return r.X }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left() && x < r.Right() && y >= r.Top() && y < r.Bottom()
}

// LayoutFunc measures an element against the current viewport.
type LayoutFunc func(el *Element, viewport Size) Rect

// Cell metrics used by the layout estimate and by terminal hosts.
const (
	CellWidth  = 8.0
	LineHeight = 16.0
)

// maxWidths maps the width utility classes the widgets use to pixel widths.
var maxWidths = map[string]float64{
	"max-w-sm":  384,
	"max-w-md":  448,
	"max-w-lg":  512,
	"max-w-xl":  576,
	"max-w-2xl": 672,
	"max-w-4xl": 896,
}

// EstimateLayout is the default LayoutFunc. It derives the width from the
// element's max-width class and the height from its wrapped text plus one
// line per child block. Good enough for headless snapshots.
func EstimateLayout(el *Element, viewport Size) Rect {
	width := MaxWidth(el, viewport.Width)

	perLine := math.Max(1, math.Floor(width/CellWidth))
	text := strings.Join(strings.Fields(el.TextContent()), " ")
	lines := math.Ceil(float64(len(text)) / perLine)
	lines += float64(len(el.Children()))

	return Rect{Width: width, Height: lines * LineHeight}
}

// MaxWidth returns the width allowed by el's max-width class, capped at limit.
func MaxWidth(el *Element, limit float64) float64 {
	width := limit
	for _, class := range el.Classes() {
		if w, ok := maxWidths[class]; ok && w < width {
			width = w
		}
	}
	return width
}
