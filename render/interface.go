package render

import "github.com/lixenwraith/gridcrawl/core"

// Surface is the drawing target renderers write to
// Writes outside the surface are ignored
type Surface interface {
	Cls()
	Set(x, y int, fg, bg core.RGB, glyph rune)
	Print(x, y int, text string)
}

// SystemRenderer is implemented by anything that draws world state
type SystemRenderer interface {
	Render(ctx RenderContext, s Surface)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}
