package component

import "github.com/lixenwraith/gridcrawl/core"

// RenderableComponent describes how an entity is drawn, treated as immutable after creation
type RenderableComponent struct {
	Glyph rune
	FG    core.RGB
	BG    core.RGB
}
