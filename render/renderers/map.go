// Package renderers holds the SystemRenderer implementations composed by the orchestrator
package renderers

import (
	"github.com/lixenwraith/gridcrawl/engine"
	"github.com/lixenwraith/gridcrawl/render"
	"github.com/lixenwraith/gridcrawl/tilemap"
)

// MapRenderer draws every map cell with its tile appearance
type MapRenderer struct{}

func NewMapRenderer() *MapRenderer {
	return &MapRenderer{}
}

// Render issues exactly one Set per cell, y-major
func (r *MapRenderer) Render(ctx render.RenderContext, s render.Surface) {
	m := engine.MustGetResource[*tilemap.Map](ctx.World.Resources())
	tiles := m.Tiles()
	for y := 0; y < tilemap.Height; y++ {
		for x := 0; x < tilemap.Width; x++ {
			glyph, fg, bg := tilemap.Appearance(tiles[tilemap.Index(x, y)])
			s.Set(x, y, fg, bg, glyph)
		}
	}
}
