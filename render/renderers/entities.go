package renderers

import (
	"github.com/lixenwraith/gridcrawl/component"
	"github.com/lixenwraith/gridcrawl/engine"
	"github.com/lixenwraith/gridcrawl/render"
)

// EntityRenderer draws every entity carrying both Position and Renderable
// Overlapping entities resolve by join order, no z-ordering
type EntityRenderer struct{}

func NewEntityRenderer() *EntityRenderer {
	return &EntityRenderer{}
}

func (r *EntityRenderer) Render(ctx render.RenderContext, s render.Surface) {
	positions := engine.Read[component.PositionComponent](ctx.World)
	defer positions.Release()
	renderables := engine.Read[component.RenderableComponent](ctx.World)
	defer renderables.Release()

	for row := range engine.Join2(positions, renderables) {
		s.Set(row.A.X, row.A.Y, row.B.FG, row.B.BG, row.B.Glyph)
	}
}
