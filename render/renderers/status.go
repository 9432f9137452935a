package renderers

import (
	"fmt"

	"github.com/lixenwraith/gridcrawl/engine"
	"github.com/lixenwraith/gridcrawl/render"
	"github.com/lixenwraith/gridcrawl/status"
	"github.com/lixenwraith/gridcrawl/tilemap"
)

// StatusRenderer prints tick and movement counters over the bottom border
type StatusRenderer struct {
	Visible bool
}

func NewStatusRenderer(visible bool) *StatusRenderer {
	return &StatusRenderer{Visible: visible}
}

func (r *StatusRenderer) IsVisible() bool {
	return r.Visible
}

func (r *StatusRenderer) Render(ctx render.RenderContext, s render.Surface) {
	reg, ok := engine.GetResource[*status.Registry](ctx.World.Resources())
	if !ok {
		return
	}
	line := fmt.Sprintf(" t:%d ok:%d blk:%d ent:%d ",
		ctx.Tick,
		reg.Counter(status.KeyCommitted).Load(),
		reg.Counter(status.KeyRejected).Load(),
		ctx.World.EntityCount(),
	)
	s.Print(1, tilemap.Height-1, line)
}
