package systems

import (
	"sync/atomic"

	"github.com/lixenwraith/gridcrawl/component"
	"github.com/lixenwraith/gridcrawl/core"
	"github.com/lixenwraith/gridcrawl/engine"
	"github.com/lixenwraith/gridcrawl/status"
	"github.com/lixenwraith/gridcrawl/tilemap"
)

// WalkerAppearance is how spawned left-walkers are drawn
var WalkerAppearance = component.RenderableComponent{Glyph: '☺', FG: core.RGBRed, BG: core.RGBBlack}

// LeftWalker steps every LeftMover one cell west per tick
// A walker that would enter a wall or leave the grid is recycled through the command queue:
// destroyed and replaced by a fresh walker on the east-most floor cell of its row
type LeftWalker struct {
	recycled *atomic.Int64
}

// NewLeftWalker creates the system, caching its metric if a registry resource is present
func NewLeftWalker(w *engine.World) *LeftWalker {
	s := &LeftWalker{}
	if reg, ok := engine.GetResource[*status.Registry](w.Resources()); ok {
		s.recycled = reg.Counter(status.KeyWalkerRecycled)
	}
	return s
}

func (s *LeftWalker) Name() string {
	return "left_walker"
}

// Run advances walkers; recycling is visible only after the next Maintain
func (s *LeftWalker) Run(w *engine.World) {
	m := engine.MustGetResource[*tilemap.Map](w.Resources())
	q := w.Commands()

	positions := engine.Write[component.PositionComponent](w)
	defer positions.Release()
	movers := engine.Read[component.LeftMoverComponent](w)
	defer movers.Release()
	renderables := engine.Read[component.RenderableComponent](w)
	defer renderables.Release()

	for row := range engine.Join2(positions, movers) {
		pos := row.A
		tile, err := m.TileAt(pos.X-1, pos.Y)
		if err == nil && tilemap.IsPassable(tile) {
			pos.X--
			continue
		}

		q.DestroyEntity(row.Entity)
		x, ok := eastmostFloor(m, pos.Y)
		if !ok {
			continue
		}
		look, ok := renderables.Get(row.Entity)
		if !ok {
			look = WalkerAppearance
		}
		eb := q.CreateEntity()
		engine.With(eb, component.PositionComponent{X: x, Y: pos.Y})
		engine.With(eb, look)
		engine.With(eb, component.LeftMoverComponent{})
		eb.Build()

		if s.recycled != nil {
			s.recycled.Add(1)
		}
	}
}

// eastmostFloor returns the largest x in row y that is Floor
func eastmostFloor(m *tilemap.Map, y int) (int, bool) {
	for x := tilemap.Width - 1; x >= 0; x-- {
		if tile, err := m.TileAt(x, y); err == nil && tilemap.IsPassable(tile) {
			return x, true
		}
	}
	return 0, false
}
