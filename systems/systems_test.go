package systems

import (
	"testing"

	"github.com/lixenwraith/gridcrawl/component"
	"github.com/lixenwraith/gridcrawl/core"
	"github.com/lixenwraith/gridcrawl/engine"
	"github.com/lixenwraith/gridcrawl/status"
	"github.com/lixenwraith/gridcrawl/tilemap"
)

type fakeAudio struct {
	played []core.SoundType
	muted  bool
}

func (a *fakeAudio) Play(s core.SoundType) bool {
	a.played = append(a.played, s)
	return true
}

func (a *fakeAudio) IsMuted() bool { return a.muted }

type fixture struct {
	world *engine.World
	tiles *tilemap.Map
	reg   *status.Registry
	audio *fakeAudio
}

// newFixture builds a world over a map with only the border walled
func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := engine.NewWorld()
	engine.Register[component.PositionComponent](w)
	engine.Register[component.RenderableComponent](w)
	engine.Register[component.PlayerComponent](w)
	engine.Register[component.LeftMoverComponent](w)

	m := tilemap.New()
	for x := 0; x < tilemap.Width; x++ {
		mustSet(t, m, x, 0, tilemap.Wall)
		mustSet(t, m, x, tilemap.Height-1, tilemap.Wall)
	}
	for y := 0; y < tilemap.Height; y++ {
		mustSet(t, m, 0, y, tilemap.Wall)
		mustSet(t, m, tilemap.Width-1, y, tilemap.Wall)
	}

	reg := status.NewRegistry()
	audio := &fakeAudio{}
	rs := w.Resources()
	engine.AddResource(rs, m)
	engine.AddResource(rs, reg)
	engine.AddResource(rs, &engine.AudioResource{Player: audio})

	return &fixture{world: w, tiles: m, reg: reg, audio: audio}
}

func mustSet(t *testing.T, m *tilemap.Map, x, y int, tile tilemap.TileType) {
	t.Helper()
	if err := m.SetTile(x, y, tile); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) spawnPlayer(x, y int) core.Entity {
	eb := f.world.CreateEntity()
	engine.With(eb, component.PositionComponent{X: x, Y: y})
	engine.With(eb, component.PlayerComponent{})
	return eb.Build()
}

func (f *fixture) spawnWalker(x, y int) core.Entity {
	eb := f.world.CreateEntity()
	engine.With(eb, component.PositionComponent{X: x, Y: y})
	engine.With(eb, WalkerAppearance)
	engine.With(eb, component.LeftMoverComponent{})
	return eb.Build()
}

func (f *fixture) position(t *testing.T, e core.Entity) component.PositionComponent {
	t.Helper()
	pos := engine.Read[component.PositionComponent](f.world)
	defer pos.Release()
	p, ok := pos.Get(e)
	if !ok {
		t.Fatalf("Entity %d has no position", e)
	}
	return p
}
