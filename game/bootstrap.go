package game

import (
	"math/rand/v2"

	"github.com/lixenwraith/gridcrawl/component"
	"github.com/lixenwraith/gridcrawl/core"
	"github.com/lixenwraith/gridcrawl/engine"
	"github.com/lixenwraith/gridcrawl/input"
	"github.com/lixenwraith/gridcrawl/logger"
	"github.com/lixenwraith/gridcrawl/render"
	"github.com/lixenwraith/gridcrawl/render/renderers"
	"github.com/lixenwraith/gridcrawl/status"
	"github.com/lixenwraith/gridcrawl/systems"
	"github.com/lixenwraith/gridcrawl/tilemap"
)

// Spawn is the player start cell, always Floor on a generated map
var Spawn = core.Point{X: 40, Y: 25}

// PlayerAppearance is how the player is drawn
var PlayerAppearance = component.RenderableComponent{Glyph: '@', FG: core.RGBYellow, BG: core.RGBBlack}

// Walker placement: one walker every walkerSpacing columns along walkerRow
const (
	walkerRow     = 20
	walkerSpacing = 7
)

// Options configures Bootstrap
type Options struct {
	Seed       uint64 // 0 picks a random seed
	Walkers    int
	Greeting   string // printed at the top-left when non-empty
	ShowStatus bool
	Audio      engine.AudioPlayer
	Registry   *status.Registry
}

// Session is a ready-to-tick world with its driver
type Session struct {
	Driver   *Driver
	World    *engine.World
	Map      *tilemap.Map
	Player   core.Entity
	Walkers  []core.Entity
	Seed     uint64
	Metrics  *status.Registry
	Greeting *renderers.TextRenderer
	Status   *renderers.StatusRenderer
}

// RegisterComponents registers every component type a session uses
func RegisterComponents(w *engine.World) {
	engine.Register[component.PositionComponent](w)
	engine.Register[component.RenderableComponent](w)
	engine.Register[component.PlayerComponent](w)
	engine.Register[component.LeftMoverComponent](w)
}

// Bootstrap registers components, generates the map, inserts resources,
// spawns the player and walkers, and wires systems and renderers into a driver
func Bootstrap(opts Options, src input.Source) *Session {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}

	w := engine.NewWorld()
	RegisterComponents(w)

	m := tilemap.Generate(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), Spawn)

	reg := opts.Registry
	if reg == nil {
		reg = status.NewRegistry()
	}
	rs := w.Resources()
	engine.AddResource(rs, m)
	engine.AddResource(rs, reg)
	if opts.Audio != nil {
		engine.AddResource(rs, &engine.AudioResource{Player: opts.Audio})
	}

	s := &Session{World: w, Map: m, Seed: seed, Metrics: reg}

	eb := w.CreateEntity()
	engine.With(eb, component.PositionComponent{X: Spawn.X, Y: Spawn.Y})
	engine.With(eb, PlayerAppearance)
	engine.With(eb, component.PlayerComponent{})
	s.Player = eb.Build()

	for i := 0; i < opts.Walkers; i++ {
		x, ok := floorFrom(m, i*walkerSpacing, walkerRow)
		if !ok {
			continue
		}
		eb := w.CreateEntity()
		engine.With(eb, component.PositionComponent{X: x, Y: walkerRow})
		engine.With(eb, systems.WalkerAppearance)
		engine.With(eb, component.LeftMoverComponent{})
		s.Walkers = append(s.Walkers, eb.Build())
	}

	orchestrator := render.NewRenderOrchestrator()
	orchestrator.Register(renderers.NewMapRenderer(), render.PriorityMap)
	orchestrator.Register(renderers.NewEntityRenderer(), render.PriorityEntities)
	s.Greeting = renderers.NewTextRenderer(1, 0, opts.Greeting)
	s.Greeting.Visible = opts.Greeting != ""
	orchestrator.Register(s.Greeting, render.PriorityOverlay)
	s.Status = renderers.NewStatusRenderer(opts.ShowStatus)
	orchestrator.Register(s.Status, render.PriorityDebug)

	s.Driver = NewDriver(w, src, orchestrator)
	s.Driver.AddSystem(systems.NewLeftWalker(w))

	logger.Log.WithField("seed", seed).
		WithField("walls", m.Count(tilemap.Wall)).
		WithField("walkers", len(s.Walkers)).
		Info("session ready")
	return s
}

// floorFrom returns the first Floor x at or east of x0 in row y
func floorFrom(m *tilemap.Map, x0, y int) (int, bool) {
	for x := max(x0, 0); x < tilemap.Width; x++ {
		if tile, err := m.TileAt(x, y); err == nil && tilemap.IsPassable(tile) {
			return x, true
		}
	}
	return 0, false
}
