package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/gridcrawl/component"
	"github.com/lixenwraith/gridcrawl/core"
	"github.com/lixenwraith/gridcrawl/engine"
	"github.com/lixenwraith/gridcrawl/input"
	"github.com/lixenwraith/gridcrawl/render"
	"github.com/lixenwraith/gridcrawl/render/renderers"
	"github.com/lixenwraith/gridcrawl/status"
	"github.com/lixenwraith/gridcrawl/tilemap"
)

// recordingPresenter keeps a clone of every presented frame
type recordingPresenter struct {
	frames []*render.Frame
	err    error
}

func (p *recordingPresenter) Present(f *render.Frame) error {
	p.frames = append(p.frames, f.Clone())
	return p.err
}

// funcSystem adapts a closure to System
type funcSystem struct {
	name string
	run  func(w *engine.World)
}

func (s funcSystem) Name() string         { return s.name }
func (s funcSystem) Run(w *engine.World) { s.run(w) }

type testRig struct {
	driver    *Driver
	world     *engine.World
	keys      *input.Queue
	presenter *recordingPresenter
	player    core.Entity
}

// newTestRig builds a driver over a border-only map with the player at Spawn
func newTestRig(t *testing.T) *testRig {
	t.Helper()
	w := engine.NewWorld()
	RegisterComponents(w)

	m := tilemap.New()
	for x := 0; x < tilemap.Width; x++ {
		m.SetTile(x, 0, tilemap.Wall)
		m.SetTile(x, tilemap.Height-1, tilemap.Wall)
	}
	for y := 0; y < tilemap.Height; y++ {
		m.SetTile(0, y, tilemap.Wall)
		m.SetTile(tilemap.Width-1, y, tilemap.Wall)
	}
	engine.AddResource(w.Resources(), m)

	eb := w.CreateEntity()
	engine.With(eb, component.PositionComponent{X: Spawn.X, Y: Spawn.Y})
	engine.With(eb, PlayerAppearance)
	engine.With(eb, component.PlayerComponent{})
	player := eb.Build()

	o := render.NewRenderOrchestrator()
	o.Register(renderers.NewMapRenderer(), render.PriorityMap)
	o.Register(renderers.NewEntityRenderer(), render.PriorityEntities)

	keys := input.NewQueue(8)
	d := NewDriver(w, keys, o)
	p := &recordingPresenter{}
	d.AddPresenter(p)

	return &testRig{driver: d, world: w, keys: keys, presenter: p, player: player}
}

func glyphAt(f *render.Frame, x, y int) rune {
	c, _ := f.Cell(x, y)
	return c.Glyph
}

func TestTickMovesPlayerAndPresents(t *testing.T) {
	r := newTestRig(t)
	r.keys.Push(input.KeyRight)

	if err := r.driver.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	if len(r.presenter.frames) != 1 {
		t.Fatalf("Expected one presented frame, got %d", len(r.presenter.frames))
	}
	f := r.presenter.frames[0]
	if glyphAt(f, 41, 25) != '@' {
		t.Errorf("Expected @ at (41,25), row: %q", f.Rows()[25])
	}
	if glyphAt(f, 40, 25) != '.' {
		t.Errorf("Expected floor at (40,25), got %q", glyphAt(f, 40, 25))
	}
	if glyphAt(f, 0, 0) != '#' {
		t.Error("Expected wall at origin")
	}
	if f.Tick != 1 {
		t.Errorf("Expected frame tick 1, got %d", f.Tick)
	}

	reg := engine.MustGetResource[*status.Registry](r.world.Resources())
	if reg.Counter(status.KeyTicks).Load() != 1 {
		t.Error("Expected tick counter 1")
	}
	if got := reg.Counter(status.KeyRenderCells).Load(); got != tilemap.CellCount+1 {
		t.Errorf("Expected %d cell writes, got %d", tilemap.CellCount+1, got)
	}
}

func TestTickConsumesOneKeyPerTick(t *testing.T) {
	r := newTestRig(t)
	r.keys.Push(input.KeyRight)
	r.keys.Push(input.KeyRight)
	r.keys.Push(input.KeyDown)

	r.driver.Tick()
	if r.keys.Len() != 2 {
		t.Fatalf("Expected 2 pending keys, got %d", r.keys.Len())
	}
	r.driver.Tick()
	r.driver.Tick()
	r.driver.Tick() // no input

	last := r.presenter.frames[len(r.presenter.frames)-1]
	if glyphAt(last, 42, 26) != '@' {
		t.Errorf("Expected @ at (42,26), row: %q", last.Rows()[26])
	}
}

func TestTickSystemsRunInDeclaredOrder(t *testing.T) {
	r := newTestRig(t)
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		r.driver.AddSystem(funcSystem{name: name, run: func(*engine.World) { order = append(order, name) }})
	}

	r.driver.Tick()

	if strings.Join(order, ",") != "first,second,third" {
		t.Errorf("Unexpected order %v", order)
	}
}

func TestTickDeferredCreateVisibility(t *testing.T) {
	r := newTestRig(t)
	var created core.Entity
	var seenSameTick, seenNextTick bool

	r.driver.AddSystem(funcSystem{name: "spawner", run: func(w *engine.World) {
		if created != 0 {
			return
		}
		eb := w.Commands().CreateEntity()
		engine.With(eb, component.PositionComponent{X: 10, Y: 10})
		engine.With(eb, component.RenderableComponent{Glyph: 'x', FG: core.RGBRed})
		created = eb.Build()
	}})
	r.driver.AddSystem(funcSystem{name: "observer", run: func(w *engine.World) {
		if created == 0 {
			return
		}
		pos := engine.Read[component.PositionComponent](w)
		defer pos.Release()
		if r.driver.TickCount() == 1 {
			seenSameTick = pos.Has(created)
		} else {
			seenNextTick = pos.Has(created)
		}
	}})

	r.driver.Tick()
	if seenSameTick {
		t.Error("Deferred entity visible to later systems in the same tick")
	}
	if glyphAt(r.presenter.frames[0], 10, 10) != 'x' {
		t.Error("Deferred entity must be rendered in the tick it was applied")
	}

	r.driver.Tick()
	if !seenNextTick {
		t.Error("Deferred entity must be visible to systems in the next tick")
	}
}

func TestTickPanicAbortsAndDiscardsQueue(t *testing.T) {
	r := newTestRig(t)
	var victim core.Entity
	r.driver.AddSystem(funcSystem{name: "exploder", run: func(w *engine.World) {
		victim = r.player
		w.Commands().DestroyEntity(victim)
		panic("boom")
	}})

	err := r.driver.Tick()

	var te *TickError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TickError, got %v", err)
	}
	if te.Stage != StageSystems || te.System != "exploder" || te.Tick != 1 {
		t.Errorf("Unexpected tick error %+v", te)
	}
	if !strings.Contains(te.Error(), "boom") {
		t.Errorf("Expected panic value in message, got %q", te.Error())
	}
	if len(r.presenter.frames) != 0 {
		t.Error("Aborted tick must not present")
	}
	if r.world.Commands().Len() != 0 {
		t.Error("Expected pending commands discarded")
	}
	if !r.world.IsAlive(victim) {
		t.Error("Discarded destroy must not apply")
	}

	reg := engine.MustGetResource[*status.Registry](r.world.Resources())
	if reg.Counter(status.KeyTickErrors).Load() != 1 {
		t.Error("Expected tick error counter 1")
	}
}

func TestTickLeakedBorrowFailsMaintain(t *testing.T) {
	r := newTestRig(t)
	var leaked *engine.ReadStorage[component.PositionComponent]
	r.driver.AddSystem(funcSystem{name: "leaker", run: func(w *engine.World) {
		leaked = engine.Read[component.PositionComponent](w)
		w.Commands().DestroyEntity(r.player)
	}})

	err := r.driver.Tick()
	leaked.Release()

	var te *TickError
	if !errors.As(err, &te) || te.Stage != StageMaintain {
		t.Fatalf("Expected maintain-stage TickError, got %v", err)
	}
	var be *engine.BorrowError
	if !errors.As(err, &be) {
		t.Errorf("Expected wrapped *engine.BorrowError, got %v", err)
	}
}

func TestTickPresenterErrorIsReturned(t *testing.T) {
	r := newTestRig(t)
	failing := &recordingPresenter{err: errors.New("closed")}
	r.driver.AddPresenter(failing)

	err := r.driver.Tick()
	if err == nil || !strings.Contains(err.Error(), "closed") {
		t.Fatalf("Expected presenter error, got %v", err)
	}
	var te *TickError
	if errors.As(err, &te) {
		t.Error("Presenter failure is not a tick abort")
	}
	if len(r.presenter.frames) != 1 || len(failing.frames) != 1 {
		t.Error("Every presenter must be offered the frame")
	}
}

// cancelPresenter cancels the run after n frames
type cancelPresenter struct {
	n      int
	cancel context.CancelFunc
}

func (p *cancelPresenter) Present(*render.Frame) error {
	p.n--
	if p.n == 0 {
		p.cancel()
	}
	return nil
}

func TestRunStopsOnContext(t *testing.T) {
	r := newTestRig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.driver.AddPresenter(&cancelPresenter{n: 3, cancel: cancel})

	if err := r.driver.Run(ctx, time.Millisecond); err != nil {
		t.Fatalf("Expected clean stop, got %v", err)
	}
	if r.driver.TickCount() < 3 {
		t.Errorf("Expected at least 3 ticks, got %d", r.driver.TickCount())
	}
}

func TestRunReturnsTickError(t *testing.T) {
	r := newTestRig(t)
	r.driver.AddSystem(funcSystem{name: "exploder", run: func(*engine.World) { panic("boom") }})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := r.driver.Run(ctx, time.Millisecond)
	var te *TickError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TickError, got %v", err)
	}
}

// positions snapshots every positioned entity
func positions(w *engine.World) map[core.Entity]component.PositionComponent {
	ps := engine.Read[component.PositionComponent](w)
	defer ps.Release()

	out := make(map[core.Entity]component.PositionComponent, ps.Len())
	for _, e := range ps.Entities() {
		p, _ := ps.Get(e)
		out[e] = p
	}
	return out
}

func TestRandomWalkKeepsEntitiesOnFloor(t *testing.T) {
	seeds, ticks := 24, 600
	if testing.Short() {
		seeds, ticks = 4, 200
	}
	keys := []input.Key{input.KeyLeft, input.KeyRight, input.KeyUp, input.KeyDown, input.KeyOther}

	for seed := uint64(1); seed <= uint64(seeds); seed++ {
		q := input.NewQueue(input.DefaultQueueSize)
		s := Bootstrap(Options{Seed: seed, Walkers: 8}, q)
		rng := rand.New(rand.NewPCG(seed, 0xabcdef))
		prev := positions(s.World)

		for tick := 0; tick < ticks; tick++ {
			q.Push(keys[rng.IntN(len(keys))])
			if err := s.Driver.Tick(); err != nil {
				t.Fatalf("seed %d tick %d: %v", seed, tick, err)
			}

			cur := positions(s.World)
			for e, p := range cur {
				if !tilemap.InBounds(p.X, p.Y) {
					t.Fatalf("seed %d tick %d: entity %d out of bounds at (%d,%d)", seed, tick, e, p.X, p.Y)
				}
				tile, err := s.Map.TileAt(p.X, p.Y)
				if err != nil || tile != tilemap.Floor {
					t.Fatalf("seed %d tick %d: entity %d on %v at (%d,%d)", seed, tick, e, tile, p.X, p.Y)
				}
				// Recycled walkers are fresh entities, only survivors are step-checked
				if old, ok := prev[e]; ok {
					if d := abs(p.X-old.X) + abs(p.Y-old.Y); d > 1 {
						t.Fatalf("seed %d tick %d: entity %d jumped %d cells", seed, tick, e, d)
					}
				}
			}
			if _, ok := cur[s.Player]; !ok {
				t.Fatalf("seed %d tick %d: player lost", seed, tick)
			}
			prev = cur
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
