package systems

import (
	"testing"

	"github.com/lixenwraith/gridcrawl/component"
	"github.com/lixenwraith/gridcrawl/engine"
	"github.com/lixenwraith/gridcrawl/status"
	"github.com/lixenwraith/gridcrawl/tilemap"
)

func TestLeftWalkerSteps(t *testing.T) {
	f := newFixture(t)
	e := f.spawnWalker(20, 20)
	s := NewLeftWalker(f.world)

	s.Run(f.world)
	s.Run(f.world)

	if got := f.position(t, e); got.X != 18 || got.Y != 20 {
		t.Errorf("Expected (18,20), got (%d,%d)", got.X, got.Y)
	}
	if f.world.Commands().Len() != 0 {
		t.Error("Free steps must not enqueue commands")
	}
}

func TestLeftWalkerRecyclesAtWall(t *testing.T) {
	f := newFixture(t)
	mustSet(t, f.tiles, tilemap.Width-2, 20, tilemap.Wall)
	e := f.spawnWalker(1, 20)
	s := NewLeftWalker(f.world)

	s.Run(f.world)

	// Not applied until Maintain
	if !f.world.IsAlive(e) {
		t.Fatal("Walker destroyed before Maintain")
	}
	if got := f.position(t, e); got.X != 1 {
		t.Errorf("Blocked walker must not move, got x=%d", got.X)
	}

	res := f.world.Maintain()
	if res.Applied != 2 || res.Dropped != 0 {
		t.Errorf("Unexpected maintain result %+v", res)
	}
	if f.world.IsAlive(e) {
		t.Error("Expected old walker destroyed")
	}

	pos := engine.Read[component.PositionComponent](f.world)
	defer pos.Release()
	movers := engine.Read[component.LeftMoverComponent](f.world)
	defer movers.Release()

	count := 0
	for row := range engine.Join2(pos, movers) {
		count++
		// East-most floor of row 20 is x=77: 79 is border, 78 was walled above
		if row.A.X != tilemap.Width-3 || row.A.Y != 20 {
			t.Errorf("Expected respawn at (%d,20), got (%d,%d)", tilemap.Width-3, row.A.X, row.A.Y)
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one walker, got %d", count)
	}
	if n := f.reg.Counter(status.KeyWalkerRecycled).Load(); n != 1 {
		t.Errorf("Expected recycled metric 1, got %d", n)
	}
}

func TestLeftWalkerRowWithoutFloorIsRemoved(t *testing.T) {
	f := newFixture(t)
	// Row 0 is all border wall, there is nowhere to respawn
	e := f.spawnWalker(5, 0)

	NewLeftWalker(f.world).Run(f.world)
	res := f.world.Maintain()

	if res.Applied != 1 {
		t.Errorf("Expected only the destroy applied, got %+v", res)
	}
	if f.world.IsAlive(e) {
		t.Error("Expected walker destroyed")
	}
	movers := engine.Read[component.LeftMoverComponent](f.world)
	defer movers.Release()
	if movers.Len() != 0 {
		t.Errorf("Expected no walkers, got %d", movers.Len())
	}
}

func TestLeftWalkerIgnoresPlayers(t *testing.T) {
	f := newFixture(t)
	p := f.spawnPlayer(30, 30)

	NewLeftWalker(f.world).Run(f.world)

	if got := f.position(t, p); got.X != 30 {
		t.Errorf("Player moved by walker system to x=%d", got.X)
	}
}
