// Package systems holds the per-tick world updates
package systems

import (
	"github.com/lixenwraith/gridcrawl/component"
	"github.com/lixenwraith/gridcrawl/core"
	"github.com/lixenwraith/gridcrawl/engine"
	"github.com/lixenwraith/gridcrawl/input"
	"github.com/lixenwraith/gridcrawl/status"
	"github.com/lixenwraith/gridcrawl/tilemap"
)

// MoveStats counts the outcome of one movement pass
type MoveStats struct {
	Committed int
	Rejected  int
}

// PlayerInput applies the movement mapped from key; keys outside the table are no-ops
func PlayerInput(w *engine.World, key input.Key) MoveStats {
	dx, dy, ok := input.Delta(key)
	if !ok {
		return MoveStats{}
	}
	return TryMove(w, dx, dy)
}

// TryMove offers (dx, dy) to every entity with Player and Position
// A passable candidate is committed with coordinates clamped to the grid,
// an impassable or off-grid candidate leaves the entity in place and plays the bump sound.
// Each player is resolved independently against the map, never against other entities.
func TryMove(w *engine.World, dx, dy int) MoveStats {
	m := engine.MustGetResource[*tilemap.Map](w.Resources())

	positions := engine.Write[component.PositionComponent](w)
	defer positions.Release()
	players := engine.Read[component.PlayerComponent](w)
	defer players.Release()

	var stats MoveStats
	for row := range engine.Join2(positions, players) {
		pos := row.A
		tx, ty := pos.X+dx, pos.Y+dy

		tile, err := m.TileAt(tx, ty)
		if err != nil || !tilemap.IsPassable(tile) {
			stats.Rejected++
			continue
		}

		pos.X = clamp(tx, 0, tilemap.Width-1)
		pos.Y = clamp(ty, 0, tilemap.Height-1)
		stats.Committed++
	}

	recordMove(w, stats)
	return stats
}

func recordMove(w *engine.World, stats MoveStats) {
	rs := w.Resources()
	if reg, ok := engine.GetResource[*status.Registry](rs); ok {
		reg.Counter(status.KeyCommitted).Add(int64(stats.Committed))
		reg.Counter(status.KeyRejected).Add(int64(stats.Rejected))
	}
	if stats.Rejected == 0 {
		return
	}
	if audio, ok := engine.GetResource[*engine.AudioResource](rs); ok && audio.Player != nil && !audio.Player.IsMuted() {
		audio.Player.Play(core.SoundBump)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
