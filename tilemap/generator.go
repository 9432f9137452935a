package tilemap

import "github.com/lixenwraith/gridcrawl/core"

// WallDraws is the number of random interior wall placements per generated map
const WallDraws = 400

// RNG is the random source collaborator; *rand.Rand from math/rand/v2 satisfies it
type RNG interface {
	IntN(n int) int
}

// Generate builds a new map: all Floor, border Wall, then WallDraws independent
// draws of a uniform interior cell set to Wall. Draws landing on spawn are skipped,
// so spawn is always Floor. Connectivity between spawn and other floor is not checked.
func Generate(rng RNG, spawn core.Point) *Map {
	m := New()

	for x := 0; x < Width; x++ {
		m.tiles[Index(x, 0)] = Wall
		m.tiles[Index(x, Height-1)] = Wall
	}
	for y := 0; y < Height; y++ {
		m.tiles[Index(0, y)] = Wall
		m.tiles[Index(Width-1, y)] = Wall
	}

	for i := 0; i < WallDraws; i++ {
		x := 1 + rng.IntN(Width-2)
		y := 1 + rng.IntN(Height-2)
		if x == spawn.X && y == spawn.Y {
			continue
		}
		m.tiles[Index(x, y)] = Wall
	}

	return m
}
