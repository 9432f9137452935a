// Package tilemap holds the fixed-size world grid and its collision classification
package tilemap

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/gridcrawl/core"
)

// World dimensions, assumed by every bounds check and by Index
const (
	Width     = 80
	Height    = 50
	CellCount = Width * Height
)

// ErrOutOfBounds reports a cell address outside [0,Width)x[0,Height)
var ErrOutOfBounds = errors.New("tile out of bounds")

// TileType classifies a cell for collision and rendering
type TileType uint8

const (
	Floor TileType = iota
	Wall
)

func (t TileType) String() string {
	switch t {
	case Floor:
		return "floor"
	case Wall:
		return "wall"
	default:
		return fmt.Sprintf("tile(%d)", uint8(t))
	}
}

// IsPassable reports whether movers may enter a tile, true only for Floor
func IsPassable(t TileType) bool {
	return t == Floor
}

// Appearance returns the glyph and colors a tile is drawn with
func Appearance(t TileType) (glyph rune, fg, bg core.RGB) {
	if t == Wall {
		return '#', core.RGBGreen, core.RGBBlack
	}
	return '.', core.FromFloat(0.5, 0.5, 0.5), core.RGBBlack
}

// Index is the canonical row-major mapping from coordinates to cell index
func Index(x, y int) int {
	return y*Width + x
}

// InBounds reports whether (x, y) addresses a cell
func InBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// Map is the process-wide tile grid, shared as a world resource
type Map struct {
	tiles [CellCount]TileType
}

// New returns a map with every cell Floor
func New() *Map {
	return &Map{}
}

// TileAt returns the classification of a cell
// Out-of-range coordinates fail with ErrOutOfBounds; the map never clamps or wraps
func (m *Map) TileAt(x, y int) (TileType, error) {
	if !InBounds(x, y) {
		return Wall, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, Width, Height)
	}
	return m.tiles[Index(x, y)], nil
}

// SetTile overwrites a cell, used during generation and by fixtures
func (m *Map) SetTile(x, y int, t TileType) error {
	if !InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, Width, Height)
	}
	m.tiles[Index(x, y)] = t
	return nil
}

// Tiles returns a copy of the grid in Index order
func (m *Map) Tiles() []TileType {
	out := make([]TileType, CellCount)
	copy(out, m.tiles[:])
	return out
}

// Count returns the number of cells of the given type
func (m *Map) Count(t TileType) int {
	n := 0
	for _, tile := range m.tiles {
		if tile == t {
			n++
		}
	}
	return n
}
