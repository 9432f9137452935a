package render

import (
	"strings"

	"github.com/lixenwraith/gridcrawl/core"
)

// Cell is one character position of a frame
type Cell struct {
	Glyph rune
	FG    core.RGB
	BG    core.RGB
}

// BlankCell is what Cls writes
var BlankCell = Cell{Glyph: ' ', FG: core.RGBWhite, BG: core.RGBBlack}

// DefaultTextFG is the foreground used by Print
var DefaultTextFG = core.RGBWhite

// Frame is a fixed-size cell buffer, the finished output of one tick
type Frame struct {
	Tick   uint64
	width  int
	height int
	cells  []Cell
}

// NewFrame allocates a cleared frame
func NewFrame(width, height int) *Frame {
	f := &Frame{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	f.Cls()
	return f
}

func (f *Frame) Width() int  { return f.width }
func (f *Frame) Height() int { return f.height }

// Cls resets every cell to BlankCell
func (f *Frame) Cls() {
	for i := range f.cells {
		f.cells[i] = BlankCell
	}
}

// Set writes one cell, coordinates outside the frame are ignored
func (f *Frame) Set(x, y int, fg, bg core.RGB, glyph rune) {
	if !f.inBounds(x, y) {
		return
	}
	f.cells[y*f.width+x] = Cell{Glyph: glyph, FG: fg, BG: bg}
}

// Print writes text left to right from (x, y) keeping each cell's background
// Characters past the right edge are clipped
func (f *Frame) Print(x, y int, text string) {
	for _, r := range text {
		if f.inBounds(x, y) {
			c := &f.cells[y*f.width+x]
			c.Glyph = r
			c.FG = DefaultTextFG
		}
		x++
	}
}

// Cell returns the cell at (x, y), ok is false outside the frame
func (f *Frame) Cell(x, y int) (Cell, bool) {
	if !f.inBounds(x, y) {
		return Cell{}, false
	}
	return f.cells[y*f.width+x], true
}

// Rows returns the glyph rows top to bottom
func (f *Frame) Rows() []string {
	rows := make([]string, f.height)
	var sb strings.Builder
	for y := 0; y < f.height; y++ {
		sb.Reset()
		for _, c := range f.cells[y*f.width : (y+1)*f.width] {
			sb.WriteRune(c.Glyph)
		}
		rows[y] = sb.String()
	}
	return rows
}

// Clone returns an independent copy, presenters that keep a frame past Present must clone it
func (f *Frame) Clone() *Frame {
	c := &Frame{
		Tick:   f.Tick,
		width:  f.width,
		height: f.height,
		cells:  make([]Cell, len(f.cells)),
	}
	copy(c.cells, f.cells)
	return c
}

func (f *Frame) inBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}
