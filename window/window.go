// Package window presents frames in a desktop window through ebiten
// ebiten owns the frame callback, so each Update runs exactly one driver tick
package window

import (
	"bytes"
	"errors"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/lixenwraith/gridcrawl/game"
	"github.com/lixenwraith/gridcrawl/input"
	"github.com/lixenwraith/gridcrawl/logger"
	"github.com/lixenwraith/gridcrawl/render"
	"github.com/lixenwraith/gridcrawl/tilemap"
)

// Cell metrics in pixels
const (
	CellWidth  = 10
	CellHeight = 16
	fontSize   = 14
)

// Game implements ebiten.Game around a frame driver
type Game struct {
	driver *game.Driver
	keymap *input.Keymap
	keys   *input.Queue
	face   *text.GoTextFace

	mu     sync.Mutex
	frame  *render.Frame
	onMute func()
}

// New loads the Go Mono face; Attach must be called before Run
func New(km *input.Keymap) (*Game, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, err
	}
	return &Game{
		keymap: km,
		keys:   input.NewQueue(input.DefaultQueueSize),
		face:   &text.GoTextFace{Source: src, Size: fontSize},
		frame:  render.NewFrame(tilemap.Width, tilemap.Height),
	}, nil
}

// Attach binds the driver ticked by Update and registers the window as its presenter
func (g *Game) Attach(d *game.Driver) {
	g.driver = d
	d.AddPresenter(g)
}

// OnMute sets the callback for mute keys
func (g *Game) OnMute(fn func()) {
	g.onMute = fn
}

// Poll implements input.Source
func (g *Game) Poll() (input.Key, bool) {
	return g.keys.Poll()
}

// Present keeps a copy of the frame for the next Draw
func (g *Game) Present(f *render.Frame) error {
	c := f.Clone()
	g.mu.Lock()
	g.frame = c
	g.mu.Unlock()
	return nil
}

// Run opens the window and blocks until it closes or a quit key is pressed
func (g *Game) Run(title string) error {
	ebiten.SetWindowSize(tilemap.Width*CellWidth, tilemap.Height*CellHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(20)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update latches just-pressed keys and runs one tick
func (g *Game) Update() error {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		b, ok := g.keymap.Lookup(KeyName(k.String(), ctrl))
		if !ok {
			g.keys.Push(input.KeyOther)
			continue
		}
		switch b.Action {
		case input.ActionMove:
			g.keys.Push(b.Key)
		case input.ActionQuit:
			return ebiten.Termination
		case input.ActionMute:
			if g.onMute != nil {
				g.onMute()
			}
		}
	}

	if g.driver == nil {
		return nil
	}
	if err := g.driver.Tick(); err != nil {
		var te *game.TickError
		if errors.As(err, &te) {
			return te
		}
		logger.Log.WithField("tick", g.driver.TickCount()).Warn(err)
	}
	return nil
}

// Draw paints each cell as a background rect and a glyph
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	f := g.frame
	g.mu.Unlock()

	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			c, _ := f.Cell(x, y)
			px, py := float64(x*CellWidth), float64(y*CellHeight)
			vector.DrawFilledRect(screen, float32(px), float32(py), CellWidth, CellHeight, c.BG, false)
			if c.Glyph == ' ' {
				continue
			}
			op := &text.DrawOptions{}
			op.GeoM.Translate(px, py)
			op.ColorScale.ScaleWithColor(c.FG)
			text.Draw(screen, string(c.Glyph), g.face, op)
		}
	}
}

// Layout fixes the logical screen to the grid size
func (g *Game) Layout(_, _ int) (int, int) {
	return tilemap.Width * CellWidth, tilemap.Height * CellHeight
}

var ebitenNames = map[string]string{
	"ArrowLeft":  "left",
	"ArrowRight": "right",
	"ArrowUp":    "up",
	"ArrowDown":  "down",
	"Escape":     "esc",
	"Enter":      "enter",
	"Tab":        "tab",
	"Space":      " ",
}

// KeyName converts an ebiten key name to a keymap name
// Letters become lower-case runes, "ctrl-" is prefixed while Control is held
func KeyName(name string, ctrl bool) string {
	if n, ok := ebitenNames[name]; ok {
		return n
	}
	if strings.HasPrefix(name, "Digit") {
		name = strings.TrimPrefix(name, "Digit")
	}
	if len(name) == 1 {
		name = strings.ToLower(name)
		if ctrl {
			return "ctrl-" + name
		}
		return name
	}
	return strings.ToLower(name)
}
