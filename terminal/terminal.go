// Package terminal presents frames on a tcell screen and feeds its key events to the driver
package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gridcrawl/core"
	"github.com/lixenwraith/gridcrawl/input"
	"github.com/lixenwraith/gridcrawl/logger"
	"github.com/lixenwraith/gridcrawl/render"
)

// Terminal wraps a tcell screen as an input.Source and a frame presenter
type Terminal struct {
	screen tcell.Screen
	keymap *input.Keymap
	keys   *input.Queue
	mode   ColorMode

	done     chan struct{}
	doneOnce sync.Once
	finiOnce sync.Once

	muMute sync.Mutex
	onMute func()
}

// Open creates and initializes the system screen
// The screen is registered as the crash cleanup so a panic restores the terminal
func Open(km *input.Keymap, colorFlag string) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	mode, err := ParseColorMode(colorFlag, screen)
	if err != nil {
		screen.Fini()
		return nil, err
	}

	t := New(screen, km, mode)
	core.SetCrashCleanup(t.Fini)
	return t, nil
}

// New wraps an already initialized screen
func New(screen tcell.Screen, km *input.Keymap, mode ColorMode) *Terminal {
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.HideCursor()
	return &Terminal{
		screen: screen,
		keymap: km,
		keys:   input.NewQueue(input.DefaultQueueSize),
		mode:   mode,
		done:   make(chan struct{}),
	}
}

// ColorMode returns the active color mode
func (t *Terminal) ColorMode() ColorMode {
	return t.mode
}

// OnMute sets the callback run when a mute key is pressed, called from the poll goroutine
func (t *Terminal) OnMute(fn func()) {
	t.muMute.Lock()
	t.onMute = fn
	t.muMute.Unlock()
}

// Start launches the event poller; it exits when the screen is finalized
func (t *Terminal) Start() {
	core.Go(t.pollLoop)
}

func (t *Terminal) pollLoop() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.handleKey(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	b, ok := t.keymap.Lookup(KeyName(ev))
	if !ok {
		t.keys.Push(input.KeyOther)
		return
	}

	switch b.Action {
	case input.ActionMove:
		if !t.keys.Push(b.Key) {
			logger.Log.WithField("key", b.Key).Debug("input queue full, key dropped")
		}
	case input.ActionQuit:
		t.doneOnce.Do(func() { close(t.done) })
	case input.ActionMute:
		t.muMute.Lock()
		fn := t.onMute
		t.muMute.Unlock()
		if fn != nil {
			fn()
		}
	}
}

// Poll returns the oldest pending movement key without blocking
func (t *Terminal) Poll() (input.Key, bool) {
	return t.keys.Poll()
}

// Done is closed when a quit key is pressed
func (t *Terminal) Done() <-chan struct{} {
	return t.done
}

// Present copies the frame to the screen and shows it
func (t *Terminal) Present(f *render.Frame) error {
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			c, _ := f.Cell(x, y)
			t.screen.SetContent(x, y, c.Glyph, nil, styleFor(t.mode, c.FG, c.BG))
		}
	}
	t.screen.Show()
	return nil
}

// Fini restores the terminal, safe to call more than once
func (t *Terminal) Fini() {
	t.finiOnce.Do(t.screen.Fini)
}
