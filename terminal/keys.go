package terminal

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

var specialNames = map[tcell.Key]string{
	tcell.KeyLeft:   "left",
	tcell.KeyRight:  "right",
	tcell.KeyUp:     "up",
	tcell.KeyDown:   "down",
	tcell.KeyEscape: "esc",
	tcell.KeyEnter:  "enter",
	tcell.KeyTab:    "tab",
	tcell.KeyCtrlC:  "ctrl-c",
	tcell.KeyCtrlS:  "ctrl-s",
	tcell.KeyCtrlQ:  "ctrl-q",
}

// KeyName returns the keymap name for a key event
// Runes map to themselves, Ctrl+rune to "ctrl-<rune>", special keys to lower-case names
func KeyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			return "ctrl-" + strings.ToLower(string(ev.Rune()))
		}
		return string(ev.Rune())
	}
	if name, ok := specialNames[ev.Key()]; ok {
		return name
	}
	if name, ok := tcell.KeyNames[ev.Key()]; ok {
		return strings.ToLower(name)
	}
	return ""
}
