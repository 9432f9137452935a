package input

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Action is what a bound key does outside the movement table
type Action uint8

const (
	ActionNone Action = iota
	ActionMove
	ActionQuit
	ActionMute
)

// Binding is the resolved meaning of one key name
type Binding struct {
	Action Action
	Key    Key
}

// Bindings lists key names per action, as read from the [keys] config section
// Single-character names match the exact rune, longer names are case-insensitive
type Bindings struct {
	Left  []string
	Right []string
	Up    []string
	Down  []string
	Quit  []string
	Mute  []string
}

// DefaultBindings is arrows plus vi keys plus WASD, Esc and q to quit
func DefaultBindings() Bindings {
	return Bindings{
		Left:  []string{"left", "h", "a"},
		Right: []string{"right", "l", "d"},
		Up:    []string{"up", "k", "w"},
		Down:  []string{"down", "j", "s"},
		Quit:  []string{"esc", "q", "ctrl-c"},
		Mute:  []string{"ctrl-s"},
	}
}

// Keymap resolves backend key names to bindings
type Keymap struct {
	entries map[string]Binding
}

// DefaultKeymap returns the keymap for DefaultBindings
func DefaultKeymap() *Keymap {
	km, err := NewKeymap(DefaultBindings())
	if err != nil {
		panic(err)
	}
	return km
}

// NewKeymap builds a keymap, failing on empty names or a name bound twice
func NewKeymap(b Bindings) (*Keymap, error) {
	km := &Keymap{entries: make(map[string]Binding)}

	groups := []struct {
		section string
		names   []string
		binding Binding
	}{
		{"left", b.Left, Binding{ActionMove, KeyLeft}},
		{"right", b.Right, Binding{ActionMove, KeyRight}},
		{"up", b.Up, Binding{ActionMove, KeyUp}},
		{"down", b.Down, Binding{ActionMove, KeyDown}},
		{"quit", b.Quit, Binding{ActionQuit, KeyNone}},
		{"mute", b.Mute, Binding{ActionMute, KeyNone}},
	}

	for _, g := range groups {
		for _, name := range g.names {
			norm := normalizeName(name)
			if norm == "" {
				return nil, fmt.Errorf("[keys] %s: empty key name", g.section)
			}
			if prev, ok := km.entries[norm]; ok && prev != g.binding {
				return nil, fmt.Errorf("[keys] %s: key %q already bound", g.section, name)
			}
			km.entries[norm] = g.binding
		}
	}

	return km, nil
}

// Lookup resolves a key name; unbound names report ok false
func (km *Keymap) Lookup(name string) (Binding, bool) {
	b, ok := km.entries[normalizeName(name)]
	return b, ok
}

// Resolve maps a name to a movement key, unbound names become KeyOther
func (km *Keymap) Resolve(name string) Key {
	if b, ok := km.Lookup(name); ok && b.Action == ActionMove {
		return b.Key
	}
	return KeyOther
}

// Len returns the number of bound names
func (km *Keymap) Len() int {
	return len(km.entries)
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) == 1 {
		return name
	}
	return strings.ToLower(name)
}
