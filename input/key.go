// Package input turns backend key events into movement keys for the frame driver
package input

// Key is the backend-neutral key enumeration consumed by movement
type Key uint8

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyOther
)

var keyNames = [...]string{
	KeyNone:  "none",
	KeyLeft:  "left",
	KeyRight: "right",
	KeyUp:    "up",
	KeyDown:  "down",
	KeyOther: "other",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "invalid"
}

// delta is the fixed direction table, indexed by Key
var delta = [...][2]int{
	KeyLeft:  {-1, 0},
	KeyRight: {1, 0},
	KeyUp:    {0, -1},
	KeyDown:  {0, 1},
}

// Delta returns the movement vector for k; ok is false for keys that do not move
func Delta(k Key) (dx, dy int, ok bool) {
	switch k {
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		d := delta[k]
		return d[0], d[1], true
	default:
		return 0, 0, false
	}
}

// Source yields at most one pending key per call and never blocks
type Source interface {
	Poll() (Key, bool)
}
