package terminal

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gridcrawl/core"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// ParseColorMode resolves the -color flag; "auto" defers to detection
func ParseColorMode(s string, screen tcell.Screen) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return DetectColorMode(screen), nil
	case "256":
		return ColorMode256, nil
	case "truecolor", "true", "24bit":
		return ColorModeTrueColor, nil
	default:
		return ColorMode256, fmt.Errorf("unknown color mode %q", s)
	}
}

// DetectColorMode checks the environment first, then the screen's reported color count
func DetectColorMode(screen tcell.Screen) ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return ColorModeTrueColor
	}

	term := os.Getenv("TERM")
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	if screen != nil && screen.Colors() >= 1<<24 {
		return ColorModeTrueColor
	}
	return ColorMode256
}

// Color cube levels for palette indices 16-231
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

func cubeIndex(v uint8) uint8 {
	best := uint8(0)
	bestDist := absDiff(v, cubeValues[0])
	for j := uint8(1); j < 6; j++ {
		if d := absDiff(v, cubeValues[j]); d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

// RGBTo256 maps a color to the nearest xterm-256 index, preferring the gray ramp for near-neutral colors
func RGBTo256(c core.RGB) uint8 {
	gray := (int(c.R) + int(c.G) + int(c.B)) / 3
	maxDiff := max(absDiff(c.R, uint8(gray)), absDiff(c.G, uint8(gray)), absDiff(c.B, uint8(gray)))

	cr, cg, cb := cubeIndex(c.R), cubeIndex(c.G), cubeIndex(c.B)
	cube := 16 + 36*cr + 6*cg + cb

	if maxDiff >= 10 {
		return cube
	}
	if gray < 4 {
		return 16
	}
	if gray > 243 {
		return 231
	}

	grayIdx := min(232+(gray-8)/10, 255)
	level := uint8(8 + (grayIdx-232)*10)
	grayDist := absDiff(c.R, level) + absDiff(c.G, level) + absDiff(c.B, level)
	cubeDist := absDiff(c.R, cubeValues[cr]) + absDiff(c.G, cubeValues[cg]) + absDiff(c.B, cubeValues[cb])
	if grayDist < cubeDist {
		return uint8(grayIdx)
	}
	return cube
}

// styleFor converts a cell's colors to a tcell style for the given mode
func styleFor(mode ColorMode, fg, bg core.RGB) tcell.Style {
	if mode == ColorModeTrueColor {
		return tcell.StyleDefault.
			Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
			Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
	}
	return tcell.StyleDefault.
		Foreground(tcell.PaletteColor(int(RGBTo256(fg)))).
		Background(tcell.PaletteColor(int(RGBTo256(bg))))
}
