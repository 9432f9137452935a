package core

// RGB stores explicit 8-bit color channels, decoupled from any backend color type
type RGB struct {
	R, G, B uint8
}

// Named colors used by the default palette
var (
	RGBBlack  = RGB{0, 0, 0}
	RGBWhite  = RGB{255, 255, 255}
	RGBYellow = RGB{255, 255, 0}
	RGBRed    = RGB{255, 0, 0}
	RGBGreen  = RGB{0, 255, 0}
	RGBGray   = RGB{128, 128, 128}
)

// FromFloat builds a color from normalized channels in [0, 1]
func FromFloat(r, g, b float64) RGB {
	return RGB{R: unit(r), G: unit(g), B: unit(b)}
}

// Scale multiplies each channel by factor
func (c RGB) Scale(factor float64) RGB {
	if factor <= 0 {
		return RGBBlack
	}
	return RGB{
		R: uint8(min(float64(c.R)*factor, 255)),
		G: uint8(min(float64(c.G)*factor, 255)),
		B: uint8(min(float64(c.B)*factor, 255)),
	}
}

// RGBA returns channels in the form image/color expects
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func unit(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
