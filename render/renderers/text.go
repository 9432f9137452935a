package renderers

import "github.com/lixenwraith/gridcrawl/render"

// TextRenderer prints a fixed string, the minimal render variant
type TextRenderer struct {
	X, Y    int
	Text    string
	Visible bool
}

func NewTextRenderer(x, y int, text string) *TextRenderer {
	return &TextRenderer{X: x, Y: y, Text: text, Visible: true}
}

func (r *TextRenderer) IsVisible() bool {
	return r.Visible
}

func (r *TextRenderer) Render(_ render.RenderContext, s render.Surface) {
	s.Print(r.X, r.Y, r.Text)
}
