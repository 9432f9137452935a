package render

import "github.com/lixenwraith/gridcrawl/engine"

// RenderContext is the per-frame state handed to renderers, passed by value
type RenderContext struct {
	World *engine.World
	Tick  uint64
}
