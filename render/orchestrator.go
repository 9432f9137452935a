package render

import "github.com/lixenwraith/gridcrawl/core"

type rendererEntry struct {
	renderer SystemRenderer
	priority RenderPriority
	index    int // registration order for stable sort
}

// RenderOrchestrator runs registered renderers in priority order over a surface
type RenderOrchestrator struct {
	renderers []rendererEntry
	regCount  int
}

// NewRenderOrchestrator creates an empty orchestrator
func NewRenderOrchestrator() *RenderOrchestrator {
	return &RenderOrchestrator{
		renderers: make([]rendererEntry, 0, 4),
	}
}

// Register adds a renderer at the specified priority, maintaining sorted order via insertion sort
func (o *RenderOrchestrator) Register(r SystemRenderer, priority RenderPriority) {
	entry := rendererEntry{
		renderer: r,
		priority: priority,
		index:    o.regCount,
	}
	o.regCount++

	pos := len(o.renderers)
	for i, e := range o.renderers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	o.renderers = append(o.renderers, rendererEntry{})
	copy(o.renderers[pos+1:], o.renderers[pos:])
	o.renderers[pos] = entry
}

// Len returns the number of registered renderers
func (o *RenderOrchestrator) Len() int {
	return len(o.renderers)
}

// RenderFrame runs every visible renderer against s and returns the number of cell writes
// The surface is not cleared here, clearing is the first stage of a tick
func (o *RenderOrchestrator) RenderFrame(ctx RenderContext, s Surface) int {
	cs := &countingSurface{Surface: s}

	for _, entry := range o.renderers {
		if vt, ok := entry.renderer.(VisibilityToggle); ok && !vt.IsVisible() {
			continue
		}
		entry.renderer.Render(ctx, cs)
	}

	return cs.writes
}

// countingSurface tallies Set calls and printed characters
type countingSurface struct {
	Surface
	writes int
}

func (c *countingSurface) Set(x, y int, fg, bg core.RGB, glyph rune) {
	c.writes++
	c.Surface.Set(x, y, fg, bg, glyph)
}

func (c *countingSurface) Print(x, y int, text string) {
	for range text {
		c.writes++
	}
	c.Surface.Print(x, y, text)
}
