// Package status holds lock-free runtime metrics shared between the tick loop and observers
package status

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// Metric keys written by the engine and its systems
const (
	KeyTicks          = "engine.ticks"
	KeyTickErrors     = "engine.tick_errors"
	KeyTickMillis     = "engine.tick_ms"
	KeyMaintained     = "engine.commands_applied"
	KeyDropped        = "engine.commands_dropped"
	KeyCommitted      = "movement.committed"
	KeyRejected       = "movement.rejected"
	KeyWalkerRecycled = "walker.recycled"
	KeyRenderCells    = "render.cells"
	KeyBackend        = "game.backend"
	KeyAudioMuted     = "audio.muted"
	KeySpectators     = "spectate.clients"
)

// Registry is the metrics facade added as a world resource
// Systems resolve pointers once at construction and write atomics in the loop,
// only the first lookup of a key takes the lock
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
	flags    map[string]*atomic.Bool
	gauges   map[string]*Float
	texts    map[string]*Label
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*atomic.Int64),
		flags:    make(map[string]*atomic.Bool),
		gauges:   make(map[string]*Float),
		texts:    make(map[string]*Label),
	}
}

// Counter returns the integer metric for key, created on first use
func (r *Registry) Counter(key string) *atomic.Int64 {
	return lookup(r, r.counters, key)
}

// Flag returns the boolean metric for key, created on first use
func (r *Registry) Flag(key string) *atomic.Bool {
	return lookup(r, r.flags, key)
}

// Gauge returns the float metric for key, created on first use
func (r *Registry) Gauge(key string) *Float {
	return lookup(r, r.gauges, key)
}

// Text returns the label metric for key, created on first use
func (r *Registry) Text(key string) *Label {
	return lookup(r, r.texts, key)
}

// Has reports whether any metric kind was created under key
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, c := r.counters[key]
	_, f := r.flags[key]
	_, g := r.gauges[key]
	_, t := r.texts[key]
	return c || f || g || t
}

func lookup[T any](r *Registry, m map[string]*T, key string) *T {
	r.mu.RLock()
	ptr, ok := m[key]
	r.mu.RUnlock()
	if ok {
		return ptr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ptr, ok := m[key]; ok {
		return ptr
	}
	ptr = new(T)
	m[key] = ptr
	return ptr
}

// TotalCount returns the number of metrics across all kinds
func (r *Registry) TotalCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.counters) + len(r.flags) + len(r.gauges) + len(r.texts)
}

// Snapshot flattens every metric into key/value pairs, used for exit logging
func (r *Registry) Snapshot() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.counters)+len(r.flags)+len(r.gauges)+len(r.texts))
	for k, v := range r.counters {
		out[k] = v.Load()
	}
	for k, v := range r.flags {
		out[k] = v.Load()
	}
	for k, v := range r.gauges {
		out[k] = v.Get()
	}
	for k, v := range r.texts {
		out[k] = v.Load()
	}
	return out
}

// Lines renders the counters as "key=value" strings in key order
func (r *Registry) Lines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(r.counters))
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s=%d", k, r.counters[k].Load()))
	}
	return lines
}
