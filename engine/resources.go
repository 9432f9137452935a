package engine

import (
	"reflect"
	"sync"

	"github.com/lixenwraith/gridcrawl/core"
)

// ResourceStore is a thread-safe container for process-wide singletons (the tile map, metrics, audio)
// It is a separate namespace from per-entity components and holds exactly one value per type
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[reflect.Type]any
}

// NewResourceStore creates a new empty resource store
func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		resources: make(map[reflect.Type]any),
	}
}

// AddResource inserts or replaces the resource of type T
// T should be a pointer type when systems mutate the resource in place
func AddResource[T any](rs *ResourceStore, resource T) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.resources[reflect.TypeFor[T]()] = resource
}

// GetResource retrieves a resource of type T from the store
// Returns the zero value of T and false if not found
func GetResource[T any](rs *ResourceStore) (T, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	val, ok := rs.resources[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// MustGetResource retrieves a resource or panics with *ConfigError if missing
// Used for resources a system cannot run without, such as the tile map
func MustGetResource[T any](rs *ResourceStore) T {
	res, ok := GetResource[T](rs)
	if !ok {
		panic(&ConfigError{Type: reflect.TypeFor[T]().String(), Err: ErrResourceMissing})
	}
	return res
}

// RemoveResource deletes the resource of type T, returns false if none was present
func RemoveResource[T any](rs *ResourceStore) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	t := reflect.TypeFor[T]()
	if _, ok := rs.resources[t]; !ok {
		return false
	}
	delete(rs.resources, t)
	return true
}

// --- Shared Resources ---

// AudioPlayer defines the minimal audio interface used by game systems
type AudioPlayer interface {
	Play(core.SoundType) bool
	IsMuted() bool
}

// AudioResource wraps the audio player interface
type AudioResource struct {
	Player AudioPlayer
}

// TickResource carries the index of the tick being processed
type TickResource struct {
	Tick uint64
}
