package engine

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/gridcrawl/core"
)

// World owns every component table, entity identity, resource and the deferred command queue
// It is passed by reference into each tick and each system; there is no ambient instance
type World struct {
	mu     sync.RWMutex
	nextID atomic.Uint64
	alive  mapset.Set[core.Entity]

	// Registry keyed by component type, order kept for deterministic lifecycle passes
	stores map[reflect.Type]AnyStore
	order  []AnyStore

	resources *ResourceStore
	commands  *CommandQueue
}

// NewWorld creates an empty world with no registered component types
func NewWorld() *World {
	w := &World{
		alive:     mapset.New[core.Entity](),
		stores:    make(map[reflect.Type]AnyStore),
		order:     make([]AnyStore, 0, 8),
		resources: NewResourceStore(),
	}
	w.commands = newCommandQueue(w)
	return w
}

// Register declares a backing table for component type T
// Must occur before any entity is given a T; registering twice is a no-op
func Register[T any](w *World) {
	t := reflect.TypeFor[T]()

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.stores[t]; ok {
		return
	}
	s := newStore[T](t.String())
	w.stores[t] = s
	w.order = append(w.order, s)
}

// GetStore returns the typed table for T
// Panics with *ConfigError if T was never registered
func GetStore[T any](w *World) *Store[T] {
	t := reflect.TypeFor[T]()

	w.mu.RLock()
	s, ok := w.stores[t]
	w.mu.RUnlock()

	if !ok {
		panic(&ConfigError{Type: t.String(), Err: ErrNotRegistered})
	}
	return s.(*Store[T])
}

// IsRegistered reports whether a table exists for T
func IsRegistered[T any](w *World) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.stores[reflect.TypeFor[T]()]
	return ok
}

// Resources returns the world's resource registry
func (w *World) Resources() *ResourceStore {
	return w.resources
}

// Commands returns the deferred mutation queue drained by Maintain
func (w *World) Commands() *CommandQueue {
	return w.commands
}

// CreateEntity starts an immediate entity builder, components attach atomically on Build
func (w *World) CreateEntity() *EntityBuilder {
	return &EntityBuilder{world: w}
}

// IsAlive reports whether an entity has been built and not destroyed
func (w *World) IsAlive(e core.Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.alive.Has(e)
}

// EntityCount returns the number of live entities
func (w *World) EntityCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.alive.Size()
}

// DestroyEntity removes an entity and all its components immediately
// Returns false if the entity was not alive
// Inside a tick, use Commands().DestroyEntity so in-flight joins stay consistent
func (w *World) DestroyEntity(e core.Entity) bool {
	w.mu.RLock()
	stores := w.order
	w.mu.RUnlock()

	release := lockStores(stores)
	defer release()
	return w.destroyLocked(e)
}

// destroyLocked removes e from every table, caller holds write borrows on all stores
func (w *World) destroyLocked(e core.Entity) bool {
	w.mu.Lock()
	if !w.alive.Has(e) {
		w.mu.Unlock()
		return false
	}
	w.alive.Remove(e)
	stores := w.order
	w.mu.Unlock()

	for _, s := range stores {
		s.remove(e)
	}
	return true
}

// Clear removes all entities and components, registrations and resources survive
// Every table is write-borrowed first, so a conflicting borrow panics before anything changes
func (w *World) Clear() {
	w.mu.RLock()
	stores := w.order
	w.mu.RUnlock()

	release := lockStores(stores)
	defer release()

	w.commands.Discard()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.alive.Clear()
	for _, s := range stores {
		s.clear()
	}
}

// reserveEntity allocates a fresh id, ids are never reused
func (w *World) reserveEntity() core.Entity {
	return core.Entity(w.nextID.Add(1))
}

// spawn marks the entity alive and applies all attachments under write borrows
// Borrows are taken up front so a conflict leaves the world untouched
func (w *World) spawn(e core.Entity, attachments []attachment) {
	stores := make([]AnyStore, 0, len(attachments))
	for _, a := range attachments {
		if !containsStore(stores, a.store) {
			stores = append(stores, a.store)
		}
	}

	release := lockStores(stores)
	defer release()
	w.spawnLocked(e, attachments)
}

// spawnLocked is spawn for callers already holding the write borrows
func (w *World) spawnLocked(e core.Entity, attachments []attachment) {
	w.mu.Lock()
	w.alive.Put(e)
	w.mu.Unlock()

	for _, a := range attachments {
		a.apply(e)
	}
}

// lockStores takes write borrows on every store or none
// Panics with *BorrowError naming the first conflicting table
func lockStores(stores []AnyStore) (release func()) {
	locked := make([]AnyStore, 0, len(stores))
	release = func() {
		for _, s := range locked {
			s.releaseWrite()
		}
	}

	for _, s := range stores {
		if !s.tryAcquireWrite() {
			held := s.heldKind()
			release()
			panic(&BorrowError{Type: s.Name(), Want: BorrowWrite, Held: held})
		}
		locked = append(locked, s)
	}
	return release
}

func containsStore(stores []AnyStore, s AnyStore) bool {
	for _, existing := range stores {
		if existing == s {
			return true
		}
	}
	return false
}
