package engine

import "github.com/lixenwraith/gridcrawl/core"

// ReadStorage is a shared view of one component table
// It holds a read borrow until Release; any number of readers may coexist
type ReadStorage[T any] struct {
	store    *Store[T]
	released bool
}

// Read borrows the table for T for shared access
// Panics with *ConfigError if T is unregistered, *BorrowError if a writer holds the table
func Read[T any](w *World) *ReadStorage[T] {
	s := GetStore[T](w)
	s.acquireRead()
	return &ReadStorage[T]{store: s}
}

// Get returns a copy of the entity's component
func (r *ReadStorage[T]) Get(e core.Entity) (T, bool) {
	return r.live().get(e)
}

// Has reports whether the entity carries the component
func (r *ReadStorage[T]) Has(e core.Entity) bool {
	return r.live().has(e)
}

// Len returns the number of entities carrying the component
func (r *ReadStorage[T]) Len() int {
	return r.live().size()
}

// Entities returns a copy of the carrying entities
func (r *ReadStorage[T]) Entities() []core.Entity {
	return r.live().snapshot()
}

// Release ends the borrow, safe to call more than once
func (r *ReadStorage[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.store.releaseRead()
}

func (r *ReadStorage[T]) column() *Store[T] {
	return r.live()
}

func (r *ReadStorage[T]) live() *Store[T] {
	if r.released {
		panic("read storage used after Release: " + r.store.name)
	}
	return r.store
}

// WriteStorage is an exclusive view of one component table
// It holds a write borrow until Release; no reader or other writer may coexist
type WriteStorage[T any] struct {
	world    *World
	store    *Store[T]
	released bool
}

// Write borrows the table for T for exclusive access
// Panics with *ConfigError if T is unregistered, *BorrowError if the table is borrowed
func Write[T any](w *World) *WriteStorage[T] {
	s := GetStore[T](w)
	s.acquireWrite()
	return &WriteStorage[T]{world: w, store: s}
}

// Get returns a copy of the entity's component
func (ws *WriteStorage[T]) Get(e core.Entity) (T, bool) {
	return ws.live().get(e)
}

// GetMut returns a pointer to the entity's component, nil if absent
// The pointer is valid until the next Insert/Remove on this table
func (ws *WriteStorage[T]) GetMut(e core.Entity) *T {
	return ws.live().ptr(e)
}

// Has reports whether the entity carries the component
func (ws *WriteStorage[T]) Has(e core.Entity) bool {
	return ws.live().has(e)
}

// Len returns the number of entities carrying the component
func (ws *WriteStorage[T]) Len() int {
	return ws.live().size()
}

// Entities returns a copy of the carrying entities
func (ws *WriteStorage[T]) Entities() []core.Entity {
	return ws.live().snapshot()
}

// Insert attaches or overwrites the component, returns false for dead entities
// Not for use while ranging a join over this table; queue the change instead
func (ws *WriteStorage[T]) Insert(e core.Entity, val T) bool {
	s := ws.live()
	if !ws.world.IsAlive(e) {
		return false
	}
	s.set(e, val)
	return true
}

// Remove detaches the component, returns false if it was absent
// Not for use while ranging a join over this table; queue the change instead
func (ws *WriteStorage[T]) Remove(e core.Entity) bool {
	return ws.live().remove(e)
}

// Release ends the borrow, safe to call more than once
func (ws *WriteStorage[T]) Release() {
	if ws.released {
		return
	}
	ws.released = true
	ws.store.releaseWrite()
}

func (ws *WriteStorage[T]) column() *Store[T] {
	return ws.live()
}

func (ws *WriteStorage[T]) live() *Store[T] {
	if ws.released {
		panic("write storage used after Release: " + ws.store.name)
	}
	return ws.store
}
