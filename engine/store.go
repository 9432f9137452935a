package engine

import (
	"sync/atomic"

	"github.com/lixenwraith/gridcrawl/core"
)

// Store is a generic container for a specific component type T
// Uses sparse set pattern: dense component slice, parallel entity slice, entity -> slot index
// Pointers into dense storage stay valid until the next structural change of this store
type Store[T any] struct {
	name     string
	borrow   atomic.Int32 // >0 shared readers, -1 exclusive writer, 0 free
	index    map[core.Entity]int
	dense    []T
	entities []core.Entity
}

func newStore[T any](name string) *Store[T] {
	return &Store[T]{
		name:     name,
		index:    make(map[core.Entity]int),
		dense:    make([]T, 0, 64),
		entities: make([]core.Entity, 0, 64),
	}
}

// Name returns the component type name used in diagnostics
func (s *Store[T]) Name() string {
	return s.name
}

// === Borrow arbitration ===

func (s *Store[T]) acquireRead() {
	for {
		n := s.borrow.Load()
		if n < 0 {
			panic(&BorrowError{Type: s.name, Want: BorrowRead, Held: BorrowWrite})
		}
		if s.borrow.CompareAndSwap(n, n+1) {
			return
		}
	}
}

func (s *Store[T]) releaseRead() {
	s.borrow.Add(-1)
}

func (s *Store[T]) tryAcquireWrite() bool {
	return s.borrow.CompareAndSwap(0, -1)
}

func (s *Store[T]) acquireWrite() {
	if !s.tryAcquireWrite() {
		panic(&BorrowError{Type: s.name, Want: BorrowWrite, Held: s.heldKind()})
	}
}

func (s *Store[T]) releaseWrite() {
	s.borrow.Store(0)
}

func (s *Store[T]) heldKind() BorrowKind {
	if s.borrow.Load() < 0 {
		return BorrowWrite
	}
	return BorrowRead
}

// === Raw access, callers hold the matching borrow ===

// set inserts or overwrites the component for an entity
func (s *Store[T]) set(e core.Entity, val T) {
	if i, ok := s.index[e]; ok {
		s.dense[i] = val
		return
	}
	s.index[e] = len(s.dense)
	s.dense = append(s.dense, val)
	s.entities = append(s.entities, e)
}

func (s *Store[T]) get(e core.Entity) (T, bool) {
	if i, ok := s.index[e]; ok {
		return s.dense[i], true
	}
	var zero T
	return zero, false
}

func (s *Store[T]) ptr(e core.Entity) *T {
	if i, ok := s.index[e]; ok {
		return &s.dense[i]
	}
	return nil
}

// remove swap-deletes the component of an entity, returns false if absent
func (s *Store[T]) remove(e core.Entity) bool {
	i, ok := s.index[e]
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	if i != last {
		s.dense[i] = s.dense[last]
		s.entities[i] = s.entities[last]
		s.index[s.entities[i]] = i
	}
	var zero T
	s.dense[last] = zero
	s.dense = s.dense[:last]
	s.entities = s.entities[:last]
	delete(s.index, e)
	return true
}

func (s *Store[T]) has(e core.Entity) bool {
	_, ok := s.index[e]
	return ok
}

func (s *Store[T]) size() int {
	return len(s.entities)
}

// snapshot copies the entity list so iteration is stable for a single pass
func (s *Store[T]) snapshot() []core.Entity {
	result := make([]core.Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

// === AnyStore ===

// Has checks if entity has this component
func (s *Store[T]) Has(e core.Entity) bool {
	s.acquireRead()
	defer s.releaseRead()
	return s.has(e)
}

// Len returns number of entities with this component
func (s *Store[T]) Len() int {
	s.acquireRead()
	defer s.releaseRead()
	return s.size()
}

// Entities returns a copy of all entities with this component type
func (s *Store[T]) Entities() []core.Entity {
	s.acquireRead()
	defer s.releaseRead()
	return s.snapshot()
}

// clear empties the table, caller holds the write borrow
func (s *Store[T]) clear() {
	s.index = make(map[core.Entity]int)
	clear(s.dense)
	s.dense = s.dense[:0]
	s.entities = s.entities[:0]
}
