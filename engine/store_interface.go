package engine

import "github.com/lixenwraith/gridcrawl/core"

// AnyStore provides type-erased operations for lifecycle management
// This interface allows World to manage all stores uniformly
// for operations like entity destruction without knowing the concrete type
type AnyStore interface {
	// Name returns the component type name
	Name() string

	// Has checks if an entity has this component
	Has(e core.Entity) bool

	// Len returns the number of entities with this component
	Len() int

	// Entities returns all entities that have this component type
	Entities() []core.Entity

	tryAcquireWrite() bool
	releaseWrite()
	heldKind() BorrowKind
	remove(e core.Entity) bool
	clear()
}
