package engine

import (
	"iter"

	"github.com/lixenwraith/gridcrawl/core"
)

// Column is a borrowed table that can take part in a join
// Implemented by *ReadStorage and *WriteStorage
type Column[T any] interface {
	column() *Store[T]
}

// Row2 is one join result over two tables
// Pointers from a ReadStorage must not be written through
type Row2[A, B any] struct {
	Entity core.Entity
	A      *A
	B      *B
}

// Row3 is one join result over three tables
type Row3[A, B, C any] struct {
	Entity core.Entity
	A      *A
	B      *B
	C      *C
}

// Join2 lazily yields entities present in both tables.
// Iteration is driven by the smaller table and filtered through the other,
// so the work is bounded by the rarest component. Order is unspecified
// but stable for a single pass; structural changes belong in the command queue.
//
// Example:
//
//	pos := engine.Read[component.PositionComponent](w)
//	defer pos.Release()
//	ren := engine.Read[component.RenderableComponent](w)
//	defer ren.Release()
//	for row := range engine.Join2(pos, ren) {
//	    surface.Set(row.A.X, row.A.Y, row.B.FG, row.B.BG, row.B.Glyph)
//	}
func Join2[A, B any](a Column[A], b Column[B]) iter.Seq[Row2[A, B]] {
	sa, sb := a.column(), b.column()
	return func(yield func(Row2[A, B]) bool) {
		for _, e := range smallest(sa, sb).snapshot() {
			pa := sa.ptr(e)
			if pa == nil {
				continue
			}
			pb := sb.ptr(e)
			if pb == nil {
				continue
			}
			if !yield(Row2[A, B]{Entity: e, A: pa, B: pb}) {
				return
			}
		}
	}
}

// Join3 lazily yields entities present in all three tables
func Join3[A, B, C any](a Column[A], b Column[B], c Column[C]) iter.Seq[Row3[A, B, C]] {
	sa, sb, sc := a.column(), b.column(), c.column()
	return func(yield func(Row3[A, B, C]) bool) {
		for _, e := range smallest(sa, sb, sc).snapshot() {
			pa := sa.ptr(e)
			if pa == nil {
				continue
			}
			pb := sb.ptr(e)
			if pb == nil {
				continue
			}
			pc := sc.ptr(e)
			if pc == nil {
				continue
			}
			if !yield(Row3[A, B, C]{Entity: e, A: pa, B: pb, C: pc}) {
				return
			}
		}
	}
}

// joinable is the type-erased slice of a store a join driver needs
type joinable interface {
	size() int
	snapshot() []core.Entity
}

// smallest picks the driving table, starting with the smallest store minimizes membership checks
func smallest(stores ...joinable) joinable {
	best := stores[0]
	for _, s := range stores[1:] {
		if s.size() < best.size() {
			best = s
		}
	}
	return best
}
