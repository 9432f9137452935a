package engine

import (
	"errors"
	"testing"

	"github.com/lixenwraith/gridcrawl/component"
)

func TestReadUnregisteredFailsFast(t *testing.T) {
	w := NewWorld()
	expectConfigError(t, ErrNotRegistered, func() {
		Read[component.PositionComponent](w)
	})
	expectConfigError(t, ErrNotRegistered, func() {
		Write[component.PositionComponent](w)
	})
}

func TestRegisterIsIdempotent(t *testing.T) {
	w := newTestWorld()
	e := With(w.CreateEntity(), component.PositionComponent{X: 3, Y: 4}).Build()

	Register[component.PositionComponent](w)

	pos := Read[component.PositionComponent](w)
	defer pos.Release()
	if !pos.Has(e) {
		t.Error("Expected re-registration to keep existing table")
	}
}

func TestBorrowArbitration(t *testing.T) {
	tests := []struct {
		name  string
		first func(w *World) func()
		then  func(w *World)
		want  BorrowKind
	}{
		{
			name: "write while reading",
			first: func(w *World) func() {
				r := Read[component.PositionComponent](w)
				return r.Release
			},
			then: func(w *World) { Write[component.PositionComponent](w) },
			want: BorrowRead,
		},
		{
			name: "read while writing",
			first: func(w *World) func() {
				ws := Write[component.PositionComponent](w)
				return ws.Release
			},
			then: func(w *World) { Read[component.PositionComponent](w) },
			want: BorrowWrite,
		},
		{
			name: "second writer",
			first: func(w *World) func() {
				ws := Write[component.PositionComponent](w)
				return ws.Release
			},
			then: func(w *World) { Write[component.PositionComponent](w) },
			want: BorrowWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld()
			release := tt.first(w)
			defer release()

			r := expectPanic(t, func() { tt.then(w) })
			var borrowErr *BorrowError
			if err, ok := r.(error); !ok || !errors.As(err, &borrowErr) {
				t.Fatalf("Expected *BorrowError, got %T: %v", r, r)
			}
			if borrowErr.Held != tt.want {
				t.Errorf("Expected held %s, got %s", tt.want, borrowErr.Held)
			}
		})
	}
}

func TestManyReadersCoexist(t *testing.T) {
	w := newTestWorld()

	readers := make([]*ReadStorage[component.PositionComponent], 0, 8)
	for i := 0; i < 8; i++ {
		readers = append(readers, Read[component.PositionComponent](w))
	}
	for _, r := range readers {
		r.Release()
	}

	// All readers gone, a writer may now borrow
	ws := Write[component.PositionComponent](w)
	ws.Release()
}

func TestReleaseIsIdempotent(t *testing.T) {
	w := newTestWorld()

	r := Read[component.PositionComponent](w)
	r.Release()
	r.Release()

	ws := Write[component.PositionComponent](w)
	ws.Release()
	ws.Release()

	// A double release must not leave a phantom borrow behind
	r2 := Read[component.PositionComponent](w)
	r2.Release()
}

func TestViewAfterReleasePanics(t *testing.T) {
	w := newTestWorld()
	r := Read[component.PositionComponent](w)
	r.Release()

	expectPanic(t, func() { r.Len() })
}

func TestWriteStorageMutation(t *testing.T) {
	w := newTestWorld()
	e := With(w.CreateEntity(), component.PositionComponent{X: 1, Y: 1}).Build()

	ws := Write[component.PositionComponent](w)
	ws.GetMut(e).X = 9
	if ws.GetMut(12345) != nil {
		t.Error("Expected nil pointer for absent entity")
	}
	if ws.Insert(12345, component.PositionComponent{}) {
		t.Error("Expected Insert on dead entity to be refused")
	}
	ws.Release()

	pos := Read[component.PositionComponent](w)
	defer pos.Release()
	if p, _ := pos.Get(e); p.X != 9 {
		t.Errorf("Expected X=9 after GetMut, got %d", p.X)
	}
}

func TestStoreSwapRemoveKeepsIndex(t *testing.T) {
	w := newTestWorld()

	var ids [4]uint64
	for i := range ids {
		ids[i] = uint64(With(w.CreateEntity(), component.PositionComponent{X: i, Y: i}).Build())
	}

	ws := Write[component.PositionComponent](w)
	if !ws.Remove(ws.Entities()[0]) {
		t.Fatal("Expected remove to succeed")
	}
	if ws.Len() != 3 {
		t.Fatalf("Expected 3 remaining, got %d", ws.Len())
	}
	// Every remaining entity still maps to its own value
	for _, e := range ws.Entities() {
		p, ok := ws.Get(e)
		if !ok || uint64(e) != ids[p.X] {
			t.Errorf("Entity %d resolved to wrong slot %+v", e, p)
		}
	}
	ws.Release()
}
