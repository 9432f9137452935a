package status

import (
	"math"
	"sync/atomic"
	"unicode/utf8"
)

// Float is an atomic float64 stored as its bit pattern, zero value reads 0.0
type Float struct {
	bits atomic.Uint64
}

func (f *Float) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

func (f *Float) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add applies delta with a CAS loop and returns the new value
func (f *Float) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// MaxLabelLen bounds stored labels so the overlay line stays short
const MaxLabelLen = 20

// Label is an atomic short string, zero value reads ""
type Label struct {
	ptr atomic.Pointer[string]
}

// Store sets the label, truncated to at most MaxLabelLen bytes on a rune boundary
func (l *Label) Store(val string) {
	if len(val) > MaxLabelLen {
		cut := MaxLabelLen
		for cut > 0 && !utf8.RuneStart(val[cut]) {
			cut--
		}
		val = val[:cut]
	}
	l.ptr.Store(&val)
}

func (l *Label) Load() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
