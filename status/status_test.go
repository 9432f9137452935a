package status

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

func TestCounterReturnsCachedPointer(t *testing.T) {
	r := NewRegistry()
	a := r.Counter(KeyTicks)
	b := r.Counter(KeyTicks)
	if a != b {
		t.Fatal("Expected the same pointer for repeated Counter")
	}
	a.Add(3)
	if b.Load() != 3 {
		t.Errorf("Expected 3, got %d", b.Load())
	}
	if !r.Has(KeyTicks) || r.Has(KeyRejected) {
		t.Error("Has reports wrong membership")
	}
}

func TestKindsAreSeparateNamespaces(t *testing.T) {
	r := NewRegistry()
	r.Counter(KeyAudioMuted).Store(7)
	r.Flag(KeyAudioMuted).Store(true)
	if r.TotalCount() != 2 {
		t.Errorf("Expected 2 metrics, got %d", r.TotalCount())
	}
	if r.Counter(KeyAudioMuted).Load() != 7 {
		t.Error("Flag write clobbered the counter")
	}
}

func TestCounterConcurrentLookup(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Counter(KeyCommitted).Add(1)
			}
		}()
	}
	wg.Wait()
	if got := r.Counter(KeyCommitted).Load(); got != 1600 {
		t.Errorf("Expected 1600, got %d", got)
	}
	if r.TotalCount() != 1 {
		t.Errorf("Expected 1 metric, got %d", r.TotalCount())
	}
}

func TestRegistrySnapshotAndLines(t *testing.T) {
	r := NewRegistry()
	r.Counter(KeyRejected).Store(2)
	r.Counter(KeyCommitted).Store(5)
	r.Flag(KeyAudioMuted).Store(true)
	r.Gauge(KeyTickMillis).Set(1.5)
	r.Text(KeyBackend).Store("terminal")

	snap := r.Snapshot()
	if len(snap) != 5 || r.TotalCount() != 5 {
		t.Fatalf("Expected 5 metrics, got %d", len(snap))
	}
	if snap[KeyBackend] != "terminal" || snap[KeyAudioMuted] != true || snap[KeyTickMillis] != 1.5 {
		t.Errorf("Unexpected snapshot %v", snap)
	}

	lines := r.Lines()
	want := []string{"movement.committed=5", "movement.rejected=2"}
	if len(lines) != len(want) {
		t.Fatalf("Expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestFloatAndLabel(t *testing.T) {
	var f Float
	f.Set(1.25)
	if got := f.Add(0.75); got != 2 {
		t.Errorf("Expected 2, got %v", got)
	}

	var l Label
	if l.Load() != "" {
		t.Error("Zero label must be empty")
	}
	l.Store("a-label-that-is-definitely-too-long")
	if len(l.Load()) != MaxLabelLen {
		t.Errorf("Expected truncation to %d, got %q", MaxLabelLen, l.Load())
	}
}

func TestLabelTruncatesOnRuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii fits", "terminal", "terminal"},
		{"two-byte runes", strings.Repeat("é", 15), strings.Repeat("é", 10)},
		{"three-byte runes", strings.Repeat("☺", 10), strings.Repeat("☺", 6)},
		{"split after ascii", "abcdefghijklmnopqrs☺", "abcdefghijklmnopqrs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Label
			l.Store(tt.in)
			got := l.Load()
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if !utf8.ValidString(got) || len(got) > MaxLabelLen {
				t.Errorf("Invalid truncation %q", got)
			}
		})
	}
}
