package engine

import (
	"errors"
	"testing"

	"github.com/lixenwraith/gridcrawl/component"
)

// newTestWorld registers the component set used across engine tests
func newTestWorld() *World {
	w := NewWorld()
	Register[component.PositionComponent](w)
	Register[component.RenderableComponent](w)
	Register[component.PlayerComponent](w)
	return w
}

// expectPanic runs fn and returns the recovered value, failing the test if fn returns normally
func expectPanic(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatal("Expected panic, got none")
		}
	}()
	fn()
	return nil
}

// expectConfigError asserts fn panics with a *ConfigError wrapping target
func expectConfigError(t *testing.T, target error, fn func()) {
	t.Helper()
	r := expectPanic(t, fn)
	err, ok := r.(error)
	if !ok {
		t.Fatalf("Expected error panic, got %T: %v", r, r)
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigError, got %T: %v", err, err)
	}
	if !errors.Is(err, target) {
		t.Errorf("Expected %v, got %v", target, err)
	}
}
