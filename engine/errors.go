package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRegistered reports access to a component table that was never registered
	ErrNotRegistered = errors.New("component type not registered")

	// ErrResourceMissing reports a fetch of a resource type with no inserted value
	ErrResourceMissing = errors.New("resource not found")
)

// ConfigError is raised (via panic) for wiring mistakes that must abort initialization
type ConfigError struct {
	Type string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("engine config: %s: %v", e.Type, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// BorrowKind is the access mode a storage view holds on its table
type BorrowKind uint8

const (
	BorrowRead BorrowKind = iota
	BorrowWrite
)

func (k BorrowKind) String() string {
	if k == BorrowWrite {
		return "write"
	}
	return "read"
}

// BorrowError is raised (via panic) when a view conflicts with one already held
// Either many readers or a single writer may hold a table, never both
type BorrowError struct {
	Type string
	Want BorrowKind
	Held BorrowKind
}

func (e *BorrowError) Error() string {
	return fmt.Sprintf("engine borrow: %s: %s access requested while %s access is held", e.Type, e.Want, e.Held)
}
