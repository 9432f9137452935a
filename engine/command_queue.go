package engine

import (
	"sync"

	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/gridcrawl/core"
)

// CommandKind tags the variant of a deferred structural mutation
type CommandKind uint8

const (
	CmdCreateEntity CommandKind = iota
	CmdDestroyEntity
	CmdAddComponent
	CmdRemoveComponent
)

func (k CommandKind) String() string {
	switch k {
	case CmdCreateEntity:
		return "create"
	case CmdDestroyEntity:
		return "destroy"
	case CmdAddComponent:
		return "add"
	case CmdRemoveComponent:
		return "remove"
	default:
		return "unknown"
	}
}

// Command is a buffered structural mutation applied by World.Maintain
type Command interface {
	Kind() CommandKind
	Target() core.Entity
	apply(w *World)
}

// CommandQueue buffers structural changes requested during a tick
// Joins running in the same tick never observe them; Maintain applies them in submission order
type CommandQueue struct {
	mu      sync.Mutex
	world   *World
	pending []Command
}

func newCommandQueue(w *World) *CommandQueue {
	return &CommandQueue{
		world:   w,
		pending: make([]Command, 0, 16),
	}
}

// CreateEntity starts a deferred builder
// Build reserves the id immediately so later commands can target it
func (q *CommandQueue) CreateEntity() *EntityBuilder {
	return &EntityBuilder{world: q.world, queue: q}
}

// DestroyEntity queues removal of an entity and all its components
func (q *CommandQueue) DestroyEntity(e core.Entity) {
	q.push(&destroyEntityCommand{entity: e})
}

// AddComponent queues attaching (or overwriting) a component
// Panics with *ConfigError if T is unregistered
func AddComponent[T any](q *CommandQueue, e core.Entity, val T) {
	q.push(&addComponentCommand[T]{entity: e, store: GetStore[T](q.world), value: val})
}

// RemoveComponent queues detaching a component
// Panics with *ConfigError if T is unregistered
func RemoveComponent[T any](q *CommandQueue, e core.Entity) {
	q.push(&removeComponentCommand[T]{entity: e, store: GetStore[T](q.world)})
}

// Len returns the number of buffered commands
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Discard drops every buffered command and returns how many were dropped
func (q *CommandQueue) Discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.pending)
	clear(q.pending)
	q.pending = q.pending[:0]
	return n
}

func (q *CommandQueue) push(c Command) {
	q.mu.Lock()
	q.pending = append(q.pending, c)
	q.mu.Unlock()
}

// drain swaps out the buffer; commands queued while applying land in the next Maintain
func (q *CommandQueue) drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	cmds := q.pending
	q.pending = make([]Command, 0, cap(cmds))
	return cmds
}

// MaintainResult summarizes one Maintain pass
type MaintainResult struct {
	Applied int
	Dropped int
}

// Maintain applies all buffered commands in submission order.
// Commands targeting an entity destroyed earlier in the same buffer, or one
// that is not alive, are dropped silently. Every table is write-borrowed for
// the duration, so a view leaked by a system fails here instead of corrupting a join.
func (w *World) Maintain() MaintainResult {
	var res MaintainResult

	cmds := w.commands.drain()
	if len(cmds) == 0 {
		return res
	}

	w.mu.RLock()
	stores := w.order
	w.mu.RUnlock()

	release := lockStores(stores)
	defer release()

	destroyed := mapset.New[core.Entity]()
	for _, c := range cmds {
		e := c.Target()
		if destroyed.Has(e) {
			res.Dropped++
			continue
		}
		if c.Kind() != CmdCreateEntity && !w.IsAlive(e) {
			res.Dropped++
			continue
		}

		c.apply(w)
		if c.Kind() == CmdDestroyEntity {
			destroyed.Put(e)
		}
		res.Applied++
	}
	return res
}

// === Variants ===

type createEntityCommand struct {
	entity      core.Entity
	attachments []attachment
}

func (c *createEntityCommand) Kind() CommandKind   { return CmdCreateEntity }
func (c *createEntityCommand) Target() core.Entity { return c.entity }

func (c *createEntityCommand) apply(w *World) {
	w.spawnLocked(c.entity, c.attachments)
}

type destroyEntityCommand struct {
	entity core.Entity
}

func (c *destroyEntityCommand) Kind() CommandKind   { return CmdDestroyEntity }
func (c *destroyEntityCommand) Target() core.Entity { return c.entity }

func (c *destroyEntityCommand) apply(w *World) {
	w.destroyLocked(c.entity)
}

type addComponentCommand[T any] struct {
	entity core.Entity
	store  *Store[T]
	value  T
}

func (c *addComponentCommand[T]) Kind() CommandKind   { return CmdAddComponent }
func (c *addComponentCommand[T]) Target() core.Entity { return c.entity }

func (c *addComponentCommand[T]) apply(_ *World) {
	c.store.set(c.entity, c.value)
}

type removeComponentCommand[T any] struct {
	entity core.Entity
	store  *Store[T]
}

func (c *removeComponentCommand[T]) Kind() CommandKind   { return CmdRemoveComponent }
func (c *removeComponentCommand[T]) Target() core.Entity { return c.entity }

func (c *removeComponentCommand[T]) apply(_ *World) {
	c.store.remove(c.entity)
}
