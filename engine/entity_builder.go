package engine

import "github.com/lixenwraith/gridcrawl/core"

// attachment defers a typed store write until the entity id is known
type attachment struct {
	store AnyStore
	apply func(e core.Entity)
}

// EntityBuilder provides a fluent, type-safe interface for constructing entities with components.
// Components accumulate in the builder and are committed to the world together by Build().
// A builder obtained from CommandQueue.CreateEntity commits at the next Maintain instead.
//
// Example usage:
//
//	e := engine.With(
//	    engine.With(world.CreateEntity(), component.PositionComponent{X: 40, Y: 25}),
//	    component.PlayerComponent{},
//	).Build()
type EntityBuilder struct {
	world       *World
	queue       *CommandQueue // nil for immediate builders
	attachments []attachment
	entity      core.Entity
	built       bool
}

// With adds a component of type T to the entity being built.
// The table for T is resolved immediately so a missing registration fails here,
// not halfway through Build. A second With of the same type overwrites the first.
//
// Panics if called after Build() or if T is not registered.
func With[T any](eb *EntityBuilder, component T) *EntityBuilder {
	if eb.built {
		panic("entity already built - cannot add components after Build()")
	}
	store := GetStore[T](eb.world)
	eb.attachments = append(eb.attachments, attachment{
		store: store,
		apply: func(e core.Entity) { store.set(e, component) },
	})
	return eb
}

// Build finalizes entity construction and returns the entity ID.
// Immediate builders make the entity and all its components visible at once.
// Deferred builders reserve the ID now; the entity becomes visible at the next Maintain.
func (eb *EntityBuilder) Build() core.Entity {
	if eb.built {
		return eb.entity
	}
	eb.built = true
	eb.entity = eb.world.reserveEntity()

	if eb.queue != nil {
		eb.queue.push(&createEntityCommand{entity: eb.entity, attachments: eb.attachments})
		return eb.entity
	}

	eb.world.spawn(eb.entity, eb.attachments)
	return eb.entity
}
