// Package ecs is the entity host for the sandbox: entities are generational
// handles, components live in per-kind sparse sets, and systems run in a
// fixed order once per tick.
package ecs

import (
	"github.com/milk9111/agentmotor/ecs/component"
)

// World owns entities, their components and the per-tick event queue. It is
// driven from a single goroutine.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

func (w *World) store(id component.ComponentID) *SparseSet {
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes e and all of its components. It returns false for a
// dead or stale handle.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities lists every alive entity.
func Entities(w *World) []Entity {
	return w.entities.live()
}

func Events(w *World) *EventQueue {
	return &w.events
}
