package ecs

import "github.com/milk9111/agentmotor/ecs/component"

// Add attaches value to e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	w.store(kind.ID()).Set(e, value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	s, ok := w.stores[kind.ID()]
	if !ok {
		return nil, false
	}
	v, ok := s.Get(e).(*T)
	return v, ok
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s, ok := w.stores[kind.ID()]
	return ok && s.Has(e)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s, ok := w.stores[kind.ID()]
	return ok && s.Remove(e)
}

// snapshot copies the dense entity list so fn may add or remove components.
func snapshot(w *World, id component.ComponentID) []Entity {
	s, ok := w.stores[id]
	if !ok {
		return nil
	}
	return append([]Entity(nil), s.Entities()...)
}

// ForEach visits every entity with kind in insertion order.
func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	for _, e := range snapshot(w, ka.ID()) {
		a, ok := Get(w, e, ka)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range snapshot(w, ka.ID()) {
		a, ok := Get(w, e, ka)
		if !ok {
			continue
		}
		b, ok := Get(w, e, kb)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range snapshot(w, ka.ID()) {
		a, ok := Get(w, e, ka)
		if !ok {
			continue
		}
		b, ok := Get(w, e, kb)
		if !ok {
			continue
		}
		c, ok := Get(w, e, kc)
		if !ok {
			continue
		}
		fn(e, a, b, c)
	}
}

// First returns the first entity that has kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, *T, bool) {
	s, ok := w.stores[kind.ID()]
	if !ok || s.Len() == 0 {
		return 0, nil, false
	}
	e := s.Entities()[0]
	v, ok := s.Get(e).(*T)
	return e, v, ok
}
