package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/ecs"
	"github.com/milk9111/agentmotor/ecs/component"
	"github.com/milk9111/agentmotor/world"
)

// TriggerSystem turns detector spheres into enter/exit events. A body is
// inside when its feet are within Radius of the detector's eye.
type TriggerSystem struct {
	logger *zap.Logger
	// owners remembers the entity behind each body so a vanished body can
	// still be named in its exit event.
	owners map[world.BodyID]ecs.Entity
}

func NewTriggerSystem(logger *zap.Logger) *TriggerSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriggerSystem{logger: logger, owners: make(map[world.BodyID]ecs.Entity)}
}

type trackedBody struct {
	entity ecs.Entity
	body   world.Body
}

func (s *TriggerSystem) Update(w *ecs.World, _ float64) {
	var bodies []trackedBody
	live := make(map[world.BodyID]bool)
	ecs.ForEach(w, component.ActorComponent.Kind(), func(e ecs.Entity, _ *component.Actor) {
		if b, ok := BodyOf(w, e); ok {
			bodies = append(bodies, trackedBody{entity: e, body: b})
			live[b.ID()] = true
			s.owners[b.ID()] = e
		}
	})

	events := ecs.Events(w)
	ecs.ForEach(w, component.DetectorComponent.Kind(), func(e ecs.Entity, det *component.Detector) {
		self, ok := BodyOf(w, e)
		if !ok {
			return
		}
		if det.Inside == nil {
			det.Inside = make(map[world.BodyID]bool)
		}

		center := self.Eye()
		r2 := det.Radius * det.Radius
		seen := make(map[world.BodyID]bool, len(bodies))
		for _, other := range bodies {
			id := other.body.ID()
			if id == self.ID() {
				continue
			}
			seen[id] = true

			inside := common.DistSq(center, other.body.Position()) <= r2
			switch {
			case inside && !det.Inside[id]:
				det.Inside[id] = true
				events.Push(ecs.Event{Type: ecs.EventTriggerEnter, Data: ecs.TriggerEvent{Detector: e, Other: other.entity, OtherBody: id}})
				s.logger.Debug("trigger enter", zap.Stringer("detector", e), zap.Stringer("other", other.entity))
			case !inside && det.Inside[id]:
				delete(det.Inside, id)
				events.Push(ecs.Event{Type: ecs.EventTriggerExit, Data: ecs.TriggerEvent{Detector: e, Other: other.entity, OtherBody: id}})
				s.logger.Debug("trigger exit", zap.Stringer("detector", e), zap.Stringer("other", other.entity))
			}
		}

		// Bodies that vanished without leaving still get an exit.
		for id := range det.Inside {
			if seen[id] {
				continue
			}
			delete(det.Inside, id)
			events.Push(ecs.Event{Type: ecs.EventTriggerExit, Data: ecs.TriggerEvent{Detector: e, Other: s.owners[id], OtherBody: id}})
			s.logger.Debug("trigger exit, body vanished", zap.Stringer("detector", e), zap.Uint64("body", uint64(id)))
		}
	})

	for id := range s.owners {
		if !live[id] {
			delete(s.owners, id)
		}
	}
}
