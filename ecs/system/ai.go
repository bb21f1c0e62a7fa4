package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/agentmotor/ecs"
	"github.com/milk9111/agentmotor/ecs/component"
)

// AISystem forwards trigger events to agents, feeds them the motor status
// from the previous tick, and hands their intent to the motor.
type AISystem struct {
	logger *zap.Logger
}

func NewAISystem(logger *zap.Logger) *AISystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AISystem{logger: logger}
}

func (s *AISystem) Update(w *ecs.World, dt float64) {
	events := ecs.Events(w)
	for _, evt := range events.Drain(ecs.EventTriggerEnter) {
		s.dispatch(w, evt, true)
	}
	for _, evt := range events.Drain(ecs.EventTriggerExit) {
		s.dispatch(w, evt, false)
	}

	ecs.ForEach2(w, component.BrainComponent.Kind(), component.LocomotionComponent.Kind(), func(e ecs.Entity, brain *component.Brain, loco *component.Locomotion) {
		if brain.Agent == nil || loco.Motor == nil {
			return
		}
		status := loco.Motor.Status()
		brain.Agent.ObserveMotor(status)

		intent := brain.Agent.Tick(dt)
		if status.Hanging {
			intent.Sprint = false
		}
		loco.Motor.SetIntent(intent)
	})
}

func (s *AISystem) dispatch(w *ecs.World, evt ecs.Event, enter bool) {
	trig, ok := evt.Data.(ecs.TriggerEvent)
	if !ok {
		s.logger.Warn("ai: malformed trigger event", zap.String("type", evt.Type))
		return
	}
	brain, ok := ecs.Get(w, trig.Detector, component.BrainComponent.Kind())
	if !ok || brain.Agent == nil {
		return
	}
	other, ok := BodyOf(w, trig.Other)
	if !ok {
		if !enter {
			brain.Agent.Forget(trig.OtherBody)
		}
		return
	}
	if enter {
		brain.Agent.OnTriggerEnter(other)
	} else {
		brain.Agent.OnTriggerExit(other)
	}
}
