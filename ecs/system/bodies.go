// Package system holds the per-tick systems of the sandbox world. They run
// in the order trigger, AI, motor.
package system

import (
	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/ecs"
	"github.com/milk9111/agentmotor/ecs/component"
	"github.com/milk9111/agentmotor/world"
)

// actorBody exposes an entity to perception. It reads the motor on every
// call, so it stays current for the life of the entity.
type actorBody struct {
	actor *component.Actor
	loco  *component.Locomotion
}

func (b actorBody) ID() world.BodyID {
	return b.actor.ID
}

func (b actorBody) Faction() int {
	return b.actor.Faction
}

func (b actorBody) Position() common.Vec3 {
	return b.loco.Motor.Position()
}

func (b actorBody) Eye() common.Vec3 {
	return b.Position().Add(common.V3(0, b.actor.EyeHeight, 0))
}

// BodyOf returns the perceivable body of e, which needs both an Actor and a
// Locomotion component.
func BodyOf(w *ecs.World, e ecs.Entity) (world.Body, bool) {
	actor, ok := ecs.Get(w, e, component.ActorComponent.Kind())
	if !ok {
		return nil, false
	}
	loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if !ok || loco.Motor == nil {
		return nil, false
	}
	return actorBody{actor: actor, loco: loco}, true
}
