package component

import "github.com/milk9111/agentmotor/motor"

// Locomotion holds a character's movement state machine and the last
// presentation signals it emitted.
type Locomotion struct {
	Motor   *motor.Motor
	Signals motor.Signals
}

var LocomotionComponent = NewComponent[Locomotion]()
