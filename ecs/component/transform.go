package component

import "github.com/milk9111/agentmotor/common"

// Transform mirrors the motor's pose after each tick for drawing.
type Transform struct {
	Position common.Vec3
	Yaw      float64
}

var TransformComponent = NewComponent[Transform]()
