package component

import (
	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/world/boxworld"
)

// Collider is the box volume that stands in for a character in spatial
// queries. Half is the box half extent; the box sits on the feet.
type Collider struct {
	Box  *boxworld.Box
	Half common.Vec3
}

var ColliderComponent = NewComponent[Collider]()
