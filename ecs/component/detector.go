package component

import "github.com/milk9111/agentmotor/world"

// Detector is a spherical trigger volume centered on the entity's eye.
// Inside is the set of bodies currently within Radius.
type Detector struct {
	Radius float64
	Inside map[world.BodyID]bool
}

var DetectorComponent = NewComponent[Detector]()
