package component

import "github.com/milk9111/agentmotor/world"

// Actor is the perceivable identity of a character.
type Actor struct {
	ID        world.BodyID
	Faction   int
	EyeHeight float64
}

var ActorComponent = NewComponent[Actor]()
