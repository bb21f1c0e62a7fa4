// Package world declares the services the behavior core consumes but does not
// implement: spatial queries against collision volumes and navigation over a
// walkable surface. Implementations live in subpackages.
package world

import "github.com/milk9111/agentmotor/common"

// LayerMask selects collision layers; bit i set means layer i participates.
type LayerMask uint32

const AllLayers LayerMask = ^LayerMask(0)

// Layer returns the mask with only layer i set.
func Layer(i uint) LayerMask {
	return LayerMask(1) << i
}

func (m LayerMask) Has(layer LayerMask) bool {
	return m&layer != 0
}

// AreaMask filters navigation areas for path queries.
type AreaMask uint32

const AllAreas AreaMask = ^AreaMask(0)

// BodyID identifies the owner of a collision volume. Zero is static geometry.
type BodyID uint64

const StaticBody BodyID = 0

// Volume is a collision volume returned by spatial queries.
type Volume interface {
	Owner() BodyID
	// ClosestPoint returns the point on or in the volume nearest to p.
	ClosestPoint(p common.Vec3) common.Vec3
	// Forward is the volume's facing direction, used as a ledge normal.
	Forward() common.Vec3
}

// Hit is the first blocking surface found by a line cast.
type Hit struct {
	Point  common.Vec3
	Volume Volume
}

// Spatial answers overlap and line queries against collision volumes.
type Spatial interface {
	Overlap(center common.Vec3, radius float64, mask LayerMask) []Volume
	Linecast(a, b common.Vec3, mask LayerMask) (Hit, bool)
}

// Navigator answers queries against the walkable surface.
type Navigator interface {
	// ComputePath returns corner points from from to to. The first corner may
	// coincide with from. ok is false when to is unreachable.
	ComputePath(from, to common.Vec3, filter AreaMask) (corners []common.Vec3, ok bool)
	// SampleNearest returns the closest surface point within maxDistance.
	SampleNearest(p common.Vec3, maxDistance float64) (common.Vec3, bool)
	// Raycast reports whether the straight line from a to b along the surface
	// is obstructed.
	Raycast(a, b common.Vec3) bool
}

// Body is anything that can be perceived: it has a position, an eye point
// for line-of-sight tests, and a faction.
type Body interface {
	ID() BodyID
	Faction() int
	Position() common.Vec3
	Eye() common.Vec3
}
