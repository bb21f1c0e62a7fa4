// Package steering computes velocity-correction forces. Every function is
// pure; randomness comes from the caller.
package steering

import (
	"math"
	"math/rand/v2"

	"github.com/milk9111/agentmotor/common"
)

// Seek returns the force that turns vel into a velocity of maxSpeed toward
// target.
func Seek(pos, target, vel common.Vec3, maxSpeed float64) common.Vec3 {
	desired := target.Sub(pos).Normalized().Scale(maxSpeed)
	return desired.Sub(vel)
}

// Flee is Seek with the direction inverted.
func Flee(pos, threat, vel common.Vec3, maxSpeed float64) common.Vec3 {
	desired := pos.Sub(threat).Normalized().Scale(maxSpeed)
	return desired.Sub(vel)
}

// Wander seeks toward a jittered point on a sphere of radius around the
// position projected along the current velocity.
func Wander(pos common.Vec3, radius, jitter float64, vel common.Vec3, maxSpeed float64, rng *rand.Rand) common.Vec3 {
	spherePoint := onUnitSphere(rng).Scale(radius)
	jitterOffset := common.V3(rng.Float64(), rng.Float64(), rng.Float64()).Normalized().Scale(jitter)

	spherePoint = spherePoint.Add(jitterOffset).Normalized().Scale(radius)

	return Seek(pos, pos.Add(vel).Add(spherePoint), vel, maxSpeed)
}

// onUnitSphere samples a uniformly distributed unit vector.
func onUnitSphere(rng *rand.Rand) common.Vec3 {
	z := rng.Float64()*2 - 1
	theta := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return common.V3(r*math.Cos(theta), r*math.Sin(theta), z)
}
