package common

import "math"

const (
	Rad2Deg = 180 / math.Pi
	Deg2Rad = math.Pi / 180

	// zeroEpsilonSq matches the tolerance used when comparing small input
	// vectors against zero.
	zeroEpsilonSq = 1e-10
)

// Vec3 is a float64 3D vector. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
)

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) MagSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Mag() float64 {
	return math.Sqrt(v.MagSq())
}

// Normalized returns the unit vector in v's direction, or zero for a zero
// vector.
func (v Vec3) Normalized() Vec3 {
	mag := v.Mag()
	if mag == 0 {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// NearZero reports whether v is zero within a tiny tolerance.
func (v Vec3) NearZero() bool {
	return v.MagSq() < zeroEpsilonSq
}

// ClampMag limits the magnitude of v to max.
func (v Vec3) ClampMag(max float64) Vec3 {
	magSq := v.MagSq()
	if magSq <= max*max || magSq == 0 {
		return v
	}
	return v.Scale(max / math.Sqrt(magSq))
}

func DistSq(a, b Vec3) float64 {
	return a.Sub(b).MagSq()
}

func Lerp(a, b, t float64) float64 {
	return a + Clamp01(t)*(b-a)
}

func Clamp01(t float64) float64 {
	return Clamp(t, 0, 1)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round3 rounds to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Approximately compares two floats with a relative tolerance that falls back
// to eps for values near zero.
func Approximately(a, b, eps float64) bool {
	return math.Abs(b-a) < math.Max(1e-6*math.Max(math.Abs(a), math.Abs(b)), eps)
}

// DeltaAngle returns the shortest signed difference between two angles in
// degrees.
func DeltaAngle(current, target float64) float64 {
	delta := math.Mod(target-current, 360)
	if delta < 0 {
		delta += 360
	}
	if delta > 180 {
		delta -= 360
	}
	return delta
}

// SmoothDamp moves current toward target with a critically damped spring.
// velocity carries state between calls.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	originalTo := target
	target = current - change

	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * exp
	output := target + (change+temp)*exp

	// do not overshoot
	if (originalTo-current > 0) == (output > originalTo) {
		output = originalTo
		*velocity = (output - originalTo) / dt
	}
	return output
}

// SmoothDampAngle is SmoothDamp for angles in degrees, taking the short way
// around.
func SmoothDampAngle(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	target = current + DeltaAngle(current, target)
	return SmoothDamp(current, target, velocity, smoothTime, dt)
}

// YawDirection returns the horizontal unit vector for a yaw in degrees,
// where 0 faces +Z and 90 faces +X.
func YawDirection(yaw float64) Vec3 {
	rad := yaw * Deg2Rad
	return Vec3{X: math.Sin(rad), Z: math.Cos(rad)}
}

// YawOf is the inverse of YawDirection for a horizontal vector.
func YawOf(v Vec3) float64 {
	return math.Atan2(v.X, v.Z) * Rad2Deg
}
