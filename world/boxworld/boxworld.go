// Package boxworld is an in-memory world.Spatial over axis-aligned boxes.
package boxworld

import (
	"math"

	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/world"
)

// Box is an axis-aligned collision volume.
type Box struct {
	Min, Max common.Vec3
	Layer    world.LayerMask
	Body     world.BodyID
	// Facing is reported by Forward; zero means +Z.
	Facing common.Vec3
}

// BoxAt builds a box from its center and half extents.
func BoxAt(center, half common.Vec3, layer world.LayerMask) *Box {
	return &Box{Min: center.Sub(half), Max: center.Add(half), Layer: layer}
}

func (b *Box) Owner() world.BodyID {
	return b.Body
}

func (b *Box) Forward() common.Vec3 {
	if b.Facing.NearZero() {
		return common.Forward
	}
	return b.Facing.Normalized()
}

func (b *Box) Center() common.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// MoveTo recenters the box without changing its size.
func (b *Box) MoveTo(center common.Vec3) {
	half := b.Max.Sub(b.Min).Scale(0.5)
	b.Min = center.Sub(half)
	b.Max = center.Add(half)
}

func (b *Box) ClosestPoint(p common.Vec3) common.Vec3 {
	return common.Vec3{
		X: common.Clamp(p.X, b.Min.X, b.Max.X),
		Y: common.Clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: common.Clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

func (b *Box) Contains(p common.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// World holds boxes. It is not safe for concurrent mutation.
type World struct {
	boxes []*Box
}

func New(boxes ...*Box) *World {
	return &World{boxes: boxes}
}

func (w *World) Add(b *Box) *Box {
	if b != nil {
		w.boxes = append(w.boxes, b)
	}
	return b
}

func (w *World) Remove(b *Box) {
	for i, existing := range w.boxes {
		if existing == b {
			w.boxes = append(w.boxes[:i], w.boxes[i+1:]...)
			return
		}
	}
}

func (w *World) Boxes() []*Box {
	return w.boxes
}

// Overlap returns boxes on mask that intersect the sphere, in insertion order.
func (w *World) Overlap(center common.Vec3, radius float64, mask world.LayerMask) []world.Volume {
	var out []world.Volume
	rSq := radius * radius
	for _, b := range w.boxes {
		if !mask.Has(b.Layer) {
			continue
		}
		if common.DistSq(b.ClosestPoint(center), center) <= rSq {
			out = append(out, b)
		}
	}
	return out
}

// Linecast returns the nearest box on mask crossed by the segment a→b. Boxes
// that contain a are ignored, so a cast from inside a body does not hit it.
func (w *World) Linecast(a, b common.Vec3, mask world.LayerMask) (world.Hit, bool) {
	d := b.Sub(a)
	if d.NearZero() {
		return world.Hit{}, false
	}

	closestT := math.Inf(1)
	var closest *Box
	for _, box := range w.boxes {
		if !mask.Has(box.Layer) || box.Contains(a) {
			continue
		}
		if t, ok := segmentBoxHit(a, d, box); ok && t < closestT {
			closestT = t
			closest = box
		}
	}
	if closest == nil {
		return world.Hit{}, false
	}
	return world.Hit{Point: a.Add(d.Scale(closestT)), Volume: closest}, true
}

// segmentBoxHit is the slab test for the segment a + d*t, t in [0,1].
func segmentBoxHit(a, d common.Vec3, box *Box) (float64, bool) {
	tmin, tmax := 0.0, 1.0
	axes := [3][4]float64{
		{a.X, d.X, box.Min.X, box.Max.X},
		{a.Y, d.Y, box.Min.Y, box.Max.Y},
		{a.Z, d.Z, box.Min.Z, box.Max.Z},
	}
	for _, ax := range axes {
		origin, dir, lo, hi := ax[0], ax[1], ax[2], ax[3]
		if dir == 0 {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}
		inv := 1.0 / dir
		t1 := (lo - origin) * inv
		t2 := (hi - origin) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmax < tmin {
			return 0, false
		}
	}
	return tmin, true
}
