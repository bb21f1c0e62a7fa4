// Package cpworld backs world.Spatial with a chipmunk space for side-view
// levels. Geometry lives in the XY plane and extends infinitely along Z.
package cpworld

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/world"
)

// Shape is a static chipmunk shape exposed as a world.Volume.
type Shape struct {
	shape  *cp.Shape
	owner  world.BodyID
	facing common.Vec3
}

func (s *Shape) Owner() world.BodyID {
	return s.owner
}

func (s *Shape) Forward() common.Vec3 {
	if s.facing.NearZero() {
		return common.Forward
	}
	return s.facing.Normalized()
}

// ClosestPoint projects p onto the shape in XY and keeps its depth.
func (s *Shape) ClosestPoint(p common.Vec3) common.Vec3 {
	info := s.shape.PointQuery(cp.Vector{X: p.X, Y: p.Y})
	if info.Distance <= 0 {
		return p
	}
	return common.Vec3{X: info.Point.X, Y: info.Point.Y, Z: p.Z}
}

// World wraps a cp.Space. Only static geometry is indexed.
type World struct {
	space  *cp.Space
	shapes map[*cp.Shape]*Shape
}

func New() *World {
	return &World{
		space:  cp.NewSpace(),
		shapes: make(map[*cp.Shape]*Shape),
	}
}

func (w *World) Space() *cp.Space {
	return w.space
}

// AddBox adds a static box spanning [minX, maxX] x [minY, maxY].
func (w *World) AddBox(minX, minY, maxX, maxY float64, layer world.LayerMask, owner world.BodyID, facing common.Vec3) *Shape {
	bb := cp.BB{L: minX, B: minY, R: maxX, T: maxY}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFilter(cp.ShapeFilter{
		Group:      cp.NO_GROUP,
		Categories: uint(layer),
		Mask:       cp.ALL_CATEGORIES,
	})
	w.space.AddShape(shape)

	s := &Shape{shape: shape, owner: owner, facing: facing}
	w.shapes[shape] = s
	return s
}

func (w *World) Remove(s *Shape) {
	if s == nil {
		return
	}
	w.space.RemoveShape(s.shape)
	delete(w.shapes, s.shape)
}

func queryFilter(mask world.LayerMask) cp.ShapeFilter {
	return cp.ShapeFilter{
		Group:      cp.NO_GROUP,
		Categories: cp.ALL_CATEGORIES,
		Mask:       uint(mask),
	}
}

// Overlap treats the sphere as a circle in XY: a bounding-box query on the
// space, narrowed by each shape's signed distance to the center.
func (w *World) Overlap(center common.Vec3, radius float64, mask world.LayerMask) []world.Volume {
	c := cp.Vector{X: center.X, Y: center.Y}
	var out []world.Volume
	w.space.BBQuery(cp.NewBBForCircle(c, radius), queryFilter(mask), func(shape *cp.Shape, _ interface{}) {
		if shape.PointQuery(c).Distance > radius {
			return
		}
		if s, ok := w.shapes[shape]; ok {
			out = append(out, s)
		}
	}, nil)
	return out
}

// Linecast interpolates the Z of the hit along the segment.
func (w *World) Linecast(a, b common.Vec3, mask world.LayerMask) (world.Hit, bool) {
	info := w.space.SegmentQueryFirst(cp.Vector{X: a.X, Y: a.Y}, cp.Vector{X: b.X, Y: b.Y}, 0, queryFilter(mask))
	if info.Shape == nil {
		return world.Hit{}, false
	}
	s, ok := w.shapes[info.Shape]
	if !ok {
		return world.Hit{}, false
	}
	z := a.Z + (b.Z-a.Z)*info.Alpha
	return world.Hit{Point: common.Vec3{X: info.Point.X, Y: info.Point.Y, Z: z}, Volume: s}, true
}
