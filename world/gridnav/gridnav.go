// Package gridnav is a world.Navigator over a flat walkable grid in the XZ
// plane, searched with A*.
package gridnav

import (
	"container/heap"
	"math"

	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/world"
)

// Walkable is the area every cell starts in.
const Walkable world.AreaMask = 1

type cell struct {
	x int
	z int
}

// Grid is a rectangle of square cells starting at Origin. Cell (x, z) covers
// [Origin.X+x*CellSize, Origin.X+(x+1)*CellSize) and likewise on Z. Every
// point on the surface has height Origin.Y.
type Grid struct {
	Origin   common.Vec3
	CellSize float64
	width    int
	depth    int
	// areas holds one mask per cell; zero is blocked.
	areas []world.AreaMask
}

func New(origin common.Vec3, cellSize float64, width, depth int) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	areas := make([]world.AreaMask, width*depth)
	for i := range areas {
		areas[i] = Walkable
	}
	return &Grid{Origin: origin, CellSize: cellSize, width: width, depth: depth, areas: areas}
}

func (g *Grid) Size() (width, depth int) {
	return g.width, g.depth
}

func (g *Grid) inBounds(c cell) bool {
	return c.x >= 0 && c.z >= 0 && c.x < g.width && c.z < g.depth
}

func (g *Grid) index(c cell) int {
	return c.z*g.width + c.x
}

func (g *Grid) cellOf(p common.Vec3) cell {
	return cell{
		x: int(math.Floor((p.X - g.Origin.X) / g.CellSize)),
		z: int(math.Floor((p.Z - g.Origin.Z) / g.CellSize)),
	}
}

func (g *Grid) center(c cell) common.Vec3 {
	half := g.CellSize * 0.5
	return common.Vec3{
		X: g.Origin.X + float64(c.x)*g.CellSize + half,
		Y: g.Origin.Y,
		Z: g.Origin.Z + float64(c.z)*g.CellSize + half,
	}
}

// SetArea assigns the area mask of a cell. Zero blocks it.
func (g *Grid) SetArea(x, z int, area world.AreaMask) {
	c := cell{x: x, z: z}
	if g.inBounds(c) {
		g.areas[g.index(c)] = area
	}
}

// Block marks every cell overlapped by the XZ footprint of [min, max].
func (g *Grid) Block(min, max common.Vec3) {
	lo := g.cellOf(min)
	hi := g.cellOf(common.Vec3{X: max.X - 0.001, Z: max.Z - 0.001})
	for z := lo.z; z <= hi.z; z++ {
		for x := lo.x; x <= hi.x; x++ {
			g.SetArea(x, z, 0)
		}
	}
}

func (g *Grid) passable(c cell, filter world.AreaMask) bool {
	return g.inBounds(c) && g.areas[g.index(c)]&filter != 0
}

// ComputePath returns from, the turning points of the cell path, and to.
func (g *Grid) ComputePath(from, to common.Vec3, filter world.AreaMask) ([]common.Vec3, bool) {
	start, goal := g.cellOf(from), g.cellOf(to)
	if !g.passable(start, filter) || !g.passable(goal, filter) {
		return nil, false
	}

	cells := g.astar(start, goal, filter)
	if len(cells) == 0 {
		return nil, false
	}

	from.Y, to.Y = g.Origin.Y, g.Origin.Y
	corners := []common.Vec3{from}
	for i := 1; i < len(cells)-1; i++ {
		in := cell{x: cells[i].x - cells[i-1].x, z: cells[i].z - cells[i-1].z}
		out := cell{x: cells[i+1].x - cells[i].x, z: cells[i+1].z - cells[i].z}
		if in != out {
			corners = append(corners, g.center(cells[i]))
		}
	}
	corners = append(corners, to)
	return corners, true
}

// SampleNearest projects p onto the surface, searching outward ring by ring
// for the closest walkable cell when p lies over a blocked one. Distances
// include the height of p above the grid plane, so a point more than
// maxDistance above or below the surface has no sample.
func (g *Grid) SampleNearest(p common.Vec3, maxDistance float64) (common.Vec3, bool) {
	if math.Abs(p.Y-g.Origin.Y) > maxDistance {
		return common.Vec3{}, false
	}

	origin := g.cellOf(p)
	if g.passable(origin, world.AllAreas) {
		p.Y = g.Origin.Y
		return p, true
	}

	maxSq := maxDistance * maxDistance
	rings := int(math.Ceil(maxDistance/g.CellSize)) + 1
	best, found := common.Vec3{}, false
	bestSq := math.Inf(1)
	for r := 1; r <= rings; r++ {
		for z := origin.z - r; z <= origin.z+r; z++ {
			for x := origin.x - r; x <= origin.x+r; x++ {
				if abs(x-origin.x) != r && abs(z-origin.z) != r {
					continue
				}
				c := cell{x: x, z: z}
				if !g.passable(c, world.AllAreas) {
					continue
				}
				candidate := g.center(c)
				if d := common.DistSq(candidate, p); d <= maxSq && d < bestSq {
					best, bestSq, found = candidate, d, true
				}
			}
		}
		if found {
			return best, true
		}
	}
	return common.Vec3{}, false
}

// Raycast walks the XZ segment in quarter-cell steps and reports whether it
// crosses a blocked or out-of-bounds cell.
func (g *Grid) Raycast(a, b common.Vec3) bool {
	d := b.Sub(a).Flat()
	steps := int(math.Ceil(d.Mag()/(g.CellSize*0.25))) + 1
	for i := 0; i <= steps; i++ {
		p := a.Add(d.Scale(float64(i) / float64(steps)))
		if !g.passable(g.cellOf(p), world.AllAreas) {
			return true
		}
	}
	return false
}

func (g *Grid) astar(start, goal cell, filter world.AreaMask) []cell {
	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, g.width*g.depth)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, g.width*g.depth)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	startIdx := g.index(start)
	goalIdx := g.index(goal)
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal)})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openItem).pos
		curIdx := g.index(cur)
		if curIdx == goalIdx {
			return g.reconstruct(cameFrom, startIdx, goalIdx)
		}

		for _, n := range g.neighbors(cur) {
			if !g.passable(n, filter) {
				continue
			}
			idx := g.index(n)
			tentative := gScore[curIdx] + 1
			if tentative < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentative
				heap.Push(open, &openItem{pos: n, f: tentative + heuristic(n, goal)})
			}
		}
	}
	return nil
}

func (g *Grid) reconstruct(cameFrom []int, startIdx, goalIdx int) []cell {
	path := make([]cell, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, cell{x: cur % g.width, z: cur / g.width})
		if cur == startIdx {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (g *Grid) neighbors(c cell) []cell {
	out := make([]cell, 0, 4)
	for _, d := range [4]cell{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		n := cell{x: c.x + d.x, z: c.z + d.z}
		if g.inBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

func heuristic(a, b cell) float64 {
	return float64(abs(a.x-b.x) + abs(a.z-b.z))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type openItem struct {
	pos   cell
	f     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
