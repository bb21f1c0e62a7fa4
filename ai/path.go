package ai

import (
	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/steering"
	"github.com/milk9111/agentmotor/world"
)

// PathFollower walks a cursor along the corners of the last computed path.
type PathFollower struct {
	// Threshold is the distance at which a corner counts as reached.
	Threshold float64

	corners []common.Vec3
	cursor  int
	reached bool
}

func NewPathFollower(threshold float64) *PathFollower {
	return &PathFollower{Threshold: threshold, cursor: -1}
}

// SetDestination requests a path from from to to. On failure the cursor is
// left at none and false is returned. A first corner already within
// Threshold of from is skipped.
func (p *PathFollower) SetDestination(nav world.Navigator, from, to common.Vec3, filter world.AreaMask) bool {
	p.cursor = -1
	p.reached = false

	corners, ok := nav.ComputePath(from, to, filter)
	if !ok || len(corners) == 0 {
		p.corners = nil
		return false
	}
	p.corners = corners
	p.cursor = 0

	if common.DistSq(p.corners[0], from) < p.Threshold*p.Threshold {
		p.cursor++
		p.reached = p.cursor >= len(p.corners)
	}
	return true
}

// Reset drops the cursor but keeps the path, so Destination still reports
// its endpoint.
func (p *PathFollower) Reset() {
	p.cursor = -1
}

func (p *PathFollower) Active() bool {
	return p.cursor >= 0 && p.cursor < len(p.corners)
}

// Cursor is the index of the corner being walked to, or -1 for none.
func (p *PathFollower) Cursor() int {
	return p.cursor
}

func (p *PathFollower) Corners() []common.Vec3 {
	return p.corners
}

func (p *PathFollower) Reached() bool {
	return p.reached
}

// Target returns the corner under the cursor.
func (p *PathFollower) Target() (common.Vec3, bool) {
	if !p.Active() {
		return common.Vec3{}, false
	}
	return p.corners[p.cursor], true
}

// Destination is the last corner of the current path, or zero without one.
func (p *PathFollower) Destination() common.Vec3 {
	if len(p.corners) == 0 {
		return common.Vec3{}
	}
	return p.corners[len(p.corners)-1]
}

// Follow points wish at the cursor's corner, blends in a seek force of the
// given strength scaled by dt, and advances the cursor once the corner is
// within Threshold.
func (p *PathFollower) Follow(pos common.Vec3, wish *common.Vec3, strength, dt float64) {
	target, ok := p.Target()
	if !ok {
		return
	}

	offset := target.Sub(pos)
	*wish = offset.Normalized()

	force := steering.Seek(pos, target, *wish, 1)
	force.Y = 0
	*wish = wish.Add(force.Normalized().Scale(strength * dt)).Normalized()

	if offset.MagSq() < p.Threshold*p.Threshold {
		p.cursor++
		p.reached = p.cursor >= len(p.corners)
	}
}
