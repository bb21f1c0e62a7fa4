package ai

import (
	"math"

	"github.com/milk9111/agentmotor/common"
)

type (
	BoolProbe   func(ctx *Context) bool
	ScalarProbe func(ctx *Context) float64
)

var boolProbes = map[string]BoolProbe{
	"always":              func(*Context) bool { return true },
	"has_target":          func(ctx *Context) bool { return ctx.Agent.target != nil },
	"destination_reached": func(ctx *Context) bool { return ctx.Agent.path.Reached() },
	"at_home": func(ctx *Context) bool {
		a := ctx.Agent
		thr := a.cfg.WaypointThreshold
		return common.DistSq(a.self.Position(), a.home) < thr*thr
	},
	"hanging":             func(ctx *Context) bool { return ctx.Agent.motor.Hanging },
	"grounded":            func(ctx *Context) bool { return ctx.Agent.motor.Grounded },
	"in_attack_range": func(ctx *Context) bool {
		a := ctx.Agent
		return a.targetDistanceSq() < a.cfg.AttackThreshold*a.cfg.AttackThreshold
	},
}

// Scalar probes return squared distances; +Inf when there is nothing to
// measure.
var scalarProbes = map[string]ScalarProbe{
	"target_distance_sq":   func(ctx *Context) float64 { return ctx.Agent.targetDistanceSq() },
	"waypoint_distance_sq": func(ctx *Context) float64 { return ctx.Agent.waypointDistanceSq() },
}

func (a *Agent) targetDistanceSq() float64 {
	if a.target == nil {
		return math.Inf(1)
	}
	return common.DistSq(a.self.Position(), a.target.Position())
}

func (a *Agent) waypointDistanceSq() float64 {
	return common.DistSq(a.self.Position(), a.cfg.Patrol[a.patrolIndex])
}
