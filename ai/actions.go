package ai

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/steering"
)

// Context is passed to every state hook, action and probe. It is owned by the
// agent and reused every tick.
type Context struct {
	Agent *Agent
	DT    float64
}

type Action func(ctx *Context)

// ActionMaker builds an action from its YAML argument.
type ActionMaker func(arg any) (Action, error)

var actionRegistry = map[string]ActionMaker{
	"request_patrol_path": func(_ any) (Action, error) {
		return func(ctx *Context) { ctx.Agent.requestPatrolPath() }, nil
	},
	"advance_patrol": func(_ any) (Action, error) {
		return func(ctx *Context) { ctx.Agent.advancePatrol() }, nil
	},
	"return_home": func(_ any) (Action, error) {
		return func(ctx *Context) { ctx.Agent.returnHome() }, nil
	},
	"reset_path": func(_ any) (Action, error) {
		return func(ctx *Context) { ctx.Agent.path.Reset() }, nil
	},
	"reset_patrol_index": func(_ any) (Action, error) {
		return func(ctx *Context) { ctx.Agent.patrolIndex = 0 }, nil
	},
	"sprint": func(arg any) (Action, error) {
		on, ok := arg.(bool)
		if !ok {
			return nil, fmt.Errorf("sprint wants a bool, got %T", arg)
		}
		return func(ctx *Context) { ctx.Agent.sprint = on }, nil
	},
	"chase_target": func(_ any) (Action, error) {
		return func(ctx *Context) { ctx.Agent.chase(ctx.DT) }, nil
	},
	"steer_patrol": func(_ any) (Action, error) {
		return func(ctx *Context) { ctx.Agent.steerPatrol() }, nil
	},
	"steer_target": func(_ any) (Action, error) {
		return func(ctx *Context) {
			a := ctx.Agent
			if a.target == nil {
				return
			}
			a.wish = a.target.Position().Sub(a.self.Position()).Normalized()
		}, nil
	},
	"hold_position": func(_ any) (Action, error) {
		return func(ctx *Context) { ctx.Agent.wish = common.Vec3{} }, nil
	},
	"wander": func(arg any) (Action, error) {
		radius, jitter := 1.0, 0.5
		if m, ok := arg.(map[string]any); ok {
			if v, ok := m["radius"]; ok {
				radius = asFloat(v)
			}
			if v, ok := m["jitter"]; ok {
				jitter = asFloat(v)
			}
		} else if arg != nil {
			return nil, fmt.Errorf("wander wants {radius, jitter}, got %T", arg)
		}
		return func(ctx *Context) {
			a := ctx.Agent
			force := steering.Wander(a.self.Position(), radius, jitter, a.wish, 1, a.rng)
			a.blend(force, a.cfg.PatrolStrength, ctx.DT)
		}, nil
	},
	"flee_target": func(_ any) (Action, error) {
		return func(ctx *Context) {
			a := ctx.Agent
			if a.target == nil {
				return
			}
			force := steering.Flee(a.self.Position(), a.target.Position(), a.wish, 1)
			a.blend(force, a.cfg.ChaseStrength, ctx.DT)
		}, nil
	},
	"log": func(arg any) (Action, error) {
		msg := fmt.Sprint(arg)
		return func(ctx *Context) {
			a := ctx.Agent
			a.logger.Info(msg, zap.String("state", a.StateName()))
		}, nil
	},
}

// RegisterAction adds or replaces a named action for CompileFSM. It is not
// safe to call concurrently with compilation.
func RegisterAction(name string, maker ActionMaker) {
	actionRegistry[name] = maker
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		return 0
	}
}
