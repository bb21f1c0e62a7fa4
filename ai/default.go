package ai

import "github.com/milk9111/agentmotor/fsm"

// State names used by the built-in definitions.
const (
	StatePatrol = "patrol"
	StateChase  = "chase"
	StateAttack = "attack"
)

// DefaultDefinition builds the navigation-driven patrol/chase graph without
// going through YAML.
//
//	patrol --has_target--> chase
//	chase  --!has_target--> patrol
func DefaultDefinition() *Definition {
	patrol := fsm.NewState(StatePatrol, fsm.Hooks[*Context]{
		Enter: func(ctx *Context) {
			ctx.Agent.requestPatrolPath()
			ctx.Agent.sprint = false
		},
		Run: func(ctx *Context) {
			ctx.Agent.advancePatrol()
		},
	})
	chase := fsm.NewState(StateChase, fsm.Hooks[*Context]{
		Enter: func(ctx *Context) {
			ctx.Agent.path.Reset()
			ctx.Agent.sprint = true
		},
		Run: func(ctx *Context) {
			ctx.Agent.chase(ctx.DT)
		},
	})

	hasTarget := boolProbes["has_target"]
	patrol.AddTransition(fsm.NewTransition(chase, fsm.Is[*Context](hasTarget, true)))
	chase.AddTransition(fsm.NewTransition(patrol, fsm.Is[*Context](hasTarget, false)))

	return &Definition{
		Initial: patrol,
		States: map[string]*fsm.State[*Context]{
			StatePatrol: patrol,
			StateChase:  chase,
		},
	}
}
