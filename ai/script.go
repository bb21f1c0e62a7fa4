package ai

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"
)

const scriptResult = "__result"

// scriptCondition is a boolean probe written as a tengo expression over the
// agent's facts. The compiled program is a template shared by every agent
// using the definition; each agent runs its own clone.
type scriptCondition struct {
	expr     string
	compiled *tengo.Compiled
}

// scriptRun is one agent's copy of a script condition.
type scriptRun struct {
	compiled *tengo.Compiled
	warned   bool
}

func compileScript(expr string) (*scriptCondition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty script")
	}

	script := tengo.NewScript([]byte(scriptResult + " := (" + expr + ")"))
	for name, zero := range zeroFacts() {
		if err := script.Add(name, zero); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %q: %w", expr, err)
	}
	return &scriptCondition{expr: expr, compiled: compiled}, nil
}

// eval runs the expression on the agent's clone. Runtime errors, including
// panics raised inside the VM, evaluate to false and are logged once per
// agent.
func (s *scriptCondition) eval(ctx *Context) (ok bool) {
	a := ctx.Agent
	run := a.scriptRun(s)
	defer func() {
		if r := recover(); r != nil {
			run.warn(a, s.expr, fmt.Errorf("panic: %v", r))
			ok = false
		}
	}()

	for name, value := range a.facts() {
		if err := run.compiled.Set(name, value); err != nil {
			run.warn(a, s.expr, err)
			return false
		}
	}
	if err := run.compiled.Run(); err != nil {
		run.warn(a, s.expr, err)
		return false
	}
	return run.compiled.Get(scriptResult).Bool()
}

func (a *Agent) scriptRun(s *scriptCondition) *scriptRun {
	run, ok := a.scripts[s]
	if !ok {
		if a.scripts == nil {
			a.scripts = make(map[*scriptCondition]*scriptRun)
		}
		run = &scriptRun{compiled: s.compiled.Clone()}
		a.scripts[s] = run
	}
	return run
}

func (r *scriptRun) warn(a *Agent, expr string, err error) {
	if r.warned {
		return
	}
	r.warned = true
	a.logger.Warn("ai: script condition failed", zap.String("script", expr), zap.Error(err))
}

// facts are the variables visible to script conditions.
func (a *Agent) facts() map[string]any {
	return map[string]any{
		"has_target":           a.target != nil,
		"target_distance_sq":   a.targetDistanceSq(),
		"waypoint_distance_sq": a.waypointDistanceSq(),
		"hanging":              a.motor.Hanging,
		"grounded":             a.motor.Grounded,
		"destination_reached":  a.path.Reached(),
		"patrol_index":         a.patrolIndex,
	}
}

func zeroFacts() map[string]any {
	return map[string]any{
		"has_target":           false,
		"target_distance_sq":   0.0,
		"waypoint_distance_sq": 0.0,
		"hanging":              false,
		"grounded":             false,
		"destination_reached":  false,
		"patrol_index":         0,
	}
}
