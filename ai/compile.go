package ai

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/agentmotor/fsm"
)

type RawFSM struct {
	Initial     string                     `yaml:"initial"`
	States      map[string]RawState        `yaml:"states"`
	Transitions map[string][]RawTransition `yaml:"transitions"`
}

// RawState lists actions as single-key maps, e.g. {sprint: true}.
type RawState struct {
	OnEnter []map[string]any `yaml:"on_enter"`
	While   []map[string]any `yaml:"while"`
	OnExit  []map[string]any `yaml:"on_exit"`
}

type RawTransition struct {
	To   string       `yaml:"to"`
	When RawCondition `yaml:"when"`
}

// RawCondition is exactly one of a probe check, an any-of list, or a script.
// A probe with op or threshold is a scalar comparison against threshold².
type RawCondition struct {
	Probe     string         `yaml:"probe"`
	Expect    *bool          `yaml:"expect"`
	Op        string         `yaml:"op"`
	Threshold *float64       `yaml:"threshold"`
	Epsilon   float64        `yaml:"epsilon"`
	Any       []RawCondition `yaml:"any"`
	Script    string         `yaml:"script"`
}

// Definition is a compiled state graph. Its states hold no per-agent data,
// so one Definition is shared by every agent that runs it.
type Definition struct {
	Initial *fsm.State[*Context]
	States  map[string]*fsm.State[*Context]
}

func (d *Definition) State(name string) *fsm.State[*Context] {
	return d.States[name]
}

// ParseFSM decodes YAML and compiles it.
func ParseFSM(data []byte) (*Definition, error) {
	var raw RawFSM
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fsm: decode: %w", err)
	}
	return CompileFSM(raw)
}

func CompileFSM(raw RawFSM) (*Definition, error) {
	if raw.Initial == "" {
		return nil, fmt.Errorf("fsm: missing initial state")
	}

	names := make([]string, 0, len(raw.States))
	for name := range raw.States {
		names = append(names, name)
	}
	sort.Strings(names)

	states := make(map[string]*fsm.State[*Context], len(names))
	for _, name := range names {
		s := raw.States[name]
		onEnter, err := buildActions(s.OnEnter)
		if err != nil {
			return nil, fmt.Errorf("fsm: state %s on_enter: %w", name, err)
		}
		while, err := buildActions(s.While)
		if err != nil {
			return nil, fmt.Errorf("fsm: state %s while: %w", name, err)
		}
		onExit, err := buildActions(s.OnExit)
		if err != nil {
			return nil, fmt.Errorf("fsm: state %s on_exit: %w", name, err)
		}
		states[name] = fsm.NewState(name, fsm.Hooks[*Context]{
			Enter: onEnter,
			Run:   while,
			Exit:  onExit,
		})
	}

	initial, ok := states[raw.Initial]
	if !ok {
		return nil, fmt.Errorf("fsm: initial state %q is not defined", raw.Initial)
	}

	froms := make([]string, 0, len(raw.Transitions))
	for from := range raw.Transitions {
		froms = append(froms, from)
	}
	sort.Strings(froms)

	for _, from := range froms {
		src, ok := states[from]
		if !ok {
			return nil, fmt.Errorf("fsm: transitions from undefined state %q", from)
		}
		for i, rt := range raw.Transitions[from] {
			if rt.To == "" {
				return nil, fmt.Errorf("fsm: missing to state for transition %s[%d]", from, i)
			}
			dst, ok := states[rt.To]
			if !ok {
				return nil, fmt.Errorf("fsm: transition %s[%d] targets undefined state %q", from, i, rt.To)
			}
			when, err := compileCondition(rt.When)
			if err != nil {
				return nil, fmt.Errorf("fsm: transition %s[%d]: %w", from, i, err)
			}
			src.AddTransition(fsm.NewTransition(dst, when))
		}
	}

	return &Definition{Initial: initial, States: states}, nil
}

// buildActions returns nil for an empty list so the hook is skipped.
func buildActions(list []map[string]any) (func(*Context), error) {
	if len(list) == 0 {
		return nil, nil
	}
	actions := make([]Action, 0, len(list))
	for _, entry := range list {
		if len(entry) != 1 {
			return nil, fmt.Errorf("action entry must have exactly one key, got %d", len(entry))
		}
		for name, arg := range entry {
			maker, ok := actionRegistry[name]
			if !ok {
				return nil, fmt.Errorf("unknown action %q", name)
			}
			action, err := maker(arg)
			if err != nil {
				return nil, fmt.Errorf("action %s: %w", name, err)
			}
			actions = append(actions, action)
		}
	}
	return func(ctx *Context) {
		for _, action := range actions {
			action(ctx)
		}
	}, nil
}

func compileCondition(rc RawCondition) (fsm.Condition[*Context], error) {
	var zero fsm.Condition[*Context]

	kinds := 0
	for _, set := range []bool{rc.Probe != "", len(rc.Any) > 0, rc.Script != ""} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return zero, fmt.Errorf("condition needs exactly one of probe, any or script")
	}

	var cond fsm.Condition[*Context]
	switch {
	case len(rc.Any) > 0:
		children := make([]fsm.Condition[*Context], 0, len(rc.Any))
		for i, child := range rc.Any {
			c, err := compileCondition(child)
			if err != nil {
				return zero, fmt.Errorf("any[%d]: %w", i, err)
			}
			children = append(children, c)
		}
		cond = fsm.AnyOf(children...)

	case rc.Script != "":
		sc, err := compileScript(rc.Script)
		if err != nil {
			return zero, err
		}
		cond = fsm.Is[*Context](sc.eval, true)

	case rc.Op != "" || rc.Threshold != nil:
		probe, ok := scalarProbes[rc.Probe]
		if !ok {
			return zero, fmt.Errorf("unknown scalar probe %q", rc.Probe)
		}
		if rc.Threshold == nil {
			return zero, fmt.Errorf("probe %s: missing threshold", rc.Probe)
		}
		op, err := fsm.ParseOp(rc.Op)
		if err != nil {
			return zero, fmt.Errorf("probe %s: %w", rc.Probe, err)
		}
		eps := rc.Epsilon
		if eps == 0 {
			eps = fsm.DefaultEpsilon
		}
		cond = fsm.CompareEps[*Context](probe, op, *rc.Threshold, eps)

	default:
		probe, ok := boolProbes[rc.Probe]
		if !ok {
			return zero, fmt.Errorf("unknown probe %q", rc.Probe)
		}
		expect := true
		if rc.Expect != nil {
			expect = *rc.Expect
		}
		cond = fsm.Is[*Context](probe, expect)
	}

	if err := cond.Validate(); err != nil {
		return zero, err
	}
	return cond, nil
}
