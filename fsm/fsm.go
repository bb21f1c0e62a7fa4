// Package fsm is a generic finite-state-machine runtime. C is the context
// handed to every hook and probe, so states never hold a reference to the
// thing that owns them.
package fsm

import "fmt"

// Hooks are the side-effecting callbacks of a state. Any of them may be nil.
type Hooks[C any] struct {
	Enter func(ctx C)
	Run   func(ctx C)
	Exit  func(ctx C)
}

// State is a named behavior unit with ordered outgoing transitions.
type State[C any] struct {
	name        string
	hooks       Hooks[C]
	transitions []Transition[C]
}

// NewState returns a state with no transitions.
func NewState[C any](name string, hooks Hooks[C]) *State[C] {
	return &State[C]{name: name, hooks: hooks}
}

// Name returns the state's name, or "" for a nil state.
func (s *State[C]) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

func (s *State[C]) String() string {
	return s.Name()
}

// AddTransition appends t; transitions are evaluated in registration order.
func (s *State[C]) AddTransition(t Transition[C]) {
	s.transitions = append(s.transitions, t)
}

// RemoveTransitions drops every transition that targets target.
func (s *State[C]) RemoveTransitions(target *State[C]) {
	kept := s.transitions[:0]
	for _, t := range s.transitions {
		if t.target != target {
			kept = append(kept, t)
		}
	}
	s.transitions = kept
}

// Transitions returns the outgoing transitions in evaluation order. The
// slice is shared with the state and must not be modified.
func (s *State[C]) Transitions() []Transition[C] {
	return s.transitions
}

// Next returns the target of the first transition whose condition holds, or
// s itself when none do.
func (s *State[C]) Next(ctx C) *State[C] {
	for _, t := range s.transitions {
		if t.when.Eval(ctx) {
			return t.target
		}
	}
	return s
}

func (s *State[C]) enter(ctx C) {
	if s.hooks.Enter != nil {
		s.hooks.Enter(ctx)
	}
}

func (s *State[C]) run(ctx C) {
	if s.hooks.Run != nil {
		s.hooks.Run(ctx)
	}
}

func (s *State[C]) exit(ctx C) {
	if s.hooks.Exit != nil {
		s.hooks.Exit(ctx)
	}
}

// Transition pairs a condition with the state it leads to.
type Transition[C any] struct {
	target *State[C]
	when   Condition[C]
}

// NewTransition panics when target is nil: every reachable transition must
// lead somewhere.
func NewTransition[C any](target *State[C], when Condition[C]) Transition[C] {
	if target == nil {
		panic("fsm: transition with nil target state")
	}
	if err := when.Validate(); err != nil {
		panic(fmt.Sprintf("fsm: transition to %q: %v", target.name, err))
	}
	return Transition[C]{target: target, when: when}
}

// Target is the state the transition leads to. It is never nil.
func (t Transition[C]) Target() *State[C] {
	return t.target
}

// When is the condition that fires the transition.
func (t Transition[C]) When() Condition[C] {
	return t.when
}
