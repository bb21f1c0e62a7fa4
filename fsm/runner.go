package fsm

// Runner drives one state machine instance. It holds references to states it
// does not own; each agent builds its own Runner.
type Runner[C any] struct {
	current  *State[C]
	previous *State[C]

	// OnChange, if set, is called after exit(from) and before enter(to).
	OnChange func(from, to *State[C])
}

// NewRunner returns a runner with no current state. The first ChangeState
// enters the initial state.
func NewRunner[C any]() *Runner[C] {
	return &Runner[C]{}
}

func (r *Runner[C]) Current() *State[C] {
	return r.current
}

func (r *Runner[C]) Previous() *State[C] {
	return r.previous
}

// ChangeState exits the current state, swaps, and enters next. A nil next is
// a configuration bug and panics.
func (r *Runner[C]) ChangeState(ctx C, next *State[C]) {
	if r.current != nil {
		r.current.exit(ctx)
	}

	r.previous = r.current
	r.current = next
	if next == nil {
		panic("fsm: changed to nil state, agent would be stuck")
	}

	if r.OnChange != nil {
		r.OnChange(r.previous, next)
	}
	next.enter(ctx)
}

// Run executes the current state and then takes at most one transition.
func (r *Runner[C]) Run(ctx C) {
	if r.current == nil {
		return
	}

	r.current.run(ctx)

	next := r.current.Next(ctx)
	if next != r.current {
		r.ChangeState(ctx, next)
	}
}
