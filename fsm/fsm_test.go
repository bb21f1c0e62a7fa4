package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probeCtx struct {
	flag  bool
	value float64
	calls []string
}

func recordingState(name string) *State[*probeCtx] {
	return NewState(name, Hooks[*probeCtx]{
		Enter: func(c *probeCtx) { c.calls = append(c.calls, "enter:"+name) },
		Run:   func(c *probeCtx) { c.calls = append(c.calls, "run:"+name) },
		Exit:  func(c *probeCtx) { c.calls = append(c.calls, "exit:"+name) },
	})
}

func flagProbe(c *probeCtx) bool     { return c.flag }
func valueProbe(c *probeCtx) float64 { return c.value }

func TestRunnerStaysWithoutSatisfiedTransition(t *testing.T) {
	a := recordingState("a")
	b := recordingState("b")
	a.AddTransition(NewTransition(b, Is(flagProbe, true)))

	ctx := &probeCtx{}
	r := NewRunner[*probeCtx]()
	r.ChangeState(ctx, a)
	ctx.calls = nil

	for i := 0; i < 3; i++ {
		r.Run(ctx)
	}

	assert.Same(t, a, r.Current())
	assert.Equal(t, []string{"run:a", "run:a", "run:a"}, ctx.calls)
}

func TestRunnerChangeOrder(t *testing.T) {
	a := recordingState("a")
	b := recordingState("b")
	a.AddTransition(NewTransition(b, Is(flagProbe, true)))

	ctx := &probeCtx{}
	r := NewRunner[*probeCtx]()
	r.ChangeState(ctx, a)
	assert.Nil(t, r.Previous())

	ctx.calls = nil
	ctx.flag = true
	r.Run(ctx)

	assert.Equal(t, []string{"run:a", "exit:a", "enter:b"}, ctx.calls)
	assert.Same(t, b, r.Current())
	assert.Same(t, a, r.Previous())
}

func TestRunnerNoStateIsNoop(t *testing.T) {
	r := NewRunner[*probeCtx]()
	assert.NotPanics(t, func() { r.Run(&probeCtx{}) })
	assert.Nil(t, r.Current())
}

func TestRunnerNilStatePanics(t *testing.T) {
	r := NewRunner[*probeCtx]()
	assert.Panics(t, func() { r.ChangeState(&probeCtx{}, nil) })
}

func TestRunnerOnChange(t *testing.T) {
	a := recordingState("a")
	b := recordingState("b")
	var seen [][2]string
	r := NewRunner[*probeCtx]()
	r.OnChange = func(from, to *State[*probeCtx]) {
		seen = append(seen, [2]string{from.Name(), to.Name()})
	}
	ctx := &probeCtx{}
	r.ChangeState(ctx, a)
	r.ChangeState(ctx, b)
	assert.Equal(t, [][2]string{{"", "a"}, {"a", "b"}}, seen)
}

func TestNewTransitionValidation(t *testing.T) {
	a := recordingState("a")
	assert.Panics(t, func() { NewTransition[*probeCtx](nil, Is(flagProbe, true)) })
	assert.Panics(t, func() { NewTransition(a, Is[*probeCtx](nil, true)) })
	assert.Panics(t, func() { NewTransition(a, Compare(valueProbe, Op(99), 1)) })
	assert.Panics(t, func() { NewTransition(a, CompareEps(valueProbe, OpEqual, 1, 0)) })
	assert.Panics(t, func() { NewTransition(a, AnyOf(Is[*probeCtx](nil, true))) })
}

func TestFirstMatchWins(t *testing.T) {
	a := recordingState("a")
	b := recordingState("b")
	c := recordingState("c")
	a.AddTransition(NewTransition(b, Is(flagProbe, true)))
	a.AddTransition(NewTransition(c, Is(flagProbe, true)))

	assert.Same(t, b, a.Next(&probeCtx{flag: true}))
	assert.Same(t, a, a.Next(&probeCtx{flag: false}))

	a.RemoveTransitions(b)
	assert.Same(t, c, a.Next(&probeCtx{flag: true}))
	require.Len(t, a.Transitions(), 1)
}

func TestThresholdCondition(t *testing.T) {
	// threshold 2 is compared as 4
	cases := []struct {
		op    Op
		value float64
		want  bool
	}{
		{OpLess, 3.9, true},
		{OpLess, 4, false},
		{OpLessOrEqual, 4, true},
		{OpGreater, 4, false},
		{OpGreater, 4.1, true},
		{OpGreaterOrEqual, 4, true},
		{OpEqual, 4, true},
		{OpEqual, 4 + 0.9e-6, true},
		{OpEqual, 4 + 1.1e-6, false},
		{OpEqual, 2, false},
	}
	for _, c := range cases {
		t.Run(c.op.String(), func(t *testing.T) {
			cond := Compare(valueProbe, c.op, 2)
			assert.Equal(t, c.want, cond.Eval(&probeCtx{value: c.value}), "value=%v", c.value)
		})
	}
}

func TestEqualEpsilonIsStrict(t *testing.T) {
	cond := CompareEps(valueProbe, OpEqual, 2, 0.5)
	assert.True(t, cond.Eval(&probeCtx{value: 4.25}))
	assert.False(t, cond.Eval(&probeCtx{value: 4.5}), "a difference equal to epsilon is not equal")
	assert.False(t, cond.Eval(&probeCtx{value: 3.5}))
}

func TestAnyOfShortCircuits(t *testing.T) {
	evaluated := 0
	counting := func(result bool) Condition[*probeCtx] {
		return Is(func(*probeCtx) bool { evaluated++; return result }, true)
	}

	cond := AnyOf(counting(false), counting(true), counting(true))
	assert.True(t, cond.Eval(&probeCtx{}))
	assert.Equal(t, 2, evaluated)

	evaluated = 0
	assert.False(t, AnyOf(counting(false), counting(false)).Eval(&probeCtx{}))
	assert.Equal(t, 2, evaluated)

	assert.False(t, AnyOf[*probeCtx]().Eval(&probeCtx{}))
}

func TestBoolConditionExpectedFalse(t *testing.T) {
	cond := Is(flagProbe, false)
	assert.True(t, cond.Eval(&probeCtx{flag: false}))
	assert.False(t, cond.Eval(&probeCtx{flag: true}))
}

func TestParseOp(t *testing.T) {
	for in, want := range map[string]Op{"<": OpLess, "le": OpLessOrEqual, ">": OpGreater, ">=": OpGreaterOrEqual, "~": OpEqual} {
		got, err := ParseOp(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOp("!=")
	assert.Error(t, err)
}
