package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/agentmotor/ecs/component"
)

func TestSparseWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			require.Len(t, Entities(w), c.create)
			if c.destroyIndex >= 0 {
				require.True(t, DestroyEntity(w, ents[c.destroyIndex]))
				assert.False(t, IsAlive(w, ents[c.destroyIndex]))
				assert.False(t, DestroyEntity(w, ents[c.destroyIndex]), "second destroy is a no-op")
				assert.Len(t, Entities(w), c.create-1)
			}
		})
	}
}

func TestRecycledSlotRejectsStaleHandle(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	require.NoError(t, Add(w, old, h.Kind(), intPtr(1)))
	require.True(t, DestroyEntity(w, old))

	fresh := CreateEntity(w)
	assert.Equal(t, old.id(), fresh.id(), "slot is reused")
	assert.NotEqual(t, old, fresh)
	assert.False(t, Has(w, fresh, h.Kind()), "components do not survive destroy")

	assert.ErrorIs(t, Add(w, old, h.Kind(), intPtr(2)), component.ErrEntityNotAlive)
	require.NoError(t, Add(w, fresh, h.Kind(), intPtr(3)))
	_, ok := Get(w, old, h.Kind())
	assert.False(t, ok)
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	var zero component.ComponentKind[int]
	assert.ErrorIs(t, Add(w, e, zero, intPtr(1)), component.ErrInvalidComponentKind)
	assert.ErrorIs(t, Add(w, e, component.NewComponentKind[int](), nil), component.ErrNilComponent)
}

func TestSparseWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				require.True(t, ok)
				assert.Equal(t, 10, *v)
				assert.False(t, Has(w, e2, h1.Kind()))
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				assert.True(t, Has(w, e1, h2.Kind()))
				assert.True(t, Has(w, e2, h2.Kind()))
				first, v, ok := First(w, h2.Kind())
				require.True(t, ok)
				assert.Equal(t, e1, first)
				assert.Equal(t, "a", *v)
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.setup())
			tc.check(t)
			require.True(t, tc.teardown())
		})
	}

	assert.True(t, Has(w, e2, h2.Kind()), "removal swapped e2 into place")
	v, ok := Get(w, e2, h2.Kind())
	require.True(t, ok)
	assert.Equal(t, "b", *v)
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()
	kc := component.NewComponentKind[float64]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	require.NoError(t, Add(w, e1, ka, intPtr(1)))
	require.NoError(t, Add(w, e3, ka, intPtr(3)))
	require.NoError(t, Add(w, e2, kb, stringPtr("x")))
	require.NoError(t, Add(w, e3, kb, stringPtr("y")))
	require.NoError(t, Add(w, e3, kc, float64Ptr(0.5)))

	var one []Entity
	ForEach(w, ka, func(e Entity, v *int) {
		one = append(one, e)
		*v *= 10
	})
	assert.Equal(t, []Entity{e1, e3}, one)
	v, _ := Get(w, e3, ka)
	assert.Equal(t, 30, *v, "ForEach hands out the stored pointer")

	var two []Entity
	ForEach2(w, ka, kb, func(e Entity, _ *int, _ *string) { two = append(two, e) })
	assert.Equal(t, []Entity{e3}, two)

	var three []Entity
	ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *string, _ *float64) { three = append(three, e) })
	assert.Equal(t, []Entity{e3}, three)
}

func TestForEachAllowsRemovalDuringIteration(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	for i := 0; i < 4; i++ {
		require.NoError(t, Add(w, CreateEntity(w), k, intPtr(i)))
	}

	visited := 0
	ForEach(w, k, func(e Entity, _ *int) {
		visited++
		DestroyEntity(w, e)
	})
	assert.Equal(t, 4, visited)
	assert.Empty(t, Entities(w))
}

func TestSchedulerOrderAndEventLifetime(t *testing.T) {
	w := NewWorld()
	var order []string
	var seen int

	s := NewScheduler(
		SystemFunc(func(w *World, dt float64) {
			order = append(order, "produce")
			Events(w).Push(Event{Type: EventTriggerEnter, Data: TriggerEvent{}})
			Events(w).Push(Event{Type: "other"})
		}),
		nil,
		SystemFunc(func(w *World, dt float64) {
			order = append(order, "consume")
			seen += len(Events(w).Drain(EventTriggerEnter))
			assert.Equal(t, 1, Events(w).Len(), "undrained types stay queued")
		}),
	)
	assert.Len(t, s.Systems(), 2, "nil systems are skipped")

	s.Update(w, 0.1)
	s.Update(w, 0.1)

	assert.Equal(t, []string{"produce", "consume", "produce", "consume"}, order)
	assert.Equal(t, 2, seen)
	assert.Zero(t, Events(w).Len(), "events are flushed after each tick")
}

func TestEntityString(t *testing.T) {
	e := makeEntity(7, 2)
	assert.Equal(t, "7v2", e.String())
	assert.True(t, e.Valid())
	assert.False(t, Entity(0).Valid())
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}
