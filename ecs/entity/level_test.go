package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/agentmotor/ai"
	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/ecs"
	"github.com/milk9111/agentmotor/ecs/component"
	"github.com/milk9111/agentmotor/motor"
	"github.com/milk9111/agentmotor/prefabs"
)

const dt = 1.0 / 60.0

func v3(x, y, z float64) prefabs.YAMLVec3 {
	return prefabs.YAMLVec3{X: x, Y: y, Z: z}
}

// arena is a flat 40x40 floor with one guard patrolling along X and the
// player standing at playerPos.
func arena(playerPos prefabs.YAMLVec3, walls ...prefabs.BoxSpec) *prefabs.LevelSpec {
	return &prefabs.LevelSpec{
		Name:    "arena",
		Physics: prefabs.PhysicsBox,
		Nav:     prefabs.NavSpec{Origin: v3(-20, 0, -20), CellSize: 1, Width: 40, Depth: 40},
		Floors:  []prefabs.BoxSpec{{Center: v3(0, -0.5, 0), Half: v3(20, 0.5, 20)}},
		Walls:   walls,
		Player:  &prefabs.PlayerSpec{Position: playerPos, Faction: 1, Motor: "motor.yaml"},
		Agents: []prefabs.AgentSpawnSpec{{
			Prefab:   "agents/guard.yaml",
			Position: v3(-5, 0.5, 0.5),
			Patrol:   []prefabs.YAMLVec3{v3(-5, 0, 0.5), v3(5, 0, 0.5)},
		}},
	}
}

func run(l *Level, ticks int) {
	for i := 0; i < ticks; i++ {
		l.Tick(dt)
	}
}

func agentOf(t *testing.T, l *Level, e ecs.Entity) *ai.Agent {
	t.Helper()
	brain, ok := ecs.Get(l.World, e, component.BrainComponent.Kind())
	require.True(t, ok)
	return brain.Agent
}

func motorOf(t *testing.T, l *Level, e ecs.Entity) *motor.Motor {
	t.Helper()
	loco, ok := ecs.Get(l.World, e, component.LocomotionComponent.Kind())
	require.True(t, ok)
	return loco.Motor
}

func TestLoadSandbox(t *testing.T) {
	l, err := Load("levels/sandbox.yaml", Options{Seed: 1})
	require.NoError(t, err)

	assert.True(t, l.Player.Valid())
	assert.Len(t, l.Agents, 4)
	assert.Len(t, l.Statics, 6)
	assert.Len(t, l.defs, 4, "definitions are shared per file")
	assert.True(t, l.Nav.Raycast(common.V3(-8, 0, 0), common.V3(0, 0, 0)), "walls are cut out of the nav grid")

	run(l, 60)
	for _, e := range append([]ecs.Entity{l.Player}, l.Agents...) {
		assert.True(t, ecs.IsAlive(l.World, e))
	}
}

func TestLoadSideview(t *testing.T) {
	l, err := Load("levels/sideview.yaml", Options{})
	require.NoError(t, err)

	run(l, 120)

	m := motorOf(t, l, l.Player)
	assert.Equal(t, motor.Grounded, m.State())
	assert.InDelta(t, 0.0, m.Position().Y, 0.15)
}

func TestGuardPatrols(t *testing.T) {
	l, err := Build(arena(v3(0, 0.5, 18)), Options{})
	require.NoError(t, err)

	run(l, 240)

	guard := l.Agents[0]
	agent := agentOf(t, l, guard)
	m := motorOf(t, l, guard)
	assert.Equal(t, ai.StatePatrol, agent.StateName())
	assert.Equal(t, 1, agent.PatrolIndex())
	assert.Equal(t, motor.Grounded, m.State())
	assert.Greater(t, m.Position().X, -2.0, "walked toward the second waypoint")

	tr, ok := ecs.Get(l.World, guard, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, m.Position(), tr.Position)
}

func TestGuardChasesVisiblePlayer(t *testing.T) {
	l, err := Build(arena(v3(-1, 0.5, 0.5)), Options{})
	require.NoError(t, err)

	run(l, 30)

	agent := agentOf(t, l, l.Agents[0])
	require.NotNil(t, agent.Target())
	player, ok := ecs.Get(l.World, l.Player, component.ActorComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, player.ID, agent.Target().ID())
	assert.Equal(t, ai.StateChase, agent.StateName())
	assert.True(t, motorOf(t, l, l.Agents[0]).Intent().Sprint)
}

func TestWallBlocksSight(t *testing.T) {
	wall := prefabs.BoxSpec{Center: v3(-3, 1.5, 0.5), Half: v3(0.5, 1.5, 3)}
	l, err := Build(arena(v3(-1, 0.5, 0.5), wall), Options{})
	require.NoError(t, err)

	run(l, 10)

	agent := agentOf(t, l, l.Agents[0])
	assert.Nil(t, agent.Target())
	assert.Len(t, agent.Candidates(), 1, "player is inside the detector")
	assert.Equal(t, ai.StatePatrol, agent.StateName())
}

func TestPlayerInput(t *testing.T) {
	l, err := Build(arena(v3(0, 0.5, 12)), Options{})
	require.NoError(t, err)
	run(l, 30)

	in, ok := ecs.Get(l.World, l.Player, component.InputComponent.Kind())
	require.True(t, ok)
	m := motorOf(t, l, l.Player)
	start := m.Position()

	for i := 0; i < 60; i++ {
		in.AxisY = 1
		l.Tick(dt)
	}
	assert.Greater(t, m.Position().Z, start.Z+1, "forward at camera yaw 0 is +Z")

	in.ToggleFloating = true
	l.Tick(dt)
	assert.Equal(t, motor.Floating, m.State())
	assert.False(t, in.ToggleFloating, "toggle is consumed")
}

func TestUnknownAgentPrefab(t *testing.T) {
	spec := arena(v3(0, 0.5, 18))
	spec.Agents[0].Prefab = "agents/nobody.yaml"

	_, err := Build(spec, Options{})
	assert.ErrorContains(t, err, "agent 0")
}
