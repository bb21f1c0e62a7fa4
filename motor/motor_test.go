package motor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/world"
	"github.com/milk9111/agentmotor/world/boxworld"
)

const dt = 1.0 / 60.0

func flatGround() *boxworld.World {
	return boxworld.New(boxworld.BoxAt(common.V3(0, -0.5, 0), common.V3(50, 0.5, 50), world.Layer(0)))
}

func newMotor(spatial world.Spatial, pos common.Vec3) *Motor {
	return New(Config{Settings: DefaultSettings(), Spatial: spatial, Position: pos})
}

func tickUntil(t *testing.T, m *Motor, max int, done func() bool) int {
	t.Helper()
	for i := 1; i <= max; i++ {
		m.Tick(dt)
		if done() {
			return i
		}
	}
	t.Fatalf("condition not reached after %d ticks (state=%s, pos=%v, vy=%v)", max, m.State(), m.Position(), m.VerticalVelocity())
	return 0
}

// settle drops a motor onto flat ground and waits out the jump timeout.
func settle(t *testing.T, pos common.Vec3) *Motor {
	t.Helper()
	m := newMotor(flatGround(), pos)
	tickUntil(t, m, 300, func() bool { return m.State() == Grounded })
	for i := 0; i < 40; i++ {
		m.Tick(dt)
	}
	require.Equal(t, Grounded, m.State())
	return m
}

func TestStartsFalling(t *testing.T) {
	m := newMotor(boxworld.New(), common.Vec3{})
	assert.Equal(t, Falling, m.State())
}

func TestFallThenRestOnGround(t *testing.T) {
	m := newMotor(flatGround(), common.V3(0, 3, 0))

	ticks := tickUntil(t, m, 300, func() bool { return m.State() == Grounded })
	assert.Greater(t, ticks, 1)
	assert.Equal(t, -2.0, m.VerticalVelocity(), "clamped to the resting floor on landing")
	assert.GreaterOrEqual(t, m.Position().Y, 0.0)
	assert.Less(t, m.Position().Y, 0.15)

	for i := 0; i < 60; i++ {
		m.Tick(dt)
		require.Equal(t, Grounded, m.State())
		require.Equal(t, -2.0, m.VerticalVelocity())
	}
	assert.InDelta(t, 0.0, m.Position().Y, 1e-9, "rests on the ground surface")
	assert.True(t, m.Status().Grounded)
}

func TestFallWithoutGroundKeepsFalling(t *testing.T) {
	m := newMotor(boxworld.New(), common.V3(0, 100, 0))
	for i := 0; i < 30; i++ {
		m.Tick(dt)
	}
	assert.Equal(t, Falling, m.State())
	assert.InDelta(t, -15*30*dt, m.VerticalVelocity(), 1e-9)
	assert.True(t, m.Signals().FreeFall, "free fall after the fall timeout")
}

func TestTerminalVelocity(t *testing.T) {
	m := newMotor(boxworld.New(), common.V3(0, 1000, 0))
	m.SetVerticalVelocity(-52.9)

	m.Tick(dt)
	assert.Equal(t, -53.0, m.VerticalVelocity())
	m.Tick(dt)
	assert.Equal(t, -53.0, m.VerticalVelocity())
}

func TestJump(t *testing.T) {
	m := settle(t, common.V3(0, 0.5, 0))

	m.SetIntent(Intent{Jump: true})
	m.Tick(dt)
	assert.InDelta(t, math.Sqrt(1.2*30)-15*dt, m.VerticalVelocity(), 1e-9)
	assert.True(t, m.Signals().Jump)
	assert.False(t, m.Intent().Jump, "jump wish is consumed")

	tickUntil(t, m, 120, func() bool { return m.State() == Falling })
	tickUntil(t, m, 300, func() bool { return m.State() == Grounded })
	assert.Equal(t, -2.0, m.VerticalVelocity())
}

func TestJumpTimeoutBlocksImmediateJump(t *testing.T) {
	m := newMotor(flatGround(), common.V3(0, 0.1, 0))
	tickUntil(t, m, 10, func() bool { return m.State() == Grounded })

	m.SetIntent(Intent{Jump: true})
	m.Tick(dt)
	assert.Equal(t, -2.0, m.VerticalVelocity())
	assert.Equal(t, Grounded, m.State())
}

func TestGroundMoveReachesTargetSpeed(t *testing.T) {
	cases := []struct {
		name   string
		sprint bool
		want   float64
	}{
		{"walk", false, 2.0},
		{"sprint", true, 5.335},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := settle(t, common.V3(0, 0.2, 0))
			m.SetIntent(Intent{Move: common.V3(1, 0, 0), Sprint: c.sprint})
			for i := 0; i < 180; i++ {
				m.SetIntent(Intent{Move: common.V3(1, 0, 0), Sprint: c.sprint})
				m.Tick(dt)
			}

			assert.Equal(t, c.want, m.Speed())
			assert.Greater(t, m.Position().X, 1.0)
			assert.InDelta(t, 0.0, m.Position().Z, 1e-9)
			assert.InDelta(t, 90.0, m.Yaw(), 0.5)
			assert.Equal(t, 1.0, m.Signals().MotionSpeed)
		})
	}
}

func TestGroundMoveDecelerates(t *testing.T) {
	m := settle(t, common.V3(0, 0.2, 0))
	for i := 0; i < 120; i++ {
		m.SetIntent(Intent{Move: common.V3(0, 0, 1)})
		m.Tick(dt)
	}
	m.SetIntent(Intent{})
	for i := 0; i < 120; i++ {
		m.Tick(dt)
	}
	assert.Equal(t, 0.0, m.Speed())
	assert.Equal(t, 0.0, m.Signals().Speed)
}

func ledgeWorld() (*boxworld.World, *boxworld.Box) {
	ledge := boxworld.BoxAt(common.V3(0, 2.1, 0.5), common.V3(2, 0.1, 0.3), world.Layer(1))
	ledge.Facing = common.V3(0, 0, -1)
	return boxworld.New(ledge), ledge
}

func TestLedgeHangAndRelease(t *testing.T) {
	w, ledge := ledgeWorld()
	m := newMotor(w, common.V3(0, 2, 0))
	m.SetVerticalVelocity(5)

	m.Tick(dt)
	require.Equal(t, Hanging, m.State())
	assert.True(t, m.Signals().Hanging)
	assert.True(t, m.Status().Hanging)
	anchor, ok := m.LedgePoint()
	require.True(t, ok)
	assert.Equal(t, common.V3(0, ledge.Max.Y, ledge.Min.Z), anchor)

	m.SetIntent(Intent{Jump: true})
	m.Tick(dt)
	assert.Equal(t, Falling, m.State())
	assert.False(t, m.Signals().Hanging)
	assert.False(t, m.Status().Hanging)
	_, ok = m.LedgePoint()
	assert.False(t, ok)
}

func TestNoLedgeGrabWhileDescending(t *testing.T) {
	w, _ := ledgeWorld()
	m := newMotor(w, common.V3(0, 2, 0))
	m.SetVerticalVelocity(-1)

	m.Tick(dt)
	assert.Equal(t, Falling, m.State())
}

func TestHangSnapsToPoseAndShimmies(t *testing.T) {
	w, _ := ledgeWorld()
	m := newMotor(w, common.V3(0, 2, 0))
	m.SetVerticalVelocity(5)
	m.Tick(dt)
	require.Equal(t, Hanging, m.State())

	for i := 0; i < 120; i++ {
		m.Tick(dt)
	}
	require.Equal(t, Hanging, m.State())
	// pose is the anchor lowered by height plus hang offset
	pose := common.V3(0, 2.2-1.8-0.5, 0.2)
	assert.Less(t, common.DistSq(m.Position(), pose), 0.15*0.15)
	assert.InDelta(t, 0.0, m.Yaw(), 1e-9, "faces into the ledge")

	start, _ := m.LedgePoint()
	for i := 0; i < 30; i++ {
		m.SetIntent(Intent{Move: common.V3(1, 0, 0)})
		m.Tick(dt)
	}
	end, _ := m.LedgePoint()
	assert.InDelta(t, 1.0, end.X-start.X, 1e-9)
	assert.Equal(t, start.Y, end.Y)
	assert.Equal(t, start.Z, end.Z)
}

func TestFloatingToggle(t *testing.T) {
	m := newMotor(boxworld.New(), common.V3(0, 5, 0))
	m.ToggleFloating()
	require.Equal(t, Floating, m.State())

	m.SetIntent(Intent{Jump: true})
	m.Tick(dt)
	assert.Equal(t, 2.0, m.VerticalVelocity())
	assert.InDelta(t, 5+2*dt, m.Position().Y, 1e-9)

	m.SetIntent(Intent{Crouch: true})
	m.Tick(dt)
	assert.Equal(t, -2.0, m.VerticalVelocity())

	m.SetIntent(Intent{})
	m.Tick(dt)
	assert.Equal(t, 0.0, m.VerticalVelocity())

	m.ToggleFloating()
	assert.Equal(t, Falling, m.State())
}

func TestSignalSinkReceivesEveryTick(t *testing.T) {
	var got []Signals
	m := New(Config{
		Settings: DefaultSettings(),
		Spatial:  boxworld.New(),
		Signals:  SignalFunc(func(s Signals) { got = append(got, s) }),
	})
	for i := 0; i < 3; i++ {
		m.Tick(dt)
	}
	assert.Len(t, got, 3)
}

func TestCameraRelative(t *testing.T) {
	cases := []struct {
		name      string
		x, y, yaw float64
		want      common.Vec3
	}{
		{"forward_no_yaw", 0, 1, 0, common.V3(0, 0, 1)},
		{"right_no_yaw", 1, 0, 0, common.V3(1, 0, 0)},
		{"forward_yaw_90", 0, 1, 90, common.V3(1, 0, 0)},
		{"right_yaw_90", 1, 0, 90, common.V3(0, 0, -1)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CameraRelative(c.x, c.y, c.yaw)
			assert.InDelta(t, c.want.X, got.X, 1e-9)
			assert.InDelta(t, c.want.Y, got.Y, 1e-9)
			assert.InDelta(t, c.want.Z, got.Z, 1e-9)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "grounded", Grounded.String())
	assert.Equal(t, "hanging", Hanging.String())
	assert.Equal(t, "unknown", State(42).String())
}
