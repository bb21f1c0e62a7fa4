package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Normalized(t *testing.T) {
	cases := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"zero_stays_zero", Vec3{}, Vec3{}},
		{"axis", V3(0, 0, 4), V3(0, 0, 1)},
		{"diagonal", V3(3, 0, 4), V3(0.6, 0, 0.8)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.in.Normalized()
			assert.InDelta(t, c.want.X, got.X, 1e-9)
			assert.InDelta(t, c.want.Y, got.Y, 1e-9)
			assert.InDelta(t, c.want.Z, got.Z, 1e-9)
		})
	}
}

func TestCrossUpForward(t *testing.T) {
	// up x forward is +X
	got := Up.Cross(Forward)
	assert.Equal(t, V3(1, 0, 0), got)
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 1.235, Round3(1.23456))
	assert.Equal(t, -0.001, Round3(-0.0012))
}

func TestDeltaAngle(t *testing.T) {
	cases := []struct {
		current, target, want float64
	}{
		{0, 90, 90},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
		{-720, 45, 45},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, DeltaAngle(c.current, c.target), 1e-9)
	}
}

func TestSmoothDampAngleConverges(t *testing.T) {
	var vel float64
	angle := 350.0
	for i := 0; i < 200; i++ {
		angle = SmoothDampAngle(angle, 20, &vel, 0.12, 1.0/60)
	}
	assert.InDelta(t, 0, DeltaAngle(angle, 20), 1e-3)
}

func TestSmoothDampDoesNotOvershoot(t *testing.T) {
	var vel float64
	v := 0.0
	for i := 0; i < 100; i++ {
		v = SmoothDamp(v, 1, &vel, 0.05, 0.1)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestYawRoundTrip(t *testing.T) {
	for _, yaw := range []float64{0, 45, 90, -135} {
		dir := YawDirection(yaw)
		assert.InDelta(t, 1, dir.Mag(), 1e-9)
		assert.InDelta(t, 0, DeltaAngle(YawOf(dir), yaw), 1e-9)
	}
}

func TestApproximately(t *testing.T) {
	assert.True(t, Approximately(1, 1+1e-8, 1e-6))
	assert.False(t, Approximately(1, 1.001, 1e-6))
	assert.True(t, Approximately(0, 5e-7, 1e-6))
	assert.False(t, Approximately(0, math.Inf(1), 1e-6))
}
