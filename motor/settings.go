package motor

import "github.com/milk9111/agentmotor/world"

// Settings are the tuning values of a character. They are treated as
// immutable for the life of a Motor.
type Settings struct {
	MoveSpeed          float64
	SprintSpeed        float64
	RotationSmoothTime float64
	SpeedChangeRate    float64

	JumpHeight  float64
	Gravity     float64
	JumpTimeout float64
	FallTimeout float64

	// GroundedOffset is subtracted from the feet height to place the ground
	// probe, so a negative value lifts it.
	GroundedOffset float64
	GroundedRadius float64
	GroundLayers   world.LayerMask

	LedgeOffset     float64
	LedgeHangOffset float64
	LedgeRadius     float64
	LedgeLayers     world.LayerMask

	Height           float64
	TerminalVelocity float64
	SnapSpeed        float64
	SnapTolerance    float64
	RestingVelocity  float64
}

func DefaultSettings() Settings {
	return Settings{
		MoveSpeed:          2.0,
		SprintSpeed:        5.335,
		RotationSmoothTime: 0.12,
		SpeedChangeRate:    10,
		JumpHeight:         1.2,
		Gravity:            -15,
		JumpTimeout:        0.5,
		FallTimeout:        0.15,
		GroundedOffset:     -0.14,
		GroundedRadius:     0.28,
		GroundLayers:       world.Layer(0),
		LedgeOffset:        0.14,
		LedgeHangOffset:    0.5,
		LedgeRadius:        0.28,
		LedgeLayers:        world.Layer(1),
		Height:             1.8,
		TerminalVelocity:   53,
		SnapSpeed:          10,
		SnapTolerance:      0.1,
		RestingVelocity:    -2,
	}
}

func (s Settings) targetSpeed(sprint bool) float64 {
	if sprint {
		return s.SprintSpeed
	}
	return s.MoveSpeed
}
