package motor

import "github.com/milk9111/agentmotor/common"

// Intent is the per-tick wish handed to a Motor. Move is a world-space
// direction; only X and Z are read.
type Intent struct {
	Move   common.Vec3
	Jump   bool
	Crouch bool
	Sprint bool
}

// CameraRelative rotates a stick axis (x right, y forward) by the camera yaw
// in degrees to get a world-space move direction.
func CameraRelative(axisX, axisY, cameraYaw float64) common.Vec3 {
	forward := common.YawDirection(cameraYaw)
	right := common.YawDirection(cameraYaw + 90)
	return right.Scale(axisX).Add(forward.Scale(axisY))
}

// Signals is the observable state a presentation layer animates from.
type Signals struct {
	Speed       float64
	MotionSpeed float64
	Grounded    bool
	Jump        bool
	FreeFall    bool
	Hanging     bool
}

// SignalSink receives Signals after every tick. It must not block.
type SignalSink interface {
	MotorSignals(Signals)
}

// SignalFunc adapts a function to a SignalSink.
type SignalFunc func(Signals)

func (f SignalFunc) MotorSignals(s Signals) { f(s) }
