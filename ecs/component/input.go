package component

// Input is the raw control state for an entity, filled by the window's input
// adapter. Axis values are in [-1, 1] relative to the camera. Jump is the
// press edge; JumpHeld stays set while the button is down and lifts a
// floating motor.
type Input struct {
	AxisX     float64
	AxisY     float64
	CameraYaw float64

	Jump           bool
	JumpHeld       bool
	Crouch         bool
	Sprint         bool
	ToggleFloating bool
}

var InputComponent = NewComponent[Input]()
