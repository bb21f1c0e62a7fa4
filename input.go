package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/agentmotor/ecs/component"
)

const stickDeadzone = 0.3

// pollInput fills the player's input component from the keyboard and the
// first gamepad. Jump and the floating toggle are edge triggered and stay
// set until the motor system consumes them. JumpHeld follows the button so
// a floating player keeps rising while it is down.
func pollInput(in *component.Input, sideView bool) {
	var x, y float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		x -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		x += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		y += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		y -= 1
	}

	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	jumpHeld := ebiten.IsKeyPressed(ebiten.KeySpace)
	sprint := ebiten.IsKeyPressed(ebiten.KeyShift)
	crouch := ebiten.IsKeyPressed(ebiten.KeyC)
	toggle := inpututil.IsKeyJustPressed(ebiten.KeyF)

	// Gamepad: left stick overrides the keys when pushed past the deadzone.
	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		gid := ids[0]
		if ebiten.IsStandardGamepadLayoutAvailable(gid) {
			lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
			ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
			if lx < -stickDeadzone || lx > stickDeadzone {
				x = lx
			}
			if ly < -stickDeadzone || ly > stickDeadzone {
				y = -ly
			}
			jump = jump || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
			jumpHeld = jumpHeld || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightBottom)
			sprint = sprint || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonFrontBottomLeft)
			toggle = toggle || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightTop)
		}
	}

	// The side view runs on the XY plane; there is no depth to walk into.
	if sideView {
		y = 0
	}

	in.AxisX = x
	in.AxisY = y
	in.Sprint = sprint
	in.Crouch = crouch
	in.Jump = in.Jump || jump
	in.JumpHeld = jumpHeld
	in.ToggleFloating = in.ToggleFloating || toggle
}
