package motor

import (
	"math"

	"github.com/milk9111/agentmotor/common"
)

const (
	speedOffset = 0.1
	// ledgeProbeHeight lifts the ledge anchor query above the character so
	// the anchor lands on top of the ledge, never behind or below it.
	ledgeProbeHeight = 10.0
)

// jumpAndGravity handles the timeouts and jump wish, then integrates gravity.
func (m *Motor) jumpAndGravity(dt float64) {
	s := &m.settings
	if m.state == Grounded {
		m.fallTimeout = s.FallTimeout
		m.signals.Jump = false
		m.signals.FreeFall = false

		if m.verticalVelocity < 0 {
			m.verticalVelocity = s.RestingVelocity
		}

		if m.intent.Jump && m.jumpTimeout <= 0 {
			m.verticalVelocity = math.Sqrt(s.JumpHeight * -2 * s.Gravity)
			m.signals.Jump = true
		}

		if m.jumpTimeout >= 0 {
			m.jumpTimeout -= dt
		}
	} else {
		m.jumpTimeout = s.JumpTimeout

		if m.fallTimeout >= 0 {
			m.fallTimeout -= dt
		} else {
			m.signals.FreeFall = true
		}
	}

	m.intent.Jump = false
	m.applyGravity(dt)
}

// applyGravity stops integrating once terminal velocity is reached.
func (m *Motor) applyGravity(dt float64) {
	terminal := -m.settings.TerminalVelocity
	if m.verticalVelocity <= terminal {
		return
	}
	m.verticalVelocity += m.settings.Gravity * dt
	if m.verticalVelocity < terminal {
		m.verticalVelocity = terminal
	}
}

// groundedCheck is the only way out of Grounded and the usual way into it.
func (m *Motor) groundedCheck() {
	probe := m.position
	probe.Y -= m.settings.GroundedOffset
	if len(m.spatial.Overlap(probe, m.settings.GroundedRadius, m.settings.GroundLayers)) == 0 {
		m.setState(Falling)
		return
	}

	m.setState(Grounded)
	if m.verticalVelocity < 0 {
		m.verticalVelocity = m.settings.RestingVelocity
	}
}

// ledgeCheck only runs at the apex or while rising.
func (m *Motor) ledgeCheck() {
	if m.verticalVelocity < 0 {
		return
	}

	probe := m.position.Add(common.Up.Scale(m.settings.LedgeOffset))
	hits := m.spatial.Overlap(probe, m.settings.LedgeRadius, m.settings.LedgeLayers)
	if len(hits) == 0 {
		return
	}

	m.ledge = hits[0]
	m.ledgePoint = m.ledge.ClosestPoint(m.position.Add(common.Up.Scale(ledgeProbeHeight)))
	m.setState(Hanging)
}

func (m *Motor) groundMove(dt float64) {
	s := &m.settings
	move := m.intent.Move.Flat()

	targetSpeed := s.targetSpeed(m.intent.Sprint)
	if move.NearZero() {
		targetSpeed = 0
	}

	currentSpeed := m.horizontalVel.Mag()
	inputMagnitude := move.ClampMag(1).Mag()

	if currentSpeed < targetSpeed-speedOffset || currentSpeed > targetSpeed+speedOffset {
		m.speed = common.Round3(common.Lerp(currentSpeed, targetSpeed*inputMagnitude, dt*s.SpeedChangeRate))
	} else {
		m.speed = targetSpeed
	}
	m.blendAnimation(targetSpeed, dt)

	if !move.NearZero() {
		m.targetYaw = common.YawOf(move)
		m.yaw = common.SmoothDampAngle(m.yaw, m.targetYaw, &m.yawVel, s.RotationSmoothTime, dt)
	}

	heading := common.YawDirection(m.targetYaw)
	m.integrate(heading.Scale(m.speed*dt), dt)

	m.signals.Speed = m.animationBlend
	m.signals.MotionSpeed = inputMagnitude
}

func (m *Motor) hang(dt float64) {
	s := &m.settings
	if m.intent.Jump {
		m.releaseLedge()
		m.setState(Falling)
		return
	}

	shimmy := m.ledgeTangent()
	shimmy = shimmy.Scale(m.intent.Move.Dot(shimmy) * s.targetSpeed(m.intent.Sprint) * dt)
	wish := m.ledgePoint.Add(shimmy)
	m.ledgePoint = m.ledge.ClosestPoint(wish.Add(common.Up.Scale(ledgeProbeHeight)))

	offset := m.hangPose().Sub(m.position)
	if offset.MagSq() > s.SnapTolerance*s.SnapTolerance {
		m.verticalVelocity = offset.Normalized().Y * s.SnapSpeed
	} else {
		m.verticalVelocity = 0
	}
}

// hangMove closes the horizontal gap to the hang pose without overshooting
// it and faces the ledge.
func (m *Motor) hangMove(dt float64) {
	s := &m.settings
	targetSpeed := s.targetSpeed(m.intent.Sprint)

	currentSpeed := m.horizontalVel.Mag()
	if currentSpeed < targetSpeed-speedOffset || currentSpeed > targetSpeed+speedOffset {
		m.speed = common.Round3(common.Lerp(currentSpeed, targetSpeed, dt*s.SpeedChangeRate))
	} else {
		m.speed = targetSpeed
	}
	m.blendAnimation(targetSpeed, dt)

	step := m.hangPose().Sub(m.position).Flat().ClampMag(m.speed * dt)
	m.integrate(step, dt)

	m.yaw = common.YawOf(m.ledge.Forward().Scale(-1))
	m.targetYaw = m.yaw
	m.yawVel = 0

	m.signals.Speed = m.animationBlend
	m.signals.MotionSpeed = math.Abs(m.intent.Move.Dot(m.ledgeTangent()))
}

func (m *Motor) fly() {
	axis := 0.0
	if m.intent.Jump {
		axis++
	}
	if m.intent.Crouch {
		axis--
	}
	m.verticalVelocity = axis * m.settings.MoveSpeed
}

func (m *Motor) hangPose() common.Vec3 {
	return m.ledgePoint.Sub(common.Up.Scale(m.settings.Height + m.settings.LedgeHangOffset))
}

func (m *Motor) ledgeTangent() common.Vec3 {
	return common.Up.Cross(m.ledge.Forward().Scale(-1))
}

func (m *Motor) blendAnimation(targetSpeed, dt float64) {
	m.animationBlend = common.Lerp(m.animationBlend, targetSpeed, dt*m.settings.SpeedChangeRate)
	if m.animationBlend < 0.01 {
		m.animationBlend = 0
	}
}

// integrate applies horizontal plus vertical displacement and then keeps a
// resting character on top of the ground it is standing on.
func (m *Motor) integrate(horizontal common.Vec3, dt float64) {
	before := m.position
	m.position = m.position.Add(horizontal)
	m.position.Y += m.verticalVelocity * dt

	if m.state == Grounded && m.verticalVelocity <= 0 {
		m.restOnGround()
	}

	m.horizontalVel = m.position.Sub(before).Flat().Scale(1 / dt)
}

// restOnGround lifts the character onto the highest ground surface under its
// feet, up to GroundedRadius above them.
func (m *Motor) restOnGround() {
	probe := m.position
	probe.Y -= m.settings.GroundedOffset
	top := math.Inf(-1)
	for _, v := range m.spatial.Overlap(probe, m.settings.GroundedRadius, m.settings.GroundLayers) {
		p := v.ClosestPoint(m.position.Add(common.Up.Scale(m.settings.Height)))
		if p.Y > top {
			top = p.Y
		}
	}
	if top > m.position.Y && top-m.position.Y <= m.settings.GroundedRadius {
		m.position.Y = top
	}
}
