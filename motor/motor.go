// Package motor is the character movement state machine: grounded, falling,
// ledge hanging and floating, with gravity, jump arcs and ledge snapping.
package motor

import (
	"go.uber.org/zap"

	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/world"
)

type State int

const (
	Grounded State = iota
	Falling
	Hanging
	Floating
)

func (s State) String() string {
	switch s {
	case Grounded:
		return "grounded"
	case Falling:
		return "falling"
	case Hanging:
		return "hanging"
	case Floating:
		return "floating"
	default:
		return "unknown"
	}
}

// Status is what a decision layer may observe about a motor.
type Status struct {
	State    State
	Grounded bool
	Hanging  bool
}

type Config struct {
	Settings Settings
	// Spatial answers the ground and ledge probes. Required.
	Spatial  world.Spatial
	Position common.Vec3
	Yaw      float64
	Logger   *zap.Logger
	Signals  SignalSink
}

// Motor owns one character's movement state. It is driven by Tick and is
// not safe for concurrent use.
type Motor struct {
	settings Settings
	spatial  world.Spatial
	logger   *zap.Logger
	sink     SignalSink

	intent Intent
	state  State

	position  common.Vec3
	yaw       float64
	yawVel    float64
	targetYaw float64

	speed            float64
	animationBlend   float64
	verticalVelocity float64
	horizontalVel    common.Vec3

	jumpTimeout float64
	fallTimeout float64

	ledge      world.Volume
	ledgePoint common.Vec3

	signals Signals
}

// New builds a motor in the Falling state with both timeouts primed.
func New(cfg Config) *Motor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Motor{
		settings:    cfg.Settings,
		spatial:     cfg.Spatial,
		logger:      logger,
		sink:        cfg.Signals,
		state:       Falling,
		position:    cfg.Position,
		yaw:         cfg.Yaw,
		targetYaw:   cfg.Yaw,
		jumpTimeout: cfg.Settings.JumpTimeout,
		fallTimeout: cfg.Settings.FallTimeout,
	}
}

func (m *Motor) SetIntent(in Intent) {
	m.intent = in
}

func (m *Motor) Intent() Intent {
	return m.intent
}

func (m *Motor) State() State {
	return m.state
}

func (m *Motor) Status() Status {
	return Status{State: m.state, Grounded: m.state == Grounded, Hanging: m.state == Hanging}
}

func (m *Motor) Position() common.Vec3 {
	return m.position
}

func (m *Motor) SetPosition(p common.Vec3) {
	m.position = p
}

// Yaw is the heading in degrees; 0 faces +Z.
func (m *Motor) Yaw() float64 {
	return m.yaw
}

func (m *Motor) Speed() float64 {
	return m.speed
}

func (m *Motor) VerticalVelocity() float64 {
	return m.verticalVelocity
}

func (m *Motor) SetVerticalVelocity(v float64) {
	m.verticalVelocity = v
}

// Velocity is the displacement of the last tick divided by its duration.
func (m *Motor) Velocity() common.Vec3 {
	return common.Vec3{X: m.horizontalVel.X, Y: m.verticalVelocity, Z: m.horizontalVel.Z}
}

// LedgePoint returns the current hang anchor while hanging.
func (m *Motor) LedgePoint() (common.Vec3, bool) {
	return m.ledgePoint, m.state == Hanging
}

func (m *Motor) Signals() Signals {
	return m.signals
}

func (m *Motor) Settings() Settings {
	return m.settings
}

// ToggleFloating flips between Floating and Falling.
func (m *Motor) ToggleFloating() {
	if m.state == Floating {
		m.setState(Falling)
		return
	}
	m.releaseLedge()
	m.setState(Floating)
}

// Tick advances the motor by dt seconds using the last intent. The jump wish
// is consumed.
func (m *Motor) Tick(dt float64) {
	if dt <= 0 {
		return
	}

	switch m.state {
	case Grounded:
		m.jumpAndGravity(dt)
		m.groundedCheck()
		m.groundMove(dt)
	case Falling:
		m.jumpAndGravity(dt)
		m.ledgeCheck()
		if m.state != Falling {
			break
		}
		m.groundedCheck()
		m.groundMove(dt)
	case Hanging:
		m.hang(dt)
		if m.state == Hanging {
			m.hangMove(dt)
		}
	case Floating:
		m.fly()
		m.groundMove(dt)
	}

	m.intent.Jump = false
	if m.sink != nil {
		m.sink.MotorSignals(m.signals)
	}
}

func (m *Motor) setState(next State) {
	if next == m.state {
		return
	}
	m.logger.Debug("motor state change",
		zap.Stringer("from", m.state),
		zap.Stringer("to", next),
		zap.Float64("vertical_velocity", m.verticalVelocity),
	)
	m.state = next
	m.signals.Grounded = next == Grounded
	m.signals.Hanging = next == Hanging
}

func (m *Motor) releaseLedge() {
	m.ledge = nil
	m.signals.Hanging = false
}
