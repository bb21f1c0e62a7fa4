package system

import (
	"go.uber.org/zap"

	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/ecs"
	"github.com/milk9111/agentmotor/ecs/component"
	"github.com/milk9111/agentmotor/motor"
)

// MotorSystem ticks every motor, applying player input first, then mirrors
// the result into the transform and collider.
type MotorSystem struct {
	logger *zap.Logger
}

func NewMotorSystem(logger *zap.Logger) *MotorSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MotorSystem{logger: logger}
}

func (s *MotorSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.LocomotionComponent.Kind(), func(e ecs.Entity, loco *component.Locomotion) {
		m := loco.Motor
		if m == nil {
			return
		}

		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			if in.ToggleFloating {
				m.ToggleFloating()
				in.ToggleFloating = false
				s.logger.Info("floating toggled", zap.Stringer("entity", e), zap.Stringer("state", m.State()))
			}
			m.SetIntent(motor.Intent{
				Move:   motor.CameraRelative(in.AxisX, in.AxisY, in.CameraYaw),
				Jump:   in.Jump || (m.State() == motor.Floating && in.JumpHeld),
				Crouch: in.Crouch,
				Sprint: in.Sprint,
			})
			in.Jump = false
		}

		m.Tick(dt)
		loco.Signals = m.Signals()

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = m.Position()
			t.Yaw = m.Yaw()
		}
		if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok && c.Box != nil {
			c.Box.MoveTo(m.Position().Add(common.V3(0, c.Half.Y, 0)))
		}
	})
}
