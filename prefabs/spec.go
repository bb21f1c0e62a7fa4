package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/agentmotor/ai"
	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/motor"
	"github.com/milk9111/agentmotor/world"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadFSM compiles a state machine definition file.
func LoadFSM(filename string) (*ai.Definition, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	def, err := ai.ParseFSM(data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile %s: %w", filename, err)
	}
	return def, nil
}

// MotorSpec overlays tuning values on motor.DefaultSettings. Unset fields
// keep the default.
type MotorSpec struct {
	MoveSpeed          *float64 `yaml:"move_speed"`
	SprintSpeed        *float64 `yaml:"sprint_speed"`
	RotationSmoothTime *float64 `yaml:"rotation_smooth_time"`
	SpeedChangeRate    *float64 `yaml:"speed_change_rate"`
	JumpHeight         *float64 `yaml:"jump_height"`
	Gravity            *float64 `yaml:"gravity"`
	JumpTimeout        *float64 `yaml:"jump_timeout"`
	FallTimeout        *float64 `yaml:"fall_timeout"`
	GroundedOffset     *float64 `yaml:"grounded_offset"`
	GroundedRadius     *float64 `yaml:"grounded_radius"`
	GroundLayers       []uint   `yaml:"ground_layers"`
	LedgeOffset        *float64 `yaml:"ledge_offset"`
	LedgeHangOffset    *float64 `yaml:"ledge_hang_offset"`
	LedgeRadius        *float64 `yaml:"ledge_radius"`
	LedgeLayers        []uint   `yaml:"ledge_layers"`
	Height             *float64 `yaml:"height"`
	TerminalVelocity   *float64 `yaml:"terminal_velocity"`
	SnapSpeed          *float64 `yaml:"snap_speed"`
	SnapTolerance      *float64 `yaml:"snap_tolerance"`
}

func (s MotorSpec) Apply(base motor.Settings) motor.Settings {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.MoveSpeed, s.MoveSpeed)
	set(&base.SprintSpeed, s.SprintSpeed)
	set(&base.RotationSmoothTime, s.RotationSmoothTime)
	set(&base.SpeedChangeRate, s.SpeedChangeRate)
	set(&base.JumpHeight, s.JumpHeight)
	set(&base.Gravity, s.Gravity)
	set(&base.JumpTimeout, s.JumpTimeout)
	set(&base.FallTimeout, s.FallTimeout)
	set(&base.GroundedOffset, s.GroundedOffset)
	set(&base.GroundedRadius, s.GroundedRadius)
	set(&base.LedgeOffset, s.LedgeOffset)
	set(&base.LedgeHangOffset, s.LedgeHangOffset)
	set(&base.LedgeRadius, s.LedgeRadius)
	set(&base.Height, s.Height)
	set(&base.TerminalVelocity, s.TerminalVelocity)
	set(&base.SnapSpeed, s.SnapSpeed)
	set(&base.SnapTolerance, s.SnapTolerance)
	if len(s.GroundLayers) > 0 {
		base.GroundLayers = layerMask(s.GroundLayers)
	}
	if len(s.LedgeLayers) > 0 {
		base.LedgeLayers = layerMask(s.LedgeLayers)
	}
	return base
}

func layerMask(layers []uint) world.LayerMask {
	var m world.LayerMask
	for _, l := range layers {
		m |= world.Layer(l)
	}
	return m
}

// LoadMotorSettings reads a motor spec and applies overrides on top of it.
func LoadMotorSettings(filename string, overrides MotorSpec) (motor.Settings, error) {
	base := motor.DefaultSettings()
	if filename != "" {
		spec, err := LoadSpec[MotorSpec](filename)
		if err != nil {
			return motor.Settings{}, err
		}
		base = spec.Apply(base)
	}
	return overrides.Apply(base), nil
}

type AgentSpec struct {
	Name              string     `yaml:"name"`
	Faction           int        `yaml:"faction"`
	FSM               string     `yaml:"fsm"`
	Motor             string     `yaml:"motor"`
	MotorOverrides    MotorSpec  `yaml:"motor_overrides"`
	EyeHeight         float64    `yaml:"eye_height"`
	DetectionRadius   float64    `yaml:"detection_radius"`
	WaypointThreshold float64    `yaml:"waypoint_threshold"`
	PatrolStrength    float64    `yaml:"patrol_strength"`
	ChaseStrength     float64    `yaml:"chase_strength"`
	AttackThreshold   float64    `yaml:"attack_threshold"`
	NavSampleDistance float64    `yaml:"nav_sample_distance"`
	Color             *YAMLColor `yaml:"color"`
}

func LoadAgentSpec(filename string) (*AgentSpec, error) {
	spec, err := LoadSpec[AgentSpec](filename)
	if err != nil {
		return nil, err
	}
	if spec.FSM == "" {
		return nil, fmt.Errorf("prefabs: agent %s: missing fsm", filename)
	}
	return &spec, nil
}

type LevelSpec struct {
	Name    string           `yaml:"name"`
	Physics string           `yaml:"physics"`
	Nav     NavSpec          `yaml:"nav"`
	Floors  []BoxSpec        `yaml:"floors"`
	Walls   []BoxSpec        `yaml:"walls"`
	Ledges  []LedgeSpec      `yaml:"ledges"`
	Player  *PlayerSpec      `yaml:"player"`
	Agents  []AgentSpawnSpec `yaml:"agents"`
}

const (
	PhysicsBox      = "box"
	PhysicsChipmunk = "chipmunk"
)

func LoadLevelSpec(filename string) (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](filename)
	if err != nil {
		return nil, err
	}
	switch spec.Physics {
	case "":
		spec.Physics = PhysicsBox
	case PhysicsBox, PhysicsChipmunk:
	default:
		return nil, fmt.Errorf("prefabs: level %s: unknown physics %q", filename, spec.Physics)
	}
	if spec.Nav.CellSize <= 0 || spec.Nav.Width <= 0 || spec.Nav.Depth <= 0 {
		return nil, fmt.Errorf("prefabs: level %s: nav grid needs cell_size, width and depth", filename)
	}
	return &spec, nil
}

type NavSpec struct {
	Origin   YAMLVec3 `yaml:"origin"`
	CellSize float64  `yaml:"cell_size"`
	Width    int      `yaml:"width"`
	Depth    int      `yaml:"depth"`
}

type BoxSpec struct {
	Center YAMLVec3   `yaml:"center"`
	Half   YAMLVec3   `yaml:"half"`
	Color  *YAMLColor `yaml:"color"`
}

func (b BoxSpec) Min() common.Vec3 {
	return b.Center.Vec().Sub(b.Half.Vec())
}

func (b BoxSpec) Max() common.Vec3 {
	return b.Center.Vec().Add(b.Half.Vec())
}

type LedgeSpec struct {
	BoxSpec `yaml:",inline"`
	Facing  YAMLVec3 `yaml:"facing"`
}

type PlayerSpec struct {
	Position  YAMLVec3 `yaml:"position"`
	Faction   int      `yaml:"faction"`
	EyeHeight float64  `yaml:"eye_height"`
	Motor     string   `yaml:"motor"`
}

type AgentSpawnSpec struct {
	Prefab   string     `yaml:"prefab"`
	Position YAMLVec3   `yaml:"position"`
	Patrol   []YAMLVec3 `yaml:"patrol"`
}

// YAMLVec3 decodes [x, y, z] or {x, y, z}.
type YAMLVec3 common.Vec3

func (v YAMLVec3) Vec() common.Vec3 {
	return common.Vec3(v)
}

func (v *YAMLVec3) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xyz []float64
		if err := value.Decode(&xyz); err != nil {
			return err
		}
		if len(xyz) != 3 {
			return fmt.Errorf("vector needs 3 components, got %d", len(xyz))
		}
		*v = YAMLVec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
		return nil
	case yaml.MappingNode:
		var m struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		*v = YAMLVec3{X: m.X, Y: m.Y, Z: m.Z}
		return nil
	default:
		return fmt.Errorf("vector must be a sequence or mapping")
	}
}

// Vecs converts a list of spec vectors.
func Vecs(in []YAMLVec3) []common.Vec3 {
	out := make([]common.Vec3, len(in))
	for i, v := range in {
		out[i] = v.Vec()
	}
	return out
}

type YAMLColor struct {
	color.Color
}

// ColorOr returns c's color, or fallback when c is unset.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
