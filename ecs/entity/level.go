// Package entity builds sandbox worlds from prefab specs: static geometry
// into a spatial service and nav grid, and the player and agents into the
// entity world.
package entity

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/milk9111/agentmotor/ai"
	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/ecs"
	"github.com/milk9111/agentmotor/ecs/component"
	"github.com/milk9111/agentmotor/ecs/system"
	"github.com/milk9111/agentmotor/motor"
	"github.com/milk9111/agentmotor/prefabs"
	"github.com/milk9111/agentmotor/world"
	"github.com/milk9111/agentmotor/world/boxworld"
	"github.com/milk9111/agentmotor/world/cpworld"
	"github.com/milk9111/agentmotor/world/gridnav"
)

// Collision layers used by built levels. Motor settings default to ground on
// layer 0 and ledges on layer 1.
const (
	LayerGround = 0
	LayerLedge  = 1
	LayerActor  = 2
)

type StaticKind int

const (
	StaticFloor StaticKind = iota
	StaticWall
	StaticLedge
)

// Static is a piece of level geometry kept for drawing.
type Static struct {
	Kind     StaticKind
	Min, Max common.Vec3
	Color    color.Color
}

type Options struct {
	Logger *zap.Logger
	Seed   uint64
}

// Level is a built, runnable world.
type Level struct {
	Spec      *prefabs.LevelSpec
	World     *ecs.World
	Scheduler *ecs.Scheduler
	Spatial   world.Spatial
	Nav       *gridnav.Grid
	Statics   []Static
	Player    ecs.Entity
	Agents    []ecs.Entity

	boxes  *boxworld.World
	logger *zap.Logger
	seed   uint64
	nextID world.BodyID
	defs   map[string]*ai.Definition
}

var (
	floorColor = color.NRGBA{R: 0x3a, G: 0x3f, B: 0x4a, A: 0xff}
	wallColor  = color.NRGBA{R: 0x6b, G: 0x70, B: 0x80, A: 0xff}
	ledgeColor = color.NRGBA{R: 0xe0, G: 0xc0, B: 0x40, A: 0xff}
)

// Load reads a level spec by prefab name and builds it.
func Load(name string, opts Options) (*Level, error) {
	spec, err := prefabs.LoadLevelSpec(name)
	if err != nil {
		return nil, err
	}
	return Build(spec, opts)
}

func Build(spec *prefabs.LevelSpec, opts Options) (*Level, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Level{
		Spec:   spec,
		World:  ecs.NewWorld(),
		logger: logger.With(zap.String("level", spec.Name)),
		seed:   opts.Seed,
		nextID: world.StaticBody + 1,
		defs:   make(map[string]*ai.Definition),
	}
	l.Scheduler = ecs.NewScheduler(
		system.NewTriggerSystem(l.logger),
		system.NewAISystem(l.logger),
		system.NewMotorSystem(l.logger),
	)

	nav := spec.Nav
	l.Nav = gridnav.New(nav.Origin.Vec(), nav.CellSize, nav.Width, nav.Depth)

	switch spec.Physics {
	case prefabs.PhysicsChipmunk:
		l.Spatial = l.buildChipmunk()
	default:
		l.boxes = l.buildBoxes()
		l.Spatial = l.boxes
	}
	for _, wall := range spec.Walls {
		l.Nav.Block(wall.Min(), wall.Max())
	}

	if spec.Player != nil {
		if err := l.spawnPlayer(*spec.Player); err != nil {
			return nil, err
		}
	}
	for i, spawn := range spec.Agents {
		e, err := l.spawnAgent(spawn)
		if err != nil {
			return nil, fmt.Errorf("level %s: agent %d: %w", spec.Name, i, err)
		}
		l.Agents = append(l.Agents, e)
	}

	l.logger.Info("level built",
		zap.String("physics", spec.Physics),
		zap.Int("statics", len(l.Statics)),
		zap.Int("agents", len(l.Agents)))
	return l, nil
}

func (l *Level) addStatic(kind StaticKind, b prefabs.BoxSpec, fallback color.Color) {
	l.Statics = append(l.Statics, Static{Kind: kind, Min: b.Min(), Max: b.Max(), Color: b.Color.ColorOr(fallback)})
}

func (l *Level) buildBoxes() *boxworld.World {
	bw := boxworld.New()
	for _, f := range l.Spec.Floors {
		bw.Add(&boxworld.Box{Min: f.Min(), Max: f.Max(), Layer: world.Layer(LayerGround)})
		l.addStatic(StaticFloor, f, floorColor)
	}
	for _, wall := range l.Spec.Walls {
		bw.Add(&boxworld.Box{Min: wall.Min(), Max: wall.Max(), Layer: world.Layer(LayerGround)})
		l.addStatic(StaticWall, wall, wallColor)
	}
	for _, ledge := range l.Spec.Ledges {
		bw.Add(&boxworld.Box{Min: ledge.Min(), Max: ledge.Max(), Layer: world.Layer(LayerLedge), Facing: ledge.Facing.Vec()})
		l.addStatic(StaticLedge, ledge.BoxSpec, ledgeColor)
	}
	return bw
}

// buildChipmunk drops Z: every box becomes a static rectangle on the XY
// plane.
func (l *Level) buildChipmunk() *cpworld.World {
	cw := cpworld.New()
	add := func(b prefabs.BoxSpec, layer uint, facing common.Vec3) {
		lo, hi := b.Min(), b.Max()
		cw.AddBox(lo.X, lo.Y, hi.X, hi.Y, world.Layer(layer), world.StaticBody, facing)
	}
	for _, f := range l.Spec.Floors {
		add(f, LayerGround, common.Vec3{})
		l.addStatic(StaticFloor, f, floorColor)
	}
	for _, wall := range l.Spec.Walls {
		add(wall, LayerGround, common.Vec3{})
		l.addStatic(StaticWall, wall, wallColor)
	}
	for _, ledge := range l.Spec.Ledges {
		add(ledge.BoxSpec, LayerLedge, ledge.Facing.Vec())
		l.addStatic(StaticLedge, ledge.BoxSpec, ledgeColor)
	}
	return cw
}

func (l *Level) newBodyID() world.BodyID {
	id := l.nextID
	l.nextID++
	return id
}

// spawnCharacter creates the components shared by the player and agents.
func (l *Level) spawnCharacter(pos common.Vec3, faction int, eyeHeight float64, settings motor.Settings) (ecs.Entity, world.BodyID, error) {
	w := l.World
	e := ecs.CreateEntity(w)
	id := l.newBodyID()

	m := motor.New(motor.Config{
		Settings: settings,
		Spatial:  l.Spatial,
		Position: pos,
		Logger:   l.logger.With(zap.Uint64("body", uint64(id))),
	})
	half := common.V3(0.3, settings.Height/2, 0.3)

	if err := ecs.Add(w, e, component.ActorComponent.Kind(), &component.Actor{ID: id, Faction: faction, EyeHeight: eyeHeight}); err != nil {
		return 0, 0, err
	}
	if err := ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{Motor: m}); err != nil {
		return 0, 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return 0, 0, err
	}
	if l.boxes != nil {
		box := boxworld.BoxAt(pos.Add(common.V3(0, half.Y, 0)), half, world.Layer(LayerActor))
		box.Body = id
		l.boxes.Add(box)
		if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Box: box, Half: half}); err != nil {
			return 0, 0, err
		}
	}
	return e, id, nil
}

func (l *Level) spawnPlayer(spec prefabs.PlayerSpec) error {
	settings, err := prefabs.LoadMotorSettings(spec.Motor, prefabs.MotorSpec{})
	if err != nil {
		return err
	}
	eye := spec.EyeHeight
	if eye == 0 {
		eye = settings.Height * 0.9
	}
	e, _, err := l.spawnCharacter(spec.Position.Vec(), spec.Faction, eye, settings)
	if err != nil {
		return err
	}
	if err := ecs.Add(l.World, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return err
	}
	if err := ecs.Add(l.World, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return err
	}
	l.Player = e
	return nil
}

func (l *Level) definition(name string) (*ai.Definition, error) {
	if def, ok := l.defs[name]; ok {
		return def, nil
	}
	def, err := prefabs.LoadFSM(name)
	if err != nil {
		return nil, err
	}
	l.defs[name] = def
	return def, nil
}

func (l *Level) spawnAgent(spawn prefabs.AgentSpawnSpec) (ecs.Entity, error) {
	spec, err := prefabs.LoadAgentSpec(spawn.Prefab)
	if err != nil {
		return 0, err
	}
	def, err := l.definition(spec.FSM)
	if err != nil {
		return 0, err
	}
	settings, err := prefabs.LoadMotorSettings(spec.Motor, spec.MotorOverrides)
	if err != nil {
		return 0, err
	}

	eye := spec.EyeHeight
	if eye == 0 {
		eye = settings.Height * 0.9
	}
	e, id, err := l.spawnCharacter(spawn.Position.Vec(), spec.Faction, eye, settings)
	if err != nil {
		return 0, err
	}

	self, ok := system.BodyOf(l.World, e)
	if !ok {
		return 0, fmt.Errorf("agent %s has no body", spec.Name)
	}
	agent, err := ai.New(ai.Config{
		Self:              self,
		Navigator:         l.Nav,
		Spatial:           l.Spatial,
		Definition:        def,
		Rand:              rand.New(rand.NewPCG(l.seed, uint64(id))),
		Logger:            l.logger.With(zap.String("agent", spec.Name)),
		Patrol:            prefabs.Vecs(spawn.Patrol),
		WaypointThreshold: spec.WaypointThreshold,
		PatrolStrength:    spec.PatrolStrength,
		ChaseStrength:     spec.ChaseStrength,
		AttackThreshold:   spec.AttackThreshold,
		NavSampleDistance: spec.NavSampleDistance,
	})
	if err != nil {
		return 0, fmt.Errorf("agent %s: %w", spec.Name, err)
	}

	w := l.World
	if err := ecs.Add(w, e, component.BrainComponent.Kind(), &component.Brain{Agent: agent}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.DetectorComponent.Kind(), &component.Detector{Radius: spec.DetectionRadius}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.AgentTagComponent.Kind(), &component.AgentTag{Prefab: spawn.Prefab}); err != nil {
		return 0, err
	}
	return e, nil
}

// Tick advances the world by dt seconds.
func (l *Level) Tick(dt float64) {
	l.Scheduler.Update(l.World, dt)
}
