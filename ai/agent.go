// Package ai is the perception and decision layer: target acquisition over
// a visible-candidate set, a data-driven state machine, and path following
// blended with steering. Each tick produces a motor.Intent.
package ai

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"

	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/fsm"
	"github.com/milk9111/agentmotor/motor"
	"github.com/milk9111/agentmotor/steering"
	"github.com/milk9111/agentmotor/world"
)

// ErrNoWaypoints is returned by New for an empty patrol route.
var ErrNoWaypoints = errors.New("ai: agent has no patrol waypoints")

type Config struct {
	Self       world.Body
	Navigator  world.Navigator
	Spatial    world.Spatial
	Definition *Definition
	// Rand drives wander; nil seeds one from the body id.
	Rand   *rand.Rand
	Logger *zap.Logger

	Patrol            []common.Vec3
	WaypointThreshold float64
	PatrolStrength    float64
	ChaseStrength     float64
	AttackThreshold   float64
	// NavSampleDistance bounds how far a point may be from the nav surface
	// and still count as on it.
	NavSampleDistance float64
	VisibilityMask    world.LayerMask
	NavFilter         world.AreaMask
}

func (c *Config) applyDefaults() {
	if c.WaypointThreshold <= 0 {
		c.WaypointThreshold = 0.5
	}
	if c.PatrolStrength == 0 {
		c.PatrolStrength = 5
	}
	if c.ChaseStrength == 0 {
		c.ChaseStrength = 3
	}
	if c.AttackThreshold == 0 {
		c.AttackThreshold = 3
	}
	if c.NavSampleDistance <= 0 {
		c.NavSampleDistance = 1
	}
	if c.VisibilityMask == 0 {
		c.VisibilityMask = world.AllLayers
	}
	if c.NavFilter == 0 {
		c.NavFilter = world.AllAreas
	}
}

// Agent owns one character's decision state. It is not safe for concurrent
// use; agents only share read-only world services.
type Agent struct {
	cfg     Config
	self    world.Body
	nav     world.Navigator
	spatial world.Spatial
	rng     *rand.Rand
	logger  *zap.Logger

	def     *Definition
	runner  *fsm.Runner[*Context]
	ctx     Context
	started bool

	// candidates keeps insertion order; the first visible one is acquired.
	candidates []world.Body
	target     world.Body

	patrolIndex int
	path        PathFollower
	// home is where the body stood when the agent was built.
	home        common.Vec3

	wish   common.Vec3
	sprint bool
	motor  motor.Status

	scripts map[*scriptCondition]*scriptRun
}

func New(cfg Config) (*Agent, error) {
	if len(cfg.Patrol) == 0 {
		return nil, ErrNoWaypoints
	}
	if cfg.Self == nil {
		return nil, fmt.Errorf("ai: agent without a body")
	}
	if cfg.Navigator == nil || cfg.Spatial == nil {
		return nil, fmt.Errorf("ai: agent %d: navigator and spatial are required", cfg.Self.ID())
	}
	if cfg.Definition == nil || cfg.Definition.Initial == nil {
		return nil, fmt.Errorf("ai: agent %d: no state machine definition", cfg.Self.ID())
	}
	cfg.applyDefaults()

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.Uint64("body", uint64(cfg.Self.ID())))

	rng := cfg.Rand
	if rng == nil {
		id := uint64(cfg.Self.ID())
		rng = rand.New(rand.NewPCG(id, id^0x9e3779b97f4a7c15))
	}

	a := &Agent{
		cfg:     cfg,
		self:    cfg.Self,
		nav:     cfg.Navigator,
		spatial: cfg.Spatial,
		rng:     rng,
		logger:  logger,
		def:     cfg.Definition,
		runner:  fsm.NewRunner[*Context](),
		path:    PathFollower{Threshold: cfg.WaypointThreshold, cursor: -1},
		home:    cfg.Self.Position(),
	}
	a.ctx.Agent = a
	a.runner.OnChange = func(from, to *fsm.State[*Context]) {
		a.logger.Debug("ai state change", zap.String("from", from.Name()), zap.String("to", to.Name()))
	}
	return a, nil
}

// Tick runs perception, the state machine and path following, in that order,
// and returns the intent for the motor.
func (a *Agent) Tick(dt float64) motor.Intent {
	a.ctx.DT = dt

	a.acquireTarget()

	if !a.started {
		a.started = true
		a.runner.ChangeState(&a.ctx, a.def.Initial)
	}
	a.runner.Run(&a.ctx)

	strength := a.cfg.PatrolStrength
	if a.target != nil {
		strength = a.cfg.ChaseStrength
	}
	a.path.Follow(a.self.Position(), &a.wish, strength, dt)

	return motor.Intent{Move: a.wish, Sprint: a.sprint}
}

// ObserveMotor feeds the motor status back for the hanging and grounded
// probes.
func (a *Agent) ObserveMotor(s motor.Status) {
	a.motor = s
}

func (a *Agent) OnTriggerEnter(other world.Body) {
	if !a.hostile(other) {
		return
	}
	for _, c := range a.candidates {
		if c.ID() == other.ID() {
			return
		}
	}
	a.candidates = append(a.candidates, other)
}

func (a *Agent) OnTriggerExit(other world.Body) {
	if !a.hostile(other) {
		return
	}
	for i, c := range a.candidates {
		if c.ID() == other.ID() {
			a.candidates = append(a.candidates[:i], a.candidates[i+1:]...)
			return
		}
	}
}

// Forget drops a body that no longer exists from the candidates and, if it
// was the target, from the target too.
func (a *Agent) Forget(id world.BodyID) {
	a.candidates = slices.DeleteFunc(a.candidates, func(c world.Body) bool { return c.ID() == id })
	if a.target != nil && a.target.ID() == id {
		a.logger.Debug("ai target vanished", zap.Uint64("target", uint64(id)))
		a.target = nil
	}
}

func (a *Agent) hostile(other world.Body) bool {
	return other != nil && other.ID() != a.self.ID() && other.Faction() != a.self.Faction()
}

func (a *Agent) acquireTarget() {
	if a.target != nil {
		if !a.canSee(a.target) {
			a.logger.Debug("ai lost target", zap.Uint64("target", uint64(a.target.ID())))
			a.target = nil
		}
		return
	}

	for _, c := range a.candidates {
		if a.canSee(c) {
			a.target = c
			a.logger.Debug("ai acquired target", zap.Uint64("target", uint64(c.ID())))
			return
		}
	}
}

// canSee treats a line blocked only by the candidate's own volume as clear.
func (a *Agent) canSee(other world.Body) bool {
	hit, blocked := a.spatial.Linecast(a.self.Eye(), other.Eye(), a.cfg.VisibilityMask)
	if !blocked {
		return true
	}
	return hit.Volume != nil && hit.Volume.Owner() == other.ID()
}

func (a *Agent) setDestination(to common.Vec3) bool {
	ok := a.path.SetDestination(a.nav, a.self.Position(), to, a.cfg.NavFilter)
	if !ok {
		a.logger.Debug("ai destination unreachable", zap.Float64("x", to.X), zap.Float64("y", to.Y), zap.Float64("z", to.Z))
	}
	return ok
}

func (a *Agent) requestPatrolPath() {
	a.setDestination(a.cfg.Patrol[a.patrolIndex])
}

func (a *Agent) returnHome() {
	a.setDestination(a.home)
}

// advancePatrol moves to the next waypoint, wrapping, once the current one
// is within the waypoint threshold.
func (a *Agent) advancePatrol() {
	thr := a.cfg.WaypointThreshold
	if a.waypointDistanceSq() >= thr*thr {
		return
	}
	a.patrolIndex = (a.patrolIndex + 1) % len(a.cfg.Patrol)
	a.requestPatrolPath()
}

// steerPatrol heads straight for the waypoint without a path.
func (a *Agent) steerPatrol() {
	thr := a.cfg.WaypointThreshold
	if a.waypointDistanceSq() < thr*thr {
		a.patrolIndex = (a.patrolIndex + 1) % len(a.cfg.Patrol)
	}
	a.wish = a.cfg.Patrol[a.patrolIndex].Sub(a.self.Position()).Normalized()
}

// chase steers straight at the target when the nav surface between the two
// is clear, and otherwise re-paths when the current path has gone stale.
func (a *Agent) chase(dt float64) {
	if a.target == nil {
		return
	}

	pos := a.self.Position()
	targetPos := a.target.Position()
	me, meOnNav := a.nav.SampleNearest(pos, a.cfg.NavSampleDistance)
	them, themOnNav := a.nav.SampleNearest(targetPos, a.cfg.NavSampleDistance)

	if meOnNav && themOnNav && !a.nav.Raycast(me, them) {
		a.steerToward(targetPos, dt)
		return
	}

	if !themOnNav {
		a.steerToward(targetPos, dt)
		return
	}

	stale := a.nav.Raycast(a.path.Destination(), them) || a.path.Reached()
	if stale {
		a.setDestination(them)
	}
}

func (a *Agent) steerToward(target common.Vec3, dt float64) {
	force := steering.Seek(a.self.Position(), target, a.wish, 1)
	a.blend(force, a.cfg.ChaseStrength, dt)
}

// blend adds a horizontal force of the given strength to the wish and
// renormalizes it.
func (a *Agent) blend(force common.Vec3, strength, dt float64) {
	force.Y = 0
	a.wish = a.wish.Add(force.Normalized().Scale(strength * dt)).Normalized()
}

func (a *Agent) Self() world.Body {
	return a.self
}

func (a *Agent) Target() world.Body {
	return a.target
}

func (a *Agent) Candidates() []world.Body {
	return a.candidates
}

// Home is the spawn position the return_home action walks back to.
func (a *Agent) Home() common.Vec3 {
	return a.home
}

func (a *Agent) PatrolIndex() int {
	return a.patrolIndex
}

func (a *Agent) Path() *PathFollower {
	return &a.path
}

// Wish is the current blended move direction.
func (a *Agent) Wish() common.Vec3 {
	return a.wish
}

func (a *Agent) Sprint() bool {
	return a.sprint
}

func (a *Agent) State() *fsm.State[*Context] {
	return a.runner.Current()
}

func (a *Agent) StateName() string {
	return a.runner.Current().Name()
}

func (a *Agent) PreviousStateName() string {
	return a.runner.Previous().Name()
}
