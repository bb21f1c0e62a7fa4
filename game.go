package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milk9111/agentmotor/ai"
	"github.com/milk9111/agentmotor/common"
	"github.com/milk9111/agentmotor/ecs"
	"github.com/milk9111/agentmotor/ecs/component"
	"github.com/milk9111/agentmotor/ecs/entity"
	"github.com/milk9111/agentmotor/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// pixels per world unit
	worldScale = 20
	tickDT     = 1.0 / 60.0
)

var (
	playerColor = color.NRGBA{R: 0x40, G: 0xc0, B: 0x60, A: 0xff}
	patrolColor = color.NRGBA{R: 0xe0, G: 0xa0, B: 0x30, A: 0xff}
	chaseColor  = color.NRGBA{R: 0xe0, G: 0x40, B: 0x40, A: 0xff}
	otherColor  = color.NRGBA{R: 0x90, G: 0x90, B: 0xd0, A: 0xff}
	rangeColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x30}
	pathColor   = color.NRGBA{R: 0x60, G: 0xa0, B: 0xff, A: 0xa0}
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the sandbox window",
	Long: `Opens the level in a window. WASD moves, Space jumps, Shift sprints,
C crouches, F toggles floating, R reloads the level and F12 quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		game, err := NewGame(levelName, logger)
		if err != nil {
			return err
		}
		defer game.Close()

		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetWindowSize(baseWidth, baseHeight)
		ebiten.SetWindowTitle("agentmotor - " + levelName)
		ebiten.SetTPS(int(1 / tickDT))

		if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
			return err
		}
		return nil
	},
}

type Game struct {
	frames int

	levelName string
	level     *entity.Level
	logger    *zap.Logger
	watcher   *prefabs.Watcher
}

func NewGame(levelName string, logger *zap.Logger) (*Game, error) {
	g := &Game{levelName: levelName, logger: logger}
	if err := g.reload(); err != nil {
		return nil, err
	}

	// Hot reload only when there is an on-disk prefab tree to watch.
	if info, err := os.Stat(prefabs.Dir); err == nil && info.IsDir() {
		w, err := prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			logger.Warn("prefab watcher disabled", zap.String("dir", prefabs.Dir), zap.Error(err))
		} else {
			g.watcher = w
			logger.Info("watching prefabs", zap.String("dir", prefabs.Dir))
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

// reload rebuilds the level from its specs. On failure the running level
// is kept.
func (g *Game) reload() error {
	lvl, err := entity.Load(g.levelName, entity.Options{Logger: g.logger, Seed: seed})
	if err != nil {
		return err
	}
	g.level = lvl
	return nil
}

// drainWatcher reloads once for any number of pending spec edits.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Info("prefab changed", zap.String("name", name))
			changed = true
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("prefab watcher", zap.Error(err))
			}
		default:
			if changed {
				if err := g.reload(); err != nil {
					g.logger.Error("reload failed", zap.Error(err))
				}
			}
			return
		}
	}
}

func (g *Game) sideView() bool {
	return g.level.Spec.Physics == prefabs.PhysicsChipmunk
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.reload(); err != nil {
			g.logger.Error("reload failed", zap.Error(err))
		}
	}
	g.drainWatcher()

	if in, ok := ecs.Get(g.level.World, g.level.Player, component.InputComponent.Kind()); ok {
		pollInput(in, g.sideView())
	}
	g.level.Tick(tickDT)
	return nil
}

// project maps a world point to the screen: top-down on XZ with +Z up, or
// side-on on XY for chipmunk levels. The player is kept centered.
func (g *Game) project(p common.Vec3) (float32, float32) {
	var focus common.Vec3
	if tr, ok := ecs.Get(g.level.World, g.level.Player, component.TransformComponent.Kind()); ok {
		focus = tr.Position
	}
	d := p.Sub(focus)
	up := d.Z
	if g.sideView() {
		up = d.Y
	}
	return float32(baseWidth/2 + d.X*worldScale), float32(baseHeight/2 - up*worldScale)
}

func (g *Game) drawBox(screen *ebiten.Image, lo, hi common.Vec3, clr color.Color) {
	x0, y0 := g.project(lo)
	x1, y1 := g.project(hi)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, clr, false)
}

func (g *Game) Draw(screen *ebiten.Image) {
	lvl := g.level
	for _, s := range lvl.Statics {
		g.drawBox(screen, s.Min, s.Max, s.Color)
	}

	ecs.ForEach2(lvl.World, component.ActorComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, actor *component.Actor, tr *component.Transform) {
		x, y := g.project(tr.Position)
		clr := color.Color(otherColor)

		if brain, ok := ecs.Get(lvl.World, e, component.BrainComponent.Kind()); ok {
			g.drawAgent(screen, e, brain.Agent)
			switch brain.Agent.StateName() {
			case ai.StatePatrol:
				clr = patrolColor
			case ai.StateChase, ai.StateAttack:
				clr = chaseColor
			}
		}
		if ecs.Has(lvl.World, e, component.PlayerTagComponent.Kind()) {
			clr = playerColor
		}

		vector.DrawFilledCircle(screen, x, y, 0.4*worldScale, clr, true)
		heading := common.YawDirection(tr.Yaw).Scale(0.8)
		if g.sideView() {
			heading = common.V3(heading.X, 0, 0)
		}
		hx, hy := g.project(tr.Position.Add(heading))
		vector.StrokeLine(screen, x, y, hx, hy, 2, color.White, true)
	})

	status := ""
	if loco, ok := ecs.Get(lvl.World, lvl.Player, component.LocomotionComponent.Kind()); ok && loco.Motor != nil {
		status = fmt.Sprintf("motor: %s  speed: %.2f", loco.Motor.State(), loco.Signals.Speed)
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  FPS: %.1f  %s", lvl.Spec.Name, ebiten.ActualFPS(), status))
}

func (g *Game) drawAgent(screen *ebiten.Image, e ecs.Entity, agent *ai.Agent) {
	lvl := g.level
	if det, ok := ecs.Get(lvl.World, e, component.DetectorComponent.Kind()); ok {
		cx, cy := g.project(agent.Self().Eye())
		vector.StrokeCircle(screen, cx, cy, float32(det.Radius*worldScale), 1, rangeColor, true)
	}

	if target := agent.Target(); target != nil {
		x0, y0 := g.project(agent.Self().Eye())
		x1, y1 := g.project(target.Eye())
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, chaseColor, true)
	}

	path := agent.Path()
	if !path.Active() {
		return
	}
	corners := path.Corners()
	for i := path.Cursor(); i < len(corners); i++ {
		from := agent.Self().Position()
		if i > path.Cursor() {
			from = corners[i-1]
		}
		x0, y0 := g.project(from)
		x1, y1 := g.project(corners[i])
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, pathColor, true)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
