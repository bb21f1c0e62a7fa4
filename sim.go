package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milk9111/agentmotor/ecs"
	"github.com/milk9111/agentmotor/ecs/component"
	"github.com/milk9111/agentmotor/ecs/entity"
)

var (
	simTicks int
	simDT    float64
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a level headless for a fixed number of ticks",
	Long: `Builds the level without a window, steps it at a fixed tick length and
logs where every agent ended up and which state it is in.`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVarP(&simTicks, "ticks", "n", 600, "Number of ticks to simulate")
	simCmd.Flags().Float64Var(&simDT, "dt", 1.0/60.0, "Tick length in seconds")
}

func runSim(cmd *cobra.Command, args []string) error {
	if simTicks < 0 || simDT <= 0 {
		return fmt.Errorf("sim: need ticks >= 0 and dt > 0, got %d and %g", simTicks, simDT)
	}

	level, err := entity.Load(levelName, entity.Options{Logger: logger, Seed: seed})
	if err != nil {
		return err
	}

	for i := 0; i < simTicks; i++ {
		level.Tick(simDT)
	}

	for _, e := range level.Agents {
		brain, ok := ecs.Get(level.World, e, component.BrainComponent.Kind())
		if !ok {
			continue
		}
		loco, _ := ecs.Get(level.World, e, component.LocomotionComponent.Kind())
		tag, _ := ecs.Get(level.World, e, component.AgentTagComponent.Kind())

		fields := []zap.Field{
			zap.Stringer("entity", e),
			zap.String("state", brain.Agent.StateName()),
			zap.Int("patrol_index", brain.Agent.PatrolIndex()),
			zap.Bool("has_target", brain.Agent.Target() != nil),
		}
		if tag != nil {
			fields = append(fields, zap.String("prefab", tag.Prefab))
		}
		if loco != nil && loco.Motor != nil {
			p := loco.Motor.Position()
			fields = append(fields,
				zap.Stringer("motor", loco.Motor.State()),
				zap.Float64("x", p.X), zap.Float64("y", p.Y), zap.Float64("z", p.Z))
		}
		logger.Info("agent", fields...)
	}
	logger.Info("sim done",
		zap.String("level", levelName),
		zap.Int("ticks", simTicks),
		zap.Float64("seconds", float64(simTicks)*simDT))
	return nil
}
