package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/milk9111/agentmotor/prefabs"
)

var (
	verbose   bool
	levelName string
	seed      uint64
	prefabDir string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "agentmotor",
	Short: "Patrol/chase agents on a character motor",
	Long: `agentmotor runs the patrol and chase sandbox.

Agents patrol their waypoints, chase hostile actors they can see, and move
through a grounded/falling/hanging/floating character motor. Level, agent,
motor and FSM specs are YAML prefabs; with --prefabs pointing at a directory
the files there override the embedded ones and are reloaded on edit.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config = zap.NewDevelopmentConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if prefabDir != "" {
			prefabs.Dir = prefabDir
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&levelName, "level", "l", "levels/sandbox.yaml", "Level prefab to load")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 1, "Seed for agent randomness")
	rootCmd.PersistentFlags().StringVar(&prefabDir, "prefabs", "", "Directory whose specs override the embedded prefabs")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
