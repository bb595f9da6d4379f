// rescue drives the rescue environment from the terminal.
//
// Usage:
//
//	rescue run               - Run episodes with a policy and record them
//	rescue watch             - Watch a policy or pilot the rescuer live
//	rescue menu              - Pick a pilot and preset interactively
//	rescue episodes          - Show recorded episodes and policy statistics
//	rescue policies          - List available policies
//	rescue config            - Print the default scene configuration
//	rescue frame <file.png>  - Render the first frame of an episode
//
// Global flags:
//
//	--fps <rate>        - Set the viewer tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible episodes
//	--db <path>         - Set database path (default: ~/.rescue/episodes.db)
//	--config <path>     - Scene configuration YAML
//	--preset <name>     - Curriculum preset: easy, normal, hard
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/IllumuIll/rescue-ai/internal/config"

	// Import policies to register them
	_ "github.com/IllumuIll/rescue-ai/internal/policy/greedy"
	_ "github.com/IllumuIll/rescue-ai/internal/policy/random"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rescue",
	Short: "Rescue - a deterministic pickup-and-delivery environment",
	Long: `Rescue simulates a small spacecraft that must collect a target and
deliver it to a mothership while drifting asteroids cross the field.

Available commands:
  run       - Run episodes with a registered policy
  watch     - Watch a policy live or fly the rescuer yourself
  menu      - Pick a pilot and preset interactively
  episodes  - Show recorded episodes
  policies  - List available policies
  config    - Print the default configuration
  frame     - Render a scene frame to PNG

Examples:
  rescue run --policy greedy --episodes 20 --seed 1
  rescue watch --policy random
  rescue watch --preset hard
  rescue episodes greedy`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Viewer tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.rescue/episodes.db", "Path to episode database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom scene config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Curriculum preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(frameCmd)
}

// newLogger builds the stderr logger for the selected level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rescue",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig resolves the scene configuration and applies the preset.
func loadConfig() (config.RescueConfig, error) {
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return config.RescueConfig{}, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.RescueConfig{}, err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, nil
}

// baseSeed returns the --seed value or a time-based seed.
func baseSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// exitOnError prints err to stderr and exits.
func exitOnError(context string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
		os.Exit(1)
	}
}
