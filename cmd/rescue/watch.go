package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/IllumuIll/rescue-ai/internal/config"
	"github.com/IllumuIll/rescue-ai/internal/core"
	"github.com/IllumuIll/rescue-ai/internal/env"
	"github.com/IllumuIll/rescue-ai/internal/platform/tui"
	"github.com/IllumuIll/rescue-ai/internal/registry"
	"github.com/IllumuIll/rescue-ai/internal/storage"
)

var (
	flagWatchPolicy   string
	flagWatchMaxSteps int
	flagWatchLogFile  string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a policy or pilot the rescuer",
	Long: `Open the live viewer. Without --policy you fly the rescuer yourself.

Controls:
  Arrows/WASD  - Thrust left, down, right, up
  Tab          - Switch between policy and manual control
  P/Space      - Pause
  R            - New episode (next seed)
  Ctrl+S       - Save a text screenshot
  ?            - Toggle full help
  Q/Esc        - Quit

Examples:
  rescue watch
  rescue watch --policy greedy --fps 30
  rescue watch --policy random --max-steps 600 --log-file rescue.log`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchPolicy, "policy", "", "Policy ID to start with (empty = manual control)")
	watchCmd.Flags().IntVar(&flagWatchMaxSteps, "max-steps", 0, "Stop an episode after this many steps (0 = never)")
	watchCmd.Flags().StringVar(&flagWatchLogFile, "log-file", "", "Write logs to this file while the viewer runs")
}

func runWatch(cmd *cobra.Command, args []string) {
	var policy registry.Policy
	if flagWatchPolicy != "" {
		if !registry.Exists(flagWatchPolicy) {
			fmt.Fprintf(os.Stderr, "Error: unknown policy %q\n", flagWatchPolicy)
			fmt.Fprintln(os.Stderr, "Run 'rescue policies' to see available policies.")
			os.Exit(1)
		}
		p, err := registry.Create(flagWatchPolicy)
		exitOnError("creating policy", err)
		policy = p
	}

	cfg, err := loadConfig()
	exitOnError("loading config", err)

	logger, closeLog, err := viewerLogger()
	exitOnError("opening log file", err)
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open episode database: %v\n", err)
		// Continue without storage - the viewer still works
		store = nil
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
	runErr := runViewer(cfg, rt, policy, store, logger)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", runErr)
		os.Exit(1)
	}
}

// runViewer opens the live viewer on a fresh environment.
func runViewer(cfg config.RescueConfig, rt core.RuntimeConfig, policy registry.Policy, store *storage.Store, logger *log.Logger) error {
	e := env.New(cfg, env.WithLogger(logger), env.WithRenderer(nil))
	return tui.Run(e, rt, tui.Options{
		Policy:   policy,
		Store:    store,
		Logger:   logger,
		MaxSteps: flagWatchMaxSteps,
	})
}

// viewerLogger returns a logger writing to --log-file, or discarding when
// no file is given. The alternate screen owns the terminal.
func viewerLogger() (*log.Logger, func(), error) {
	logger := newLogger()
	if flagWatchLogFile == "" {
		logger.SetOutput(io.Discard)
		return logger, func() {}, nil
	}
	f, err := os.OpenFile(flagWatchLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(f)
	return logger, func() { f.Close() }, nil
}
