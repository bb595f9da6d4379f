package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/IllumuIll/rescue-ai/internal/config"
	"github.com/IllumuIll/rescue-ai/internal/core"
	"github.com/IllumuIll/rescue-ai/internal/platform/tui"
	"github.com/IllumuIll/rescue-ai/internal/registry"
	"github.com/IllumuIll/rescue-ai/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a pilot and preset interactively",
	Long: `Start in interactive menu mode.

Pick manual control or a registered policy and cycle the curriculum preset,
then watch the episodes. Quitting the viewer returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change preset
  Enter/Space  - Start the viewer
  Tab          - Browse recorded episodes
  Q            - Quit

Examples:
  rescue menu
  rescue menu --fps 30
  rescue menu --db ./episodes.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	// Uses global flags from main.go (--fps, --seed, --db, --config)
	rootCmd.AddCommand(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open episode database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	logger, closeLog, err := viewerLogger()
	exitOnError("opening log file", err)
	defer closeLog()

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Menu loop
	for {
		res, err := tui.RunMenu(rt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		rt = res.Config

		if res.Quit {
			return
		}

		if res.WantHistory {
			if err := tui.RunHistory(store, rt.ScreenW, rt.ScreenH); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			continue // Back to menu
		}

		cfg, err := config.Load(flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return
		}
		config.ApplyPreset(&cfg, res.Preset)

		var policy registry.Policy
		if res.PolicyID != "" {
			policy, err = registry.Create(res.PolicyID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating policy: %v\n", err)
				continue
			}
		}

		if err := runViewer(cfg, rt, policy, store, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
			return
		}
	}
}
