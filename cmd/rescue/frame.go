package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IllumuIll/rescue-ai/internal/env"
	"github.com/IllumuIll/rescue-ai/internal/registry"
	"github.com/IllumuIll/rescue-ai/internal/render"
)

var (
	flagFrameSteps  int
	flagFramePolicy string
)

var frameCmd = &cobra.Command{
	Use:   "frame <file.png>",
	Short: "Render a scene frame to PNG",
	Long: `Seed an episode, optionally advance it with a policy, and save the
full scene raster that feeds the observation image channel.

Examples:
  rescue frame start.png --seed 7
  rescue frame later.png --seed 7 --steps 120 --policy greedy`,
	Args: cobra.ExactArgs(1),
	Run:  runFrame,
}

func init() {
	frameCmd.Flags().IntVar(&flagFrameSteps, "steps", 0, "Steps to advance before rendering")
	frameCmd.Flags().StringVar(&flagFramePolicy, "policy", "greedy", "Policy used to advance the episode")
}

func runFrame(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError("loading config", err)

	policy, err := registry.Create(flagFramePolicy)
	exitOnError("creating policy", err)

	seed := baseSeed()
	e := env.New(cfg, env.WithLogger(newLogger()), env.WithRenderer(nil))
	obs := e.Reset(seed)
	policy.Reset(seed)

	for i := 0; i < flagFrameSteps; i++ {
		res := e.Step(policy.Act(obs))
		if res.Terminated {
			break
		}
		obs = res.Observation
	}

	canvas := render.NewCanvas(int(cfg.World.Width), int(cfg.World.Height))
	exitOnError("saving frame", canvas.SavePNG(e.World(), args[0]))

	ep := e.Episode()
	fmt.Printf("Saved %s (seed %d, step %d, %s)\n", args[0], seed, ep.Steps, ep.Outcome)
}
