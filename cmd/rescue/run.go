package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IllumuIll/rescue-ai/internal/env"
	"github.com/IllumuIll/rescue-ai/internal/registry"
	"github.com/IllumuIll/rescue-ai/internal/storage"
)

var (
	flagRunPolicy   string
	flagRunEpisodes int
	flagRunMaxSteps int
	flagRunRender   bool
	flagRunCheck    bool
	flagRunNoStore  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run episodes with a policy",
	Long: `Run a number of episodes headless with a registered policy.
Episode i uses seed --seed + i, so a run is reproducible from its seed.
Every finished episode is logged and recorded in the episode database.
The log line carries a hash of the final world state; equal seeds, config
and policy give equal hashes.

The environment never truncates an episode; --max-steps stops an episode
early and records it as truncated.

Examples:
  rescue run --policy greedy --episodes 50 --seed 1
  rescue run --policy random --max-steps 500 --log-level debug
  rescue run --preset easy --check`,
	Args: cobra.NoArgs,
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagRunPolicy, "policy", "greedy", "Policy ID (see 'rescue policies')")
	runCmd.Flags().IntVar(&flagRunEpisodes, "episodes", 10, "Number of episodes to run")
	runCmd.Flags().IntVar(&flagRunMaxSteps, "max-steps", 3000, "Stop an episode after this many steps (0 = never)")
	runCmd.Flags().BoolVar(&flagRunRender, "render", false, "Rasterise the image channel of every observation")
	runCmd.Flags().BoolVar(&flagRunCheck, "check", false, "Verify world invariants after every step")
	runCmd.Flags().BoolVar(&flagRunNoStore, "no-store", false, "Do not record episodes")
}

func runRun(cmd *cobra.Command, args []string) {
	logger := newLogger()

	if !registry.Exists(flagRunPolicy) {
		fmt.Fprintf(os.Stderr, "Error: unknown policy %q\n", flagRunPolicy)
		fmt.Fprintln(os.Stderr, "Run 'rescue policies' to see available policies.")
		os.Exit(1)
	}
	policy, err := registry.Create(flagRunPolicy)
	exitOnError("creating policy", err)

	cfg, err := loadConfig()
	exitOnError("loading config", err)

	var store *storage.Store
	if !flagRunNoStore {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open episode database", "error", err)
			// Continue without storage
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
	}

	opts := []env.Option{env.WithLogger(logger)}
	if !flagRunRender {
		opts = append(opts, env.WithRenderer(nil))
	}
	e := env.New(cfg, opts...)
	logger.Debug("environment ready",
		"policy", policy.ID(),
		"actions", e.NumActions(),
		"asteroids", cfg.Asteroids.Count,
		"width", cfg.World.Width,
		"height", cfg.World.Height,
	)

	base := baseSeed()
	var successes, mistakes, truncated int
	var totalReward float64

	for i := 0; i < flagRunEpisodes; i++ {
		seed := base + int64(i)
		obs := e.Reset(seed)
		policy.Reset(seed)

		for {
			res := e.Step(policy.Act(obs))
			if flagRunCheck {
				if err := e.World().CheckInvariants(); err != nil {
					logger.Error("invariant check failed", "episode", i, "seed", seed, "step", e.Episode().Steps, "error", err)
					os.Exit(1)
				}
			}
			if res.Terminated {
				break
			}
			if flagRunMaxSteps > 0 && e.Episode().Steps >= flagRunMaxSteps {
				break
			}
			obs = res.Observation
		}

		rec := storage.FromEpisode(policy.ID(), e.Episode())
		snap := e.World().Snapshot()
		switch rec.Outcome {
		case "success":
			successes++
		case "mistake":
			mistakes++
		default:
			truncated++
		}
		totalReward += rec.TotalReward

		logger.Info("episode finished",
			"episode", i,
			"seed", rec.Seed,
			"steps", rec.Steps,
			"reward", fmt.Sprintf("%.3f", rec.TotalReward),
			"outcome", rec.Outcome,
			"pickups", rec.Pickups,
			"deliveries", rec.Deliveries,
			"state", fmt.Sprintf("%016x", snap.Hash()),
		)

		if store != nil {
			if _, err := store.SaveEpisode(rec); err != nil {
				logger.Warn("could not record episode", "error", err)
			}
		}
	}

	if flagRunEpisodes > 0 {
		fmt.Printf("Policy %s: %d episodes, %d success, %d mistake, %d truncated, avg reward %.3f\n",
			policy.ID(), flagRunEpisodes, successes, mistakes, truncated, totalReward/float64(flagRunEpisodes))
	}
}
