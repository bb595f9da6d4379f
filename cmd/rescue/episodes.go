package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/IllumuIll/rescue-ai/internal/platform/tui"
	"github.com/IllumuIll/rescue-ai/internal/storage"
)

var (
	flagEpisodesLimit  int
	flagEpisodesBrowse bool
	flagEpisodesClear  bool
	flagEpisodesID     string
)

var episodesCmd = &cobra.Command{
	Use:   "episodes [policy]",
	Short: "Show recorded episodes",
	Long: `Display recent episodes and per-policy statistics from the episode
database. Without a policy, every policy is shown.

Examples:
  rescue episodes
  rescue episodes greedy --limit 50
  rescue episodes --browse
  rescue episodes --id 0b6f2c1e-...
  rescue episodes random --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEpisodes,
}

func init() {
	episodesCmd.Flags().IntVar(&flagEpisodesLimit, "limit", 10, "Number of recent episodes to list")
	episodesCmd.Flags().BoolVar(&flagEpisodesBrowse, "browse", false, "Open the interactive history browser")
	episodesCmd.Flags().BoolVar(&flagEpisodesClear, "clear", false, "Delete the recorded episodes of the policy")
	episodesCmd.Flags().StringVar(&flagEpisodesID, "id", "", "Show one episode in detail")
}

func runEpisodes(cmd *cobra.Command, args []string) {
	policy := ""
	if len(args) == 1 {
		policy = args[0]
	}

	store, err := storage.Open(flagDBPath)
	exitOnError("opening episode database", err)
	defer store.Close()

	if flagEpisodesID != "" {
		rec, err := store.EpisodeByID(flagEpisodesID)
		exitOnError("retrieving episode", err)
		if rec == nil {
			fmt.Fprintf(os.Stderr, "Error: no episode with id %q\n", flagEpisodesID)
			os.Exit(1)
		}
		fmt.Print(formatEpisode(*rec))
		return
	}

	if flagEpisodesClear {
		if policy == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a policy")
			os.Exit(1)
		}
		exitOnError("clearing episodes", store.ClearEpisodes(policy))
		fmt.Printf("Cleared episodes of %s.\n", policy)
		return
	}

	if flagEpisodesBrowse {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		exitOnError("running history browser", tui.RunHistory(store, width, height))
		return
	}

	printPolicyStats(store, policy)
	printRecentEpisodes(store, policy)
}

func printPolicyStats(store *storage.Store, policy string) {
	all, err := store.GetAllPolicyStats()
	exitOnError("retrieving statistics", err)

	ids := make([]string, 0, len(all))
	for id := range all {
		if policy == "" || id == policy {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	if len(ids) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Println("Run 'rescue run' to record some.")
		return
	}

	fmt.Println("Policy statistics")
	fmt.Println()
	fmt.Printf("  %-10s  %8s  %8s  %10s  %10s  %9s\n", "Policy", "Episodes", "Success", "AvgReward", "BestReward", "AvgSteps")
	fmt.Printf("  %-10s  %8s  %8s  %10s  %10s  %9s\n", "------", "--------", "-------", "---------", "----------", "--------")
	for _, id := range ids {
		s := all[id]
		fmt.Printf("  %-10s  %8d  %7.1f%%  %10.3f  %10.3f  %9.1f\n",
			id, s.Episodes, s.SuccessRate*100, s.AvgReward, s.BestReward, s.AvgSteps)
	}
	fmt.Println()
}

func printRecentEpisodes(store *storage.Store, policy string) {
	recs, err := store.RecentEpisodes(policy, flagEpisodesLimit)
	exitOnError("retrieving episodes", err)
	if len(recs) == 0 {
		return
	}

	fmt.Println("Recent episodes")
	fmt.Println()
	fmt.Printf("  %-36s  %-10s  %-9s  %6s  %10s  %-20s  %s\n", "ID", "Policy", "Outcome", "Steps", "Reward", "Seed", "Date")
	fmt.Printf("  %-36s  %-10s  %-9s  %6s  %10s  %-20s  %s\n", "--", "------", "-------", "-----", "------", "----", "----")
	for _, r := range recs {
		fmt.Printf("  %-36s  %-10s  %-9s  %6d  %10.3f  %-20d  %s\n",
			r.ID, r.Policy, r.Outcome, r.Steps, r.TotalReward, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

// formatEpisode renders every field of one recorded episode.
func formatEpisode(r storage.EpisodeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Episode %s\n\n", r.ID)
	fmt.Fprintf(&b, "  %-12s %s\n", "Policy", r.Policy)
	fmt.Fprintf(&b, "  %-12s %d\n", "Seed", r.Seed)
	fmt.Fprintf(&b, "  %-12s %s\n", "Outcome", r.Outcome)
	fmt.Fprintf(&b, "  %-12s %d\n", "Steps", r.Steps)
	fmt.Fprintf(&b, "  %-12s %.3f\n", "Reward", r.TotalReward)
	fmt.Fprintf(&b, "  %-12s %d\n", "Pickups", r.Pickups)
	fmt.Fprintf(&b, "  %-12s %d\n", "Deliveries", r.Deliveries)
	fmt.Fprintf(&b, "  %-12s %d\n", "Collisions", r.Collisions)
	fmt.Fprintf(&b, "  %-12s %d\n", "Respawns", r.Respawns)
	fmt.Fprintf(&b, "  %-12s %s\n", "Recorded", r.CreatedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}
