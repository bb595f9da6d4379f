package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/IllumuIll/rescue-ai/internal/storage"
)

func TestFormatEpisodeFromStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "episodes.db"))
	if err != nil {
		t.Fatalf("storage.Open failed: %v", err)
	}
	defer store.Close()

	id, err := store.SaveEpisode(storage.EpisodeRecord{
		Policy:      "greedy",
		Seed:        42,
		Steps:       310,
		TotalReward: 9.5,
		Outcome:     "success",
		Pickups:     1,
		Deliveries:  1,
	})
	if err != nil {
		t.Fatalf("SaveEpisode failed: %v", err)
	}

	rec, err := store.EpisodeByID(id)
	if err != nil || rec == nil {
		t.Fatalf("EpisodeByID(%q) = %v, %v", id, rec, err)
	}

	out := formatEpisode(*rec)
	for _, want := range []string{"Episode " + id, "greedy", "42", "success", "310", "9.500"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatEpisode() missing %q:\n%s", want, out)
		}
	}
}
