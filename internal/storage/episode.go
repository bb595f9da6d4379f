package storage

import "github.com/IllumuIll/rescue-ai/internal/env"

// OutcomeTruncated labels an episode the driver stopped before it terminated.
const OutcomeTruncated = "truncated"

// FromEpisode converts an environment episode summary into a record.
// A non-terminal episode is stored as truncated.
func FromEpisode(policy string, ep env.Episode) EpisodeRecord {
	outcome := OutcomeTruncated
	if ep.Done() {
		outcome = ep.Outcome.String()
	}
	return EpisodeRecord{
		Policy:      policy,
		Seed:        ep.Seed,
		Steps:       ep.Steps,
		TotalReward: ep.TotalReward,
		Outcome:     outcome,
		Pickups:     ep.Stats.Pickups,
		Deliveries:  ep.Stats.Deliveries,
		Collisions:  ep.Stats.Collisions,
		Respawns:    ep.Stats.Respawns,
	}
}
