// Package storage provides SQLite-based persistence for finished episode summaries.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for episode persistence.
type Store struct {
	db *sql.DB
}

// EpisodeRecord is the stored summary of one finished episode.
type EpisodeRecord struct {
	ID          string // UUID, assigned by SaveEpisode when empty
	Policy      string
	Seed        int64
	Steps       int
	TotalReward float64
	Outcome     string // "success", "mistake" or "truncated"
	Pickups     int
	Deliveries  int
	Collisions  int
	Respawns    int
	CreatedAt   time.Time
}

// PolicyStats contains aggregated statistics for one policy.
type PolicyStats struct {
	Policy      string
	Episodes    int
	Successes   int
	Mistakes    int
	AvgReward   float64
	BestReward  float64
	AvgSteps    float64
	LastRun     time.Time
	SuccessRate float64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			policy TEXT NOT NULL,
			seed INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			total_reward REAL NOT NULL,
			outcome TEXT NOT NULL,
			pickups INTEGER NOT NULL DEFAULT 0,
			deliveries INTEGER NOT NULL DEFAULT 0,
			collisions INTEGER NOT NULL DEFAULT 0,
			respawns INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_policy ON episodes(policy);
		CREATE INDEX IF NOT EXISTS idx_episodes_created ON episodes(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEpisode records a finished episode and returns its ID.
func (s *Store) SaveEpisode(rec EpisodeRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO episodes
		 (id, policy, seed, steps, total_reward, outcome, pickups, deliveries, collisions, respawns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Policy,
		rec.Seed,
		rec.Steps,
		rec.TotalReward,
		rec.Outcome,
		rec.Pickups,
		rec.Deliveries,
		rec.Collisions,
		rec.Respawns,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save episode: %w", err)
	}

	return rec.ID, nil
}

// RecentEpisodes retrieves the most recent episodes, newest first.
// An empty policy matches every policy.
func (s *Store) RecentEpisodes(policy string, limit int) ([]EpisodeRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, policy, seed, steps, total_reward, outcome,
		        pickups, deliveries, collisions, respawns, created_at
		 FROM episodes
		 WHERE ? = '' OR policy = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		policy, policy, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var records []EpisodeRecord
	for rows.Next() {
		var rec EpisodeRecord
		var createdAt any
		if err := rows.Scan(
			&rec.ID,
			&rec.Policy,
			&rec.Seed,
			&rec.Steps,
			&rec.TotalReward,
			&rec.Outcome,
			&rec.Pickups,
			&rec.Deliveries,
			&rec.Collisions,
			&rec.Respawns,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// EpisodeByID retrieves a single episode. Returns nil if it does not exist.
func (s *Store) EpisodeByID(id string) (*EpisodeRecord, error) {
	var rec EpisodeRecord
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, policy, seed, steps, total_reward, outcome,
		        pickups, deliveries, collisions, respawns, created_at
		 FROM episodes
		 WHERE id = ?`,
		id,
	).Scan(
		&rec.ID,
		&rec.Policy,
		&rec.Seed,
		&rec.Steps,
		&rec.TotalReward,
		&rec.Outcome,
		&rec.Pickups,
		&rec.Deliveries,
		&rec.Collisions,
		&rec.Respawns,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episode: %w", err)
	}

	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

// ClearEpisodes deletes all episodes recorded for the given policy.
func (s *Store) ClearEpisodes(policy string) error {
	_, err := s.db.Exec("DELETE FROM episodes WHERE policy = ?", policy)
	if err != nil {
		return fmt.Errorf("storage: cannot clear episodes: %w", err)
	}
	return nil
}

// GetPolicyStats retrieves aggregated statistics for a specific policy.
func (s *Store) GetPolicyStats(policy string) (*PolicyStats, error) {
	stats := &PolicyStats{Policy: policy}

	var lastRun any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(outcome = 'success'), 0),
		        COALESCE(SUM(outcome = 'mistake'), 0),
		        COALESCE(AVG(total_reward), 0),
		        COALESCE(MAX(total_reward), 0),
		        COALESCE(AVG(steps), 0),
		        MAX(created_at)
		 FROM episodes WHERE policy = ?`,
		policy,
	).Scan(&stats.Episodes, &stats.Successes, &stats.Mistakes,
		&stats.AvgReward, &stats.BestReward, &stats.AvgSteps, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get policy stats: %w", err)
	}

	stats.LastRun = parseTime(lastRun)
	stats.finish()
	return stats, nil
}

// GetAllPolicyStats retrieves statistics for every policy that has recorded episodes.
func (s *Store) GetAllPolicyStats() (map[string]*PolicyStats, error) {
	rows, err := s.db.Query(
		`SELECT policy, COUNT(*),
		        SUM(outcome = 'success'),
		        SUM(outcome = 'mistake'),
		        AVG(total_reward),
		        MAX(total_reward),
		        AVG(steps),
		        MAX(created_at)
		 FROM episodes
		 GROUP BY policy`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all policy stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*PolicyStats)
	for rows.Next() {
		var ps PolicyStats
		var lastRun any
		if err := rows.Scan(&ps.Policy, &ps.Episodes, &ps.Successes, &ps.Mistakes,
			&ps.AvgReward, &ps.BestReward, &ps.AvgSteps, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ps.LastRun = parseTime(lastRun)
		ps.finish()
		stats[ps.Policy] = &ps
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

func (ps *PolicyStats) finish() {
	if ps.Episodes > 0 {
		ps.SuccessRate = float64(ps.Successes) / float64(ps.Episodes)
	}
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
