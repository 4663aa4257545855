// Package storage provides SQLite-based persistence for player records and
// run history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
	"github.com/vovakirdan/candle-dodge/internal/records"
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry is one finished run from the history table.
type RunEntry struct {
	ID        int64
	RunID     string
	Player    string
	Tier      sim.Tier
	Mode      sim.Mode
	Score     int
	Reason    string
	ElapsedMs int64
	Spawned   int
	EndedAt   time.Time
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

	// Create parent directories
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
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL,
			tier TEXT NOT NULL,
			survival INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL,
			reason TEXT NOT NULL,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			spawned INTEGER NOT NULL DEFAULT 0,
			ended_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(tier, survival, score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player);
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

// Get implements records.KV.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot read key %s: %w", key, err)
	}
	return value, true, nil
}

// Put implements records.KV.
func (s *Store) Put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write key %s: %w", key, err)
	}
	return nil
}

// Ensure Store can back the records book.
var _ records.KV = (*Store)(nil)

// SaveRun records a finished run. Saving the same run ID twice is a no-op.
// Reports whether a row was inserted.
func (s *Store) SaveRun(res sim.RunResult) (bool, error) {
	endedAt := res.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT OR IGNORE INTO runs
		 (run_id, player, tier, survival, score, reason, elapsed_ms, spawned, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID,
		res.Player,
		string(res.Tier),
		res.Mode == sim.ModeSurvival,
		res.Score,
		res.Reason.String(),
		res.Elapsed.Milliseconds(),
		res.Spawned,
		endedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot save run: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	return n > 0, nil
}

// RecordRun implements sim.Recorder.
func (s *Store) RecordRun(res sim.RunResult) error {
	_, err := s.SaveRun(res)
	return err
}

var _ sim.Recorder = (*Store)(nil)

const runColumns = `id, run_id, player, tier, survival, score, reason, elapsed_ms, spawned, ended_at`

// TopRuns retrieves the best N runs of a tier and mode.
// Results are ordered by score descending, earliest first on ties.
func (s *Store) TopRuns(tier sim.Tier, mode sim.Mode, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE tier = ? AND survival = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		string(tier), mode == sim.ModeSurvival, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RecentRuns retrieves the most recent runs across all tiers.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY ended_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recent runs: %w", err)
	}
	return scanRuns(rows)
}

// PlayerRuns retrieves the run history of one player, newest first.
func (s *Store) PlayerRuns(player string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE player = ?
		 ORDER BY ended_at DESC, id DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunEntry, error) {
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var tier string
		var survival bool
		var endedAt any
		if err := rows.Scan(
			&e.ID,
			&e.RunID,
			&e.Player,
			&tier,
			&survival,
			&e.Score,
			&e.Reason,
			&e.ElapsedMs,
			&e.Spawned,
			&endedAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Tier = sim.Tier(tier)
		if survival {
			e.Mode = sim.ModeSurvival
		}
		e.EndedAt = parseTime(endedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// HighScore returns the highest score for a tier and mode.
// Returns 0 if no runs exist.
func (s *Store) HighScore(tier sim.Tier, mode sim.Mode) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE tier = ? AND survival = ?",
		string(tier), mode == sim.ModeSurvival,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearRuns deletes the run history of a tier in both modes.
func (s *Store) ClearRuns(tier sim.Tier) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE tier = ?", string(tier))
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for one tier and mode.
type GameStats struct {
	Tier        sim.Tier
	Mode        sim.Mode
	GamesCount  int
	HighScore   int
	AvgScore    float64
	TotalScore  int64
	TotalPlayMs int64
	LastPlayed  time.Time
}

// GetGameStats retrieves aggregated statistics for a tier and mode.
func (s *Store) GetGameStats(tier sim.Tier, mode sim.Mode) (*GameStats, error) {
	stats := &GameStats{Tier: tier, Mode: mode}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(SUM(elapsed_ms), 0), MAX(ended_at)
		 FROM runs WHERE tier = ? AND survival = ?`,
		string(tier), mode == sim.ModeSurvival,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.TotalPlayMs, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllGamesStats retrieves statistics for every tier and mode that has
// been played, in tier then mode order.
func (s *Store) GetAllGamesStats() ([]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT tier, survival, COUNT(*), MAX(score), AVG(score), SUM(score), SUM(elapsed_ms), MAX(ended_at)
		 FROM runs
		 GROUP BY tier, survival
		 ORDER BY tier, survival`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	var stats []*GameStats
	for rows.Next() {
		var st GameStats
		var tier string
		var survival bool
		var lastPlayed any
		if err := rows.Scan(&tier, &survival, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalScore, &st.TotalPlayMs, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.Tier = sim.Tier(tier)
		if survival {
			st.Mode = sim.ModeSurvival
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats = append(stats, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
