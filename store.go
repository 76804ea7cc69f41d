package main

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ── Run history ─────────────────────────────────────────────────────

const schema = `
CREATE TABLE IF NOT EXISTS solve_runs (
	run_id       TEXT PRIMARY KEY,
	problem      TEXT NOT NULL,
	slots        INTEGER NOT NULL,
	stats        TEXT NOT NULL,
	goal         TEXT NOT NULL,
	scroll       TEXT,
	p_goal       REAL NOT NULL,
	exp_cost     REAL,
	evaluations  INTEGER NOT NULL,
	cache_hits   INTEGER NOT NULL,
	elapsed_ms   INTEGER NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_solve_runs_created ON solve_runs(created_at);
`

// timeLayout has fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one row of the solve history.
type RunRecord struct {
	RunID       string    `json:"runId"`
	Problem     string    `json:"problem"`
	Slots       int       `json:"slots"`
	Stats       string    `json:"stats"`
	Goal        string    `json:"goal"`
	Scroll      string    `json:"scroll,omitempty"`
	PGoal       float64   `json:"pGoal"`
	ExpCost     Cost      `json:"expCost"`
	Evaluations int       `json:"evaluations"`
	CacheHits   int       `json:"cacheHits"`
	ElapsedMs   int64     `json:"elapsedMs"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRunRecord summarises r for the history table.
func NewRunRecord(r Report) RunRecord {
	rec := RunRecord{
		Problem:     r.Name,
		Goal:        r.Goal.String(),
		PGoal:       r.PGoal,
		ExpCost:     Cost(r.ExpCost),
		Evaluations: r.Counters.Evaluations,
		CacheHits:   r.Counters.CacheHits,
		ElapsedMs:   r.Elapsed.Milliseconds(),
	}
	if r.Root != nil {
		rec.Slots = int(r.Root.Slots)
		rec.Stats = r.Root.Stats.String()
	}
	if sc := r.Scroll(); sc != nil {
		rec.Scroll = sc.String()
	}
	return rec
}

// Store keeps solve runs in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts rec, assigning a run ID and timestamp when unset, and
// returns the stored record.
func (s *Store) RecordRun(rec RunRecord) (RunRecord, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	// SQLite has no infinity literal; an unbuyable strategy is stored as NULL.
	var cost any
	if !math.IsInf(float64(rec.ExpCost), 0) {
		cost = float64(rec.ExpCost)
	}
	_, err := s.db.Exec(
		`INSERT INTO solve_runs (run_id, problem, slots, stats, goal, scroll, p_goal, exp_cost,
		 evaluations, cache_hits, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Problem, rec.Slots, rec.Stats, rec.Goal, nullString(rec.Scroll),
		rec.PGoal, cost, rec.Evaluations, rec.CacheHits, rec.ElapsedMs,
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}

const runColumns = `run_id, problem, slots, stats, goal, scroll, p_goal, exp_cost,
	evaluations, cache_hits, elapsed_ms, created_at`

// GetRun returns the run with the given ID.
func (s *Store) GetRun(id string) (RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM solve_runs WHERE run_id = ?`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM solve_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var (
		rec     RunRecord
		scroll  sql.NullString
		cost    sql.NullFloat64
		created string
	)
	err := sc.Scan(&rec.RunID, &rec.Problem, &rec.Slots, &rec.Stats, &rec.Goal, &scroll,
		&rec.PGoal, &cost, &rec.Evaluations, &rec.CacheHits, &rec.ElapsedMs, &created)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Scroll = scroll.String
	rec.ExpCost = Cost(math.Inf(1))
	if cost.Valid {
		rec.ExpCost = Cost(cost.Float64)
	}
	rec.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return RunRecord{}, fmt.Errorf("parse created_at: %w", err)
	}
	return rec, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
