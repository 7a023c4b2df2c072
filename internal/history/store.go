// Package history handles SQLite persistence of finished attempts.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"doomsplit/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the attempt log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_us INTEGER NOT NULL,
			pb INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_code ON attempts(code);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ended_at ON attempts(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempt stores one finished level attempt.
func (s *Store) InsertAttempt(ctx context.Context, a model.Attempt) (int64, error) {
	pb := 0
	if a.PB {
		pb = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (code, name, category, difficulty, started_at, ended_at, duration_us, pb)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Code,
		a.Name,
		a.Category,
		a.Difficulty,
		a.StartedAt.Format(time.RFC3339Nano),
		a.EndedAt.Format(time.RFC3339Nano),
		a.DurationUS,
		pb,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAttempts returns attempts matching the filter, oldest first.
func (s *Store) ListAttempts(ctx context.Context, f model.AttemptFilter) ([]model.Attempt, error) {
	clauses, args := filterClauses(f)
	query := fmt.Sprintf(`SELECT code, name, category, difficulty, started_at, ended_at, duration_us, pb
		FROM attempts
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var started, ended string
		var pb int
		if err := rows.Scan(&a.Code, &a.Name, &a.Category, &a.Difficulty, &started, &ended, &a.DurationUS, &pb); err != nil {
			return nil, err
		}
		if a.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, err
		}
		if a.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, err
		}
		a.PB = pb != 0
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if f.Last > 0 && len(attempts) > f.Last {
		attempts = attempts[len(attempts)-f.Last:]
	}
	return attempts, nil
}

// Aggregates summarizes attempts per level code for the filter.
func (s *Store) Aggregates(ctx context.Context, f model.AttemptFilter) ([]model.AttemptAggregate, error) {
	clauses, args := filterClauses(f)
	query := fmt.Sprintf(`SELECT code, COUNT(*), MIN(duration_us), AVG(duration_us), SUM(pb)
		FROM attempts
		WHERE %s
		GROUP BY code
		ORDER BY code ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var aggs []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var mean float64
		if err := rows.Scan(&agg.Code, &agg.Count, &agg.BestUS, &mean, &agg.PBCount); err != nil {
			return nil, err
		}
		agg.MeanUS = int64(mean)
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}

func filterClauses(f model.AttemptFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Code != "" {
		clauses = append(clauses, "code = ?")
		args = append(args, f.Code)
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, f.Difficulty)
	}
	if f.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, f.Since.Format(time.RFC3339Nano))
	}
	return clauses, args
}
