// Package store persists finalized session reports in SQLite for
// post-hoc inspection across runs.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/proctor/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	session_id       TEXT PRIMARY KEY,
	created_at       TEXT NOT NULL,
	rules_hash       TEXT NOT NULL,
	final_score      INTEGER NOT NULL,
	passed           INTEGER NOT NULL,
	total_penalty    INTEGER NOT NULL,
	total_violations INTEGER NOT NULL,
	report_json      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

// ErrNotFound is returned when no report exists for a session id.
var ErrNotFound = errors.New("store: report not found")

// Record is one persisted report with its metadata.
type Record struct {
	SessionID string       `json:"session_id"`
	CreatedAt time.Time    `json:"created_at"`
	RulesHash string       `json:"rules_hash"`
	Report    model.Report `json:"report"`
}

// Summary is the listing view of a persisted report.
type Summary struct {
	SessionID       string    `json:"session_id"`
	CreatedAt       time.Time `json:"created_at"`
	FinalScore      int       `json:"final_score"`
	Passed          bool      `json:"passed"`
	TotalViolations int       `json:"total_violations"`
}

// Store manages persisted reports in SQLite.
type Store struct {
	db *sql.DB
}

// New opens a SQLite database and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a finalized report. Saving the same session id again
// replaces the previous report (a session finalized twice keeps the
// latest verdict).
func (s *Store) Save(sessionID, rulesHash string, report model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	passed := 0
	if report.Passed {
		passed = 1
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO reports
		 (session_id, created_at, rules_hash, final_score, passed, total_penalty, total_violations, report_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		time.Now().UTC().Format(time.RFC3339Nano),
		rulesHash,
		report.FinalScore,
		passed,
		report.TotalPenalty,
		report.TotalViolations,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Get loads one persisted report by session id.
func (s *Store) Get(sessionID string) (Record, error) {
	row := s.db.QueryRow(
		`SELECT created_at, rules_hash, report_json FROM reports WHERE session_id = ?`,
		sessionID,
	)

	var createdAt, rulesHash, reportJSON string
	if err := row.Scan(&createdAt, &rulesHash, &reportJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("query report: %w", err)
	}

	rec := Record{SessionID: sessionID, RulesHash: rulesHash}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = ts

	if err := json.Unmarshal([]byte(reportJSON), &rec.Report); err != nil {
		return Record{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return rec, nil
}

// List returns summaries of the most recent reports, newest first.
func (s *Store) List(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT session_id, created_at, final_score, passed, total_violations
		 FROM reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum       Summary
			createdAt string
			passed    int
		)
		if err := rows.Scan(&sum.SessionID, &createdAt, &sum.FinalScore, &passed, &sum.TotalViolations); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		sum.CreatedAt = ts
		sum.Passed = passed == 1
		out = append(out, sum)
	}
	return out, rows.Err()
}
