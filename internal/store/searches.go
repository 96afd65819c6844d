package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/torkay/prospect-command-center/internal/domain"
	"github.com/torkay/prospect-command-center/internal/job"
)

// Search is one archived, completed search.
type Search struct {
	ID            int64     `json:"id"`
	JobID         string    `json:"job_id"`
	BusinessType  string    `json:"business_type"`
	Location      string    `json:"location"`
	ProspectCount int       `json:"prospect_count"`
	AvgFit        float64   `json:"avg_fit"`
	AvgOpp        float64   `json:"avg_opportunity"`
	CreatedAt     time.Time `json:"created_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS searches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  job_id TEXT NOT NULL DEFAULT '',
  business_type TEXT NOT NULL,
  location TEXT NOT NULL,
  prospect_count INTEGER NOT NULL DEFAULT 0,
  avg_fit REAL NOT NULL DEFAULT 0,
  avg_opportunity REAL NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  finished_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS prospects (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  search_id INTEGER NOT NULL,
  candidate_id TEXT NOT NULL,
  name TEXT NOT NULL,
  domain TEXT NOT NULL DEFAULT '',
  website TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  fit INTEGER NOT NULL DEFAULT 0,
  opportunity INTEGER NOT NULL DEFAULT 0,
  priority REAL NOT NULL DEFAULT 0,
  rank INTEGER NOT NULL DEFAULT 0,
  payload TEXT NOT NULL DEFAULT '{}'
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_prospects_search
ON prospects(search_id);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_searches_created
ON searches(created_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_searches_job_id
ON searches(job_id)
WHERE job_id != '';
`); err != nil {
		return err
	}

	// Mark schema v1
	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// ArchiveSearch persists a completed job and its prospects in one
// transaction. The full prospect record rides along as JSON so the poll API
// can replay results long after the job is gone from memory.
func (d *DB) ArchiveSearch(ctx context.Context, snap job.Snapshot, prospects []domain.Prospect) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	sum := domain.Summarize(prospects)
	finished := time.Now().UTC()
	if snap.FinishedAt != nil {
		finished = *snap.FinishedAt
	}

	res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO searches (job_id, business_type, location, prospect_count, avg_fit, avg_opportunity, created_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		snap.ID, snap.Request.BusinessType, snap.Request.Location,
		len(prospects), sum.AvgFit, sum.AvgOpportunity,
		snap.CreatedAt.Format(time.RFC3339), finished.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// already archived
		return tx.Commit()
	}
	searchID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, p := range prospects {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal prospect: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO prospects (search_id, candidate_id, name, domain, website, phone, fit, opportunity, priority, rank, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			searchID, p.Candidate.ID, p.Candidate.Name, p.Candidate.Domain,
			p.Candidate.Website, p.Candidate.Phone,
			p.Scores.Fit, p.Scores.Opportunity, p.Scores.Priority,
			i+1, string(payload),
		); err != nil {
			return fmt.Errorf("insert prospect: %w", err)
		}
	}

	return tx.Commit()
}

// ListSearches returns archived searches, newest first.
func (d *DB) ListSearches(ctx context.Context, limit int) ([]Search, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, job_id, business_type, location, prospect_count, avg_fit, avg_opportunity, created_at, finished_at
FROM searches
ORDER BY created_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Search
	for rows.Next() {
		var s Search
		var created, finished string
		if err := rows.Scan(&s.ID, &s.JobID, &s.BusinessType, &s.Location,
			&s.ProspectCount, &s.AvgFit, &s.AvgOpp, &created, &finished); err != nil {
			return nil, err
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, created)
		s.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSearchProspects replays the archived prospect list for one search, in
// stored rank order.
func (d *DB) GetSearchProspects(ctx context.Context, searchID int64) ([]domain.Prospect, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT payload
FROM prospects
WHERE search_id = ?
ORDER BY rank ASC;`, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Prospect
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var p domain.Prospect
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("decode prospect payload: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetSearchByJobID looks an archive up by its originating job.
func (d *DB) GetSearchByJobID(ctx context.Context, jobID string) (Search, error) {
	var s Search
	var created, finished string
	err := d.Pool.QueryRowContext(ctx, `
SELECT id, job_id, business_type, location, prospect_count, avg_fit, avg_opportunity, created_at, finished_at
FROM searches
WHERE job_id = ?;`, jobID).Scan(&s.ID, &s.JobID, &s.BusinessType, &s.Location,
		&s.ProspectCount, &s.AvgFit, &s.AvgOpp, &created, &finished)
	if err != nil {
		return Search{}, err
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339, created)
	s.FinishedAt, _ = time.Parse(time.RFC3339, finished)
	return s, nil
}

// CleanupOldSearches drops archives older than the retention window, along
// with their prospects.
func CleanupOldSearches(db *sql.DB, days int) (deleted int64, err error) {
	if days <= 0 {
		days = 90
	}
	window := fmt.Sprintf("-%d days", days)

	if _, err := db.Exec(`
DELETE FROM prospects
WHERE search_id IN (SELECT id FROM searches WHERE created_at < datetime('now', ?));`, window); err != nil {
		return 0, fmt.Errorf("cleanup old prospects: %w", err)
	}

	res, err := db.Exec(`
DELETE FROM searches
WHERE created_at < datetime('now', ?);`, window)
	if err != nil {
		return 0, fmt.Errorf("cleanup old searches: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

var ErrNotFound = sql.ErrNoRows
