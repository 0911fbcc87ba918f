package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const screeningDecisionsSchema = `
CREATE TABLE IF NOT EXISTS screening_decisions (
    id              TEXT PRIMARY KEY,
    fingerprint     TEXT NOT NULL,
    blocked         INTEGER NOT NULL,
    flagged_fields  TEXT NOT NULL DEFAULT '[]',
    max_score       INTEGER NOT NULL DEFAULT 0,
    delivered       INTEGER NOT NULL DEFAULT 0,
    exported        INTEGER NOT NULL DEFAULT 0,
    outcome         TEXT NOT NULL,
    created_at      TEXT NOT NULL
);
`

const screeningDecisionsIndex = `
CREATE INDEX IF NOT EXISTS idx_screening_decisions_created_at
ON screening_decisions(created_at);
`

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteRecorder stores decisions in a local SQLite file.
type SQLiteRecorder struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRecorder initializes the screening_decisions table on db.
func NewSQLiteRecorder(db *sql.DB) (*SQLiteRecorder, error) {
	if _, err := db.Exec(screeningDecisionsSchema); err != nil {
		return nil, fmt.Errorf("create audit table: %w", err)
	}
	if _, err := db.Exec(screeningDecisionsIndex); err != nil {
		return nil, fmt.Errorf("create audit index: %w", err)
	}
	return &SQLiteRecorder{db: db, now: time.Now}, nil
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRecorder, error) {
	if path == "" {
		return nil, fmt.Errorf("audit: sqlite backend requires a path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	r, err := NewSQLiteRecorder(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRecorder) Record(ctx context.Context, d Decision) error {
	fields, err := encodeFields(d.FlaggedFields)
	if err != nil {
		return err
	}
	created := d.CreatedAt
	if created.IsZero() {
		created = r.now()
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO screening_decisions
		(id, fingerprint, blocked, flagged_fields, max_score, delivered, exported, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Fingerprint, boolInt(d.Blocked), fields, d.MaxScore,
		boolInt(d.Delivered), boolInt(d.Exported), string(d.Outcome),
		created.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record decision %s: %w", d.ID, err)
	}
	return nil
}

func (r *SQLiteRecorder) Recent(ctx context.Context, limit int) ([]Decision, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, fingerprint, blocked, flagged_fields, max_score, delivered, exported, outcome, created_at
		FROM screening_decisions
		ORDER BY created_at DESC
		LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	decisions := []Decision{}
	for rows.Next() {
		var (
			d                             Decision
			blocked, delivered, exported  int
			fields, outcome, createdAtRaw string
		)
		if err := rows.Scan(&d.ID, &d.Fingerprint, &blocked, &fields, &d.MaxScore, &delivered, &exported, &outcome, &createdAtRaw); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if d.FlaggedFields, err = decodeFields(fields); err != nil {
			return nil, err
		}
		d.Blocked, d.Delivered, d.Exported = blocked == 1, delivered == 1, exported == 1
		d.Outcome = Outcome(outcome)
		if d.CreatedAt, err = time.Parse(timeLayout, createdAtRaw); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

func (r *SQLiteRecorder) Close() error { return r.db.Close() }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
