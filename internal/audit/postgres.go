package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/lsmc/candidature/internal/platform"
)

// PostgresRecorder stores decisions in the screening_decisions table.
type PostgresRecorder struct {
	db *sql.DB
}

// NewPostgresRecorder wraps an open database whose schema is already migrated.
func NewPostgresRecorder(db *sql.DB) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

// OpenPostgres connects to dsn and optionally applies the embedded migrations.
func OpenPostgres(ctx context.Context, dsn string, migrate bool) (*PostgresRecorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if migrate {
		if err := platform.AutoMigrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return NewPostgresRecorder(db), nil
}

func (r *PostgresRecorder) Record(ctx context.Context, d Decision) error {
	fields, err := encodeFields(d.FlaggedFields)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO screening_decisions
		   (id, fingerprint, blocked, flagged_fields, max_score, delivered, exported, outcome)
		 VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8)`,
		d.ID, d.Fingerprint, d.Blocked, fields, d.MaxScore, d.Delivered, d.Exported, string(d.Outcome),
	)
	if err != nil {
		return fmt.Errorf("record decision %s: %w", d.ID, err)
	}
	return nil
}

func (r *PostgresRecorder) Recent(ctx context.Context, limit int) ([]Decision, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, fingerprint, blocked, flagged_fields::text, max_score, delivered, exported, outcome, created_at
		 FROM screening_decisions
		 ORDER BY created_at DESC
		 LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	decisions := []Decision{}
	for rows.Next() {
		var (
			d       Decision
			fields  string
			outcome string
			created time.Time
		)
		if err := rows.Scan(&d.ID, &d.Fingerprint, &d.Blocked, &fields, &d.MaxScore, &d.Delivered, &d.Exported, &outcome, &created); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if d.FlaggedFields, err = decodeFields(fields); err != nil {
			return nil, err
		}
		d.Outcome = Outcome(outcome)
		d.CreatedAt = created
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

func (r *PostgresRecorder) Close() error { return r.db.Close() }
