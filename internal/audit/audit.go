// Package audit records gate decisions for submitted candidatures. Only the
// outcome is stored: answers never leave the request that carried them.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gowebpki/jcs"
	"github.com/lsmc/candidature/internal/application"
)

// Outcome of one submission attempt.
type Outcome string

const (
	OutcomeBlocked        Outcome = "blocked"
	OutcomeInvalid        Outcome = "invalid"
	OutcomeAccepted       Outcome = "accepted" // passed the gate, nothing configured to deliver to
	OutcomeDelivered      Outcome = "delivered"
	OutcomeDeliveryFailed Outcome = "delivery_failed"
)

// Decision is one audit row.
type Decision struct {
	ID            string    `json:"id"`
	Fingerprint   string    `json:"fingerprint"`
	Blocked       bool      `json:"blocked"`
	FlaggedFields []string  `json:"flagged_fields"`
	MaxScore      int       `json:"max_score"`
	Delivered     bool      `json:"delivered"`
	Exported      bool      `json:"exported"`
	Outcome       Outcome   `json:"outcome"`
	CreatedAt     time.Time `json:"created_at"`
}

// Recorder persists decisions.
type Recorder interface {
	Record(ctx context.Context, d Decision) error
	Recent(ctx context.Context, limit int) ([]Decision, error)
	Close() error
}

// Fingerprint is the hex SHA-256 of the RFC 8785 canonical JSON of a record.
// Identical candidatures share a fingerprint regardless of field order.
func Fingerprint(app *application.Application) (string, error) {
	raw, err := json.Marshal(app)
	if err != nil {
		return "", fmt.Errorf("marshal application: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize application: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// NopRecorder drops every decision.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Decision) error { return nil }
func (NopRecorder) Recent(context.Context, int) ([]Decision, error) {
	return []Decision{}, nil
}
func (NopRecorder) Close() error { return nil }

// Config selects a recorder backend.
type Config struct {
	Backend string // "", "postgres" or "sqlite"
	DSN     string // postgres URL or sqlite file path
	Migrate bool   // run embedded postgres migrations on open
}

// Open returns the recorder for cfg. An empty backend yields a NopRecorder.
func Open(ctx context.Context, cfg Config) (Recorder, error) {
	switch cfg.Backend {
	case "", "none":
		return NopRecorder{}, nil
	case "postgres":
		r, err := OpenPostgres(ctx, cfg.DSN, cfg.Migrate)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "sqlite":
		r, err := OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("audit: unknown backend %q", cfg.Backend)
	}
}

func encodeFields(fields []string) (string, error) {
	if fields == nil {
		fields = []string{}
	}
	b, err := json.Marshal(fields)
	return string(b), err
}

func decodeFields(raw string) ([]string, error) {
	fields := []string{}
	if raw == "" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("decode flagged fields: %w", err)
	}
	return fields, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 50
	case limit > 500:
		return 500
	}
	return limit
}
