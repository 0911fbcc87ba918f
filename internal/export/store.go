// Package export stores exported candidature CSV files in blob storage.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by Get when no export exists for an id.
	ErrNotFound = errors.New("export not found")
	// ErrInvalidID is returned for ids that are not UUIDs.
	ErrInvalidID = errors.New("invalid export id")
)

// ContentType of stored exports.
const ContentType = "text/csv; charset=utf-8"

// Store abstracts blob storage for CSV exports.
type Store interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
}

// Config selects and configures a backend.
type Config struct {
	Backend   string // "local", "s3", "gcs" or "" for none
	Dir       string // local
	Bucket    string // s3, gcs
	Region    string // s3
	Endpoint  string // s3-compatible endpoint such as MinIO
	AccessKey string // s3
	SecretKey string // s3
}

// New creates the store named by cfg.Backend. It returns nil, nil when no backend is set.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "local":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("export: local backend requires a directory")
		}
		return NewLocalStore(cfg.Dir), nil
	case "s3":
		s, err := NewS3Store(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "gcs":
		s, err := NewGCSStore(ctx, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("export: unknown backend %q", cfg.Backend)
	}
}

// objectKey is the blob path of an export, shared by every backend.
func objectKey(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return "exports/" + parsed.String() + ".csv", nil
}
