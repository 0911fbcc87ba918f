package intake

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lsmc/candidature/internal/audit"
	"github.com/lsmc/candidature/internal/export"
	"github.com/lsmc/candidature/internal/platform/logger"
	"github.com/lsmc/candidature/internal/surface"
	"github.com/lsmc/candidature/pkg/config"
)

// Build wires a Service from configuration. The returned close function
// releases the audit database and export clients.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Service, func() error, error) {
	engine, err := cfg.Scoring.Engine()
	if err != nil {
		return nil, nil, err
	}

	publisher := surface.NewWebhookPublisher(cfg.Delivery.WebhookURL,
		surface.WithHTTPClient(&http.Client{Timeout: cfg.Delivery.Timeout}),
		surface.WithRateLimit(cfg.Delivery.RateInterval, cfg.Delivery.RateBurst),
	)

	store, err := export.New(ctx, export.Config{
		Backend:   cfg.Export.Backend,
		Dir:       cfg.Export.Dir,
		Bucket:    cfg.Export.Bucket,
		Region:    cfg.Export.Region,
		Endpoint:  cfg.Export.Endpoint,
		AccessKey: cfg.Export.AccessKey,
		SecretKey: cfg.Export.SecretKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open export store: %w", err)
	}

	recorder, err := audit.Open(ctx, audit.Config{
		Backend: cfg.Audit.Backend,
		DSN:     cfg.Audit.DSN,
		Migrate: cfg.Audit.Migrate,
	})
	if err != nil {
		closeStore(store)
		return nil, nil, fmt.Errorf("open audit log: %w", err)
	}

	if !publisher.Configured() {
		log.Warn("webhook not configured, submissions will not be delivered")
	}
	log.Info("intake ready",
		"threshold", engine.Threshold(),
		"locale", engine.Catalog().Tag().String(),
		"export_backend", cfg.Export.Backend,
		"audit_backend", cfg.Audit.Backend,
	)

	svc := NewService(engine,
		WithPublisher(publisher),
		WithStore(store),
		WithRecorder(recorder),
		WithLogger(log),
	)
	closer := func() error {
		closeStore(store)
		return recorder.Close()
	}
	return svc, closer, nil
}

func closeStore(st export.Store) {
	if c, ok := st.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
