// Command candidatured is the candidature HTTP service.
// It serves live screening for the recruitment form, the submission
// pipeline and CSV exports.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lsmc/candidature/internal/api"
	"github.com/lsmc/candidature/internal/intake"
	"github.com/lsmc/candidature/internal/observability"
	"github.com/lsmc/candidature/internal/platform/logger"
	"github.com/lsmc/candidature/internal/session"
	"github.com/lsmc/candidature/pkg/config"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Resolve(os.Getenv("CANDIDATURE_CONFIG"))
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Mode:     cfg.Log.Mode,
		Level:    cfg.Log.Level,
		HashSalt: os.Getenv("LOG_HASH_SALT"),
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Telemetry.Environment,
		Version:     version,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})

	svc, closeIntake, err := intake.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeIntake(); err != nil {
			log.Warn("close intake", "error", err)
		}
	}()

	var limiter *api.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = api.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
		go limiter.Cleanup(ctx)
	}

	handler := api.NewHandler(svc, session.NewRegistry(cfg.Server.MaxSessions, cfg.Server.SessionTTL), log)
	router := api.NewRouter(api.RouterConfig{
		Handler:        handler,
		ServiceName:    cfg.Telemetry.ServiceName,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKey:         cfg.Server.APIKey,
		RateLimiter:    limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting candidatured", "port", cfg.Server.Port, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown", "error", err)
	}
	return nil
}
