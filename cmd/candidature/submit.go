package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/lsmc/candidature/internal/application"
	"github.com/lsmc/candidature/internal/gate"
	"github.com/lsmc/candidature/internal/intake"
	"github.com/lsmc/candidature/internal/platform/logger"
	"github.com/lsmc/candidature/pkg/config"
	"github.com/lsmc/candidature/pkg/scoring"
	"github.com/spf13/cobra"
)

func newSubmitCmd(configPath *string) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "submit <application.json|->",
		Short: "Screen a candidature and deliver it",
		Long: `Runs the full intake: gate, validation, webhook delivery, CSV export
and audit, using the configured backends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), submitOpts{
				configPath: *configPath,
				path:       args[0],
				lang:       lang,
			})
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Language for reasons: en or fr (default: config)")

	return cmd
}

type submitOpts struct {
	configPath string
	path       string
	lang       string
}

func runSubmit(ctx context.Context, stdin io.Reader, stdout io.Writer, opts submitOpts) error {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Options{Mode: cfg.Log.Mode, Level: firstNonEmpty(cfg.Log.Level, "warn")})
	if err != nil {
		return err
	}
	defer log.Sync()

	app, err := readApplication(opts.path, stdin)
	if err != nil {
		return err
	}

	svc, closeFn, err := intake.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()
	if opts.lang != "" {
		svc = svc.Localized(scoring.ParseLocale(opts.lang))
	}

	receipt, err := svc.Submit(ctx, app)
	var (
		blocked *gate.BlockedError
		invalid *application.ValidationError
	)
	switch {
	case errors.As(err, &blocked):
		fmt.Fprintln(stdout, "Submission blocked:")
		for _, line := range blocked.Report {
			fmt.Fprintf(stdout, "  • %s\n", line)
		}
		return errRejected
	case errors.As(err, &invalid):
		fmt.Fprintln(stdout, "Invalid candidature:")
		for _, p := range invalid.Problems {
			fmt.Fprintf(stdout, "  • %s: %s\n", firstNonEmpty(p.Field, "(record)"), p.Message)
		}
		return errRejected
	case err != nil:
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(receipt)
}
