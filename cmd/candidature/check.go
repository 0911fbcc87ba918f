package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/lsmc/candidature/internal/application"
	"github.com/lsmc/candidature/internal/gate"
	"github.com/lsmc/candidature/pkg/config"
	"github.com/lsmc/candidature/pkg/surface"
	"github.com/spf13/cobra"
)

func newCheckCmd(configPath *string) *cobra.Command {
	var (
		outputFmt string
		lang      string
	)

	cmd := &cobra.Command{
		Use:   "check <application.json|->",
		Short: "Run the submission gate and schema checks on a candidature",
		Long: `Screens every free-text answer of a candidature, prints the per-field
result and the warning report, then validates the record. Exits non-zero
when submission would be refused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.InOrStdin(), cmd.OutOrStdout(), checkOpts{
				configPath: *configPath,
				path:       args[0],
				outputFmt:  outputFmt,
				lang:       lang,
			})
		},
	}

	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().StringVar(&lang, "lang", "", "Language for reasons: en or fr (default: config)")

	return cmd
}

type checkOpts struct {
	configPath string
	path       string
	outputFmt  string
	lang       string
}

func runCheck(stdin io.Reader, stdout io.Writer, opts checkOpts) error {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return err
	}
	engine, err := engineFor(cfg, opts.lang)
	if err != nil {
		return err
	}
	app, err := readApplication(opts.path, stdin)
	if err != nil {
		return err
	}
	app.Normalize()

	state := gate.New(engine, nil).EvaluateForm(app.TextFields())
	if err := surface.NewRenderer(opts.outputFmt).RenderForm(stdout, &state); err != nil {
		return err
	}
	if state.AnyFlagged {
		return errRejected
	}

	if err := app.Validate(); err != nil {
		var invalid *application.ValidationError
		if !errors.As(err, &invalid) {
			return err
		}
		fmt.Fprintln(stdout, "Invalid candidature:")
		for _, p := range invalid.Problems {
			fmt.Fprintf(stdout, "  • %s: %s\n", firstNonEmpty(p.Field, "(record)"), p.Message)
		}
		return errRejected
	}
	return nil
}
