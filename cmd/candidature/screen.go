package main

import (
	"fmt"
	"io"

	"github.com/lsmc/candidature/pkg/config"
	"github.com/lsmc/candidature/pkg/surface"
	"github.com/spf13/cobra"
)

func newScreenCmd(configPath *string) *cobra.Command {
	var (
		outputFmt string
		lang      string
		fail      bool
	)

	cmd := &cobra.Command{
		Use:   "screen [file|-]",
		Short: "Score one text for signs of unedited AI output",
		Long:  `Reads a text from a file or stdin and prints its authenticity score, triggered signals and reasons.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runScreen(cmd.InOrStdin(), cmd.OutOrStdout(), screenOpts{
				configPath: *configPath,
				path:       path,
				outputFmt:  outputFmt,
				lang:       lang,
				fail:       fail,
			})
		},
	}

	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().StringVar(&lang, "lang", "", "Language for reasons: en or fr (default: config)")
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit non-zero when the text is flagged")

	return cmd
}

type screenOpts struct {
	configPath string
	path       string
	outputFmt  string
	lang       string
	fail       bool
}

func runScreen(stdin io.Reader, stdout io.Writer, opts screenOpts) error {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return err
	}
	engine, err := engineFor(cfg, opts.lang)
	if err != nil {
		return err
	}

	text, err := readInput(opts.path, stdin)
	if err != nil {
		return fmt.Errorf("reading text: %w", err)
	}

	report := engine.Evaluate(string(text))
	if err := surface.NewRenderer(opts.outputFmt).Render(stdout, &report); err != nil {
		return err
	}
	if opts.fail && report.Flagged {
		return errRejected
	}
	return nil
}
