package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lsmc/candidature/internal/application"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <application.json|->",
		Short: "Write a candidature as CSV",
		Long:  `Writes the candidature as a one-row CSV file, exactly as the form's export button does. The gate is not run.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", application.CSVFileName, "Output file, or - for stdout")

	return cmd
}

func runExport(stdin io.Reader, stdout io.Writer, path, output string) error {
	app, err := readApplication(path, stdin)
	if err != nil {
		return err
	}
	app.Normalize()

	if output == "-" {
		return app.EncodeCSV(stdout)
	}
	if err := os.WriteFile(output, app.CSV(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
	return nil
}
