// Package main provides the candidature CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// errRejected makes the CLI exit non-zero after it already printed why.
var errRejected = errors.New("rejected")

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "candidature",
		Short: "Screen and submit LSMC candidatures",
		Long: `candidature scores free-text answers for signs of unedited AI output,
gates the LSMC recruitment form on the result, and delivers accepted
candidatures to the recruitment channel.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search for .candidature/config.yaml)")

	rootCmd.AddCommand(
		newScreenCmd(&configPath),
		newCheckCmd(&configPath),
		newExportCmd(),
		newSubmitCmd(&configPath),
	)
	return rootCmd
}
