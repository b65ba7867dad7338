// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the forcecursor command-line interface: login and
// session management, ad-hoc queries and writes against the remote object
// store, and mirroring query results into PostgreSQL.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"forcecursor/cli/internal/config"
	"forcecursor/cli/internal/logging"
)

var (
	showVersion  bool
	flagLogLevel string
	flagVerbose  bool

	cfg    = config.Default()
	logger = logging.Discard()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "forcecursor",
	Short: "Query and mirror a remote object store over REST",
	Long: `forcecursor runs SELECT, INSERT and DELETE statements against a remote object
store's REST data API and streams query results into PostgreSQL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.LogLevel
		if flagLogLevel != "" {
			if _, err := logging.ParseLevel(flagLogLevel); err != nil {
				return err
			}
			level = flagLogLevel
		}
		if flagVerbose {
			level = "debug"
		}
		logger = logging.New(level, cfg.LogFormat, os.Stderr)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("forcecursor %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// shownError marks an error whose details were already printed.
type shownError struct{ err error }

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

// Execute runs the CLI application and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var shown *shownError
		if !errors.As(err, &shown) {
			pterm.Fprintln(os.Stderr, logging.PresentError("", err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error or off")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Shorthand for --log-level=debug")
}
