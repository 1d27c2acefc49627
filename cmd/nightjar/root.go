package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nightjar-sec/nightjar/pkg/store"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "nightjar",
	Short: "Nightjar - datastore for secret scanning results",
	Long: `Nightjar persists and reports on secret scanning results.
It stores blobs, detection rules, findings, and matches under content-derived
identities, so re-recording the same result is always a no-op, and layers
mutable triage annotations (status, comments, scores) on top.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case quiet:
			logrus.SetLevel(logrus.ErrorLevel)
		case verbose:
			logrus.SetLevel(logrus.DebugLevel)
		default:
			logrus.SetLevel(logrus.InfoLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openStore opens the store behind a datastore path, which may be a
// datastore directory, a bare database file, or a postgres:// URL.
func openStore(path string) (store.Store, error) {
	if path == ":memory:" {
		return nil, fmt.Errorf("cannot operate on an in-memory store from the CLI")
	}

	storePath := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		// Datastore directory format - the database lives inside
		storePath = filepath.Join(path, "datastore.db")
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}
	return s, nil
}
