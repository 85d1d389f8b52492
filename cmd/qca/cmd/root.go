package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hepqca/qca/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string
	logger     utils.Logger
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "qca",
	Short: "Cellular-automaton particle-track reconstruction",
	Long: `qca reconstructs particle tracks from detector hits using the
cellular-automaton method: cells are formed between adjacent layers,
linked across layer triads under an angular gate, evolved to a fixed
point, then extracted as length-ordered track candidates.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (see pkg/config)")

	binName := BinName()
	rootCmd.Example = `  # Reconstruct tracks from a single event
  ` + binName + ` run --hits ./hits.csv --truth ./truth.csv --cell-angle 0.3 --neigh-angle 0.2 --min-length 3

  # Reconstruct from a directory of per-event CSV pairs, persisting the report
  ` + binName + ` run --dir ./events --cell-angle 0.3 --neigh-angle 0.2 --min-length 3 --db-dsn ./qca.db

  # Show a previously persisted run's report
  ` + binName + ` report show --run-id local-20260801-101500 --db-dsn ./qca.db`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
