// Command hotscan turns manually saved marketplace search pages into a
// product dataset: a deduplicated CSV file plus an interactive scatter
// chart. Nothing is ever fetched from the network; the input is always a
// saved snapshot file or a posted request body.
package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "hotscan",
	Short: "Extract product listings from saved marketplace search pages",
	Long: `hotscan reads a Hotmart search page you saved by hand, extracts one
record per listing card and writes a spreadsheet-ready CSV plus an
interactive commission-vs-price chart.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	// Load .env early so configuration sees its variables
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hotscan version %s\n", version)
		},
	})
}

// newLogger builds the process logger. The debug flag switches to the
// development config; otherwise the configured level applies. Every
// invocation carries a run id for correlating its log lines.
func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("run_id", uuid.NewString())), nil
}
