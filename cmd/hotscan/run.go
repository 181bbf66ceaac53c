package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/user/hotscan/internal/app"
	"github.com/user/hotscan/internal/config"
	"github.com/user/hotscan/internal/extract"
	"github.com/user/hotscan/internal/monitoring"
)

var (
	runOut     string
	runName    string
	runDedup   bool
	runWorkers int
)

var runCmd = &cobra.Command{
	Use:   "run <snapshot>",
	Short: "Transform one saved search page into CSV and chart files",
	Long: `run reads the given snapshot file, extracts every listing card and
writes <name>.csv and <name>.html into the output directory. Without
--name the files are named after the current timestamp.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	runCmd.Flags().StringVar(&runOut, "out", "", "output directory (default from OUTPUT_DIR)")
	runCmd.Flags().StringVar(&runName, "name", "", "base name for the output files (default: timestamp)")
	runCmd.Flags().BoolVar(&runDedup, "dedup", true, "drop repeated product URLs, keeping the first")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "extraction workers (default from WORKERS)")
	rootCmd.AddCommand(runCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Flags win over environment values when set explicitly.
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = runOut
	}
	if cmd.Flags().Changed("dedup") {
		cfg.Dedup = runDedup
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = runWorkers
	}

	locators, err := cfg.Locators()
	if err != nil {
		return fmt.Errorf("load locators: %w", err)
	}

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	extractor, err := extract.NewExtractor(locators, metrics, logger)
	if err != nil {
		return fmt.Errorf("build extractor: %w", err)
	}
	scanner := extract.NewScanner(extractor, cfg.Workers, metrics, logger)

	result, err := app.New(scanner, metrics, logger, os.Stdout).Run(cmd.Context(), app.Options{
		InputPath:   args[0],
		OutputDir:   cfg.OutputDir,
		BaseName:    runName,
		Dedup:       cfg.Dedup,
		PreviewRows: cfg.PreviewRows,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nCSV:   %s\nChart: %s\n", result.CSVPath, result.ChartPath)
	return nil
}
