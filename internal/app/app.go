// Package app wires the one-shot snapshot transform: read the saved page,
// scan it into records, assemble the table, preview it and write the CSV
// and chart artifacts.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/user/hotscan/internal/dataset"
	"github.com/user/hotscan/internal/export"
	"github.com/user/hotscan/internal/extract"
	"github.com/user/hotscan/internal/monitoring"
	"github.com/user/hotscan/internal/report"
)

// Options parameterize one run.
type Options struct {
	// InputPath is the saved snapshot to read.
	InputPath string

	// OutputDir receives the CSV and chart files; created when missing.
	OutputDir string

	// BaseName overrides the timestamped artifact base name.
	BaseName string

	// Dedup drops later records repeating an earlier product URL.
	Dedup bool

	// PreviewRows bounds the console preview. Below 1 shows every row.
	PreviewRows int
}

// Result reports what a run produced.
type Result struct {
	CSVPath   string
	ChartPath string
	Rows      int
}

// App runs the snapshot-to-artifacts pipeline.
type App struct {
	scanner *extract.Scanner
	metrics *monitoring.Metrics
	logger  *zap.Logger
	out     io.Writer
}

func New(scanner *extract.Scanner, metrics *monitoring.Metrics, logger *zap.Logger, out io.Writer) *App {
	return &App{
		scanner: scanner,
		metrics: metrics,
		logger:  logger,
		out:     out,
	}
}

// Run executes one pass over the snapshot at opts.InputPath.
func (a *App) Run(ctx context.Context, opts Options) (*Result, error) {
	markup, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", opts.InputPath, err)
	}

	records, err := a.scanner.Scan(ctx, string(markup))
	if err != nil {
		return nil, err
	}

	table, err := dataset.Assemble(records, dataset.Options{Dedup: opts.Dedup})
	if err != nil {
		return nil, err
	}

	report.Preview(a.out, table, opts.PreviewRows)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", opts.OutputDir, err)
	}

	base := opts.BaseName
	if base == "" {
		base = export.FileBase(time.Now())
	}

	csvPath := filepath.Join(opts.OutputDir, base+".csv")
	if err := export.WriteCSV(csvPath, table); err != nil {
		return nil, err
	}
	a.metrics.IncExport("csv")

	chartPath := filepath.Join(opts.OutputDir, base+".html")
	if err := export.ScatterHTML(chartPath, table); err != nil {
		return nil, err
	}
	a.metrics.IncExport("chart")

	a.logger.Info("snapshot processed",
		zap.Int("rows", table.Len()),
		zap.String("csv", csvPath),
		zap.String("chart", chartPath),
	)

	return &Result{CSVPath: csvPath, ChartPath: chartPath, Rows: table.Len()}, nil
}
