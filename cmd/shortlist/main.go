// Command shortlist runs the filtering, roster analytics and fit engines
// against a local dataset directory.
//
// Usage:
//
//	shortlist filter --data-dir data --division 3 --max-distance 300 --home-lat 39.3 --home-lon -76.6
//	shortlist metrics --data-dir data 163286 190150
//	shortlist classify --data-dir data --sat 1350 163286
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/baseball-program-finder/internal/config"
	"github.com/couchcryptid/baseball-program-finder/internal/dataset"
	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	dataDir       string
	seasonEndYear int
	windowYears   int
	jsonOutput    bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:           "shortlist",
	Short:         "Explore college baseball programs from a local dataset",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	_ = godotenv.Load()

	defaultYear := config.DefaultSeasonEndYear(domain.Clock().Now())
	defaultDir := "data"
	if v := os.Getenv("DATA_DIR"); v != "" {
		defaultDir = v
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data-dir", defaultDir, "directory holding programs.csv and friends")
	pf.IntVar(&seasonEndYear, "season-end-year", defaultYear, "end year of the most recent completed season")
	pf.IntVar(&windowYears, "window", 10, "trajectory window in seasons")
	pf.BoolVar(&jsonOutput, "json", false, "print JSON instead of a table")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log dataset loading details")

	rootCmd.AddCommand(filterCmd, metricsCmd, classifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger logs to stderr so stdout stays machine-readable.
func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func loadDataset() (*dataset.Dataset, *slog.Logger, error) {
	logger := newLogger()
	d, err := dataset.Load(dataDir, logger)
	if err != nil {
		return nil, nil, err
	}
	return d, logger, nil
}

// metricsSink is a throwaway registry; the CLI never serves /metrics.
func metricsSink() *observability.Metrics {
	return observability.NewMetricsForTesting()
}
