package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/couchcryptid/baseball-program-finder/internal/dataset"
	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/fit"
	"github.com/couchcryptid/baseball-program-finder/internal/roster"
	"github.com/couchcryptid/baseball-program-finder/internal/shortlist"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics PROGRAM_ID...",
	Short: "Show roster analytics for programs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMetrics,
}

var (
	satTotal float64
	gpa      float64
)

var classifyCmd = &cobra.Command{
	Use:   "classify PROGRAM_ID...",
	Short: "Score fit and suggest Safety/Target/Reach for programs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().Float64Var(&satTotal, "sat", 0, "your SAT total (0 = unknown)")
	classifyCmd.Flags().Float64Var(&gpa, "gpa", 0, "your unweighted GPA")
}

// newService builds a Service without persistence; the CLI only reads.
func newService(d *dataset.Dataset, logger *slog.Logger) (*shortlist.Service, error) {
	analyzer, err := roster.New(d.Rosters, d.History, roster.Options{
		CurrentSeasonEndYear: seasonEndYear,
		WindowYears:          windowYears,
	})
	if err != nil {
		return nil, err
	}
	return shortlist.New(shortlist.Deps{
		Dataset:    d,
		Analyzer:   analyzer,
		Classifier: fit.New(nil),
		Logger:     logger,
		Metrics:    metricsSink(),
	}), nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, len(args))
	for i, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("program id %q: %w", a, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func runMetrics(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	d, logger, err := loadDataset()
	if err != nil {
		return err
	}
	svc, err := newService(d, logger)
	if err != nil {
		return err
	}
	ms, err := svc.MetricsFor(cmd.Context(), ids)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(ms)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTREND\tCURRENT\tRETENTION\tIN-STATE\tP/C/IF/OF\tP HT\tOTHER HT")
	for _, m := range ms {
		trend, current := "N/A", "N/A"
		if m.Trajectory != nil {
			trend = m.Trajectory.Glyph + " " + string(m.Trajectory.Trend)
			current = fmt.Sprintf("%.1f%%", m.Trajectory.CurrentPct)
		}
		retention := optPct(m.FreshmanRetention)
		depth, pHeight, oHeight := "N/A", "N/A", "N/A"
		if m.Depth != nil {
			depth = fmt.Sprintf("%d/%d/%d/%d", m.Depth.Pitchers, m.Depth.Catchers, m.Depth.Infielders, m.Depth.Outfielders)
			pHeight = domain.FormatHeight(m.Depth.AvgPitcherHeight)
			oHeight = domain.FormatHeight(m.Depth.AvgOtherHeight)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.1f%%\t%s\t%s\t%s\n",
			m.ProgramID, m.ProgramName, trend, current, retention, m.InStatePct, depth, pHeight, oHeight)
	}
	return tw.Flush()
}

func runClassify(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	d, logger, err := loadDataset()
	if err != nil {
		return err
	}
	svc, err := newService(d, logger)
	if err != nil {
		return err
	}

	profile := domain.UserProfile{Academic: domain.AcademicInfo{}}
	if satTotal > 0 {
		profile.Academic[domain.MetricSATTotal] = satTotal
	}
	if gpa > 0 {
		profile.Academic[domain.MetricGPAUnweighted] = gpa
	}

	type row struct {
		ProgramID int64                 `json:"program_id"`
		Name      string                `json:"name"`
		Fit       domain.FitScoreBundle `json:"fit"`
	}
	rows := make([]row, 0, len(ids))
	for _, id := range ids {
		p, err := svc.Program(id)
		if err != nil {
			return err
		}
		b, err := svc.Score(profile, id)
		if err != nil {
			return err
		}
		rows = append(rows, row{ProgramID: id, Name: p.Name, Fit: b})
	}
	if jsonOutput {
		return printJSON(rows)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tATHLETIC\tACADEMIC\tOVERALL\tSUGGESTED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%.0f\t%.0f\t%.1f\t%s\n",
			r.ProgramID, r.Name, r.Fit.AthleticScore, r.Fit.AcademicScore, r.Fit.OverallScore, r.Fit.Classification)
	}
	return tw.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
