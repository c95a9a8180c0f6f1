package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/couchcryptid/baseball-program-finder/internal/filter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var criteria filter.Criteria

var (
	homeLat, homeLon float64
	month            int
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "List programs matching the given criteria",
	Args:  cobra.NoArgs,
	RunE:  runFilter,
}

func init() {
	f := filterCmd.Flags()
	f.IntSliceVar(&criteria.Divisions, "division", nil, "NCAA division (repeatable)")
	f.StringSliceVar(&criteria.Conferences, "conference", nil, "conference name (repeatable)")
	f.IntSliceVar(&criteria.Regions, "region", nil, "IPEDS region code (repeatable)")
	f.IntSliceVar(&criteria.Locales, "locale", nil, "IPEDS locale code (repeatable)")
	f.IntSliceVar(&criteria.Controls, "control", nil, "1 public, 2 private nonprofit, 3 private for-profit")
	f.StringSliceVar(&criteria.EnrollmentBands, "enrollment", nil, "enrollment band name (repeatable)")
	f.IntSliceVar(&criteria.ReligiousAffiliations, "affiliation", nil, "IPEDS religious affiliation code (repeatable)")
	f.BoolVar(&criteria.RankedOnly, "ranked", false, "only nationally ranked programs")
	f.Float64Var(&criteria.MaxDistanceMiles, "max-distance", 0, "maximum miles from home")
	f.Float64Var(&homeLat, "home-lat", 0, "home latitude")
	f.Float64Var(&homeLon, "home-lon", 0, "home longitude")
	f.IntVar(&month, "month", 0, "month for climate filters (0 = annual)")

	rangeFlags(f, "win", 0, 100, "team win percentage")
	rangeFlags(f, "accept", 0, 100, "acceptance rate percentage")
	rangeFlags(f, "score", 400, 1600, "average SAT")
	rangeFlags(f, "temp", -60, 130, "mean temperature, deg F")
	rangeFlags(f, "precip", 0, 10, "mean precipitation, in/day")
	rangeFlags(f, "cloud", 0, 100, "mean cloud cover, percent")
}

func rangeFlags(f *pflag.FlagSet, name string, lo, hi float64, what string) {
	f.Float64("min-"+name, lo, "minimum "+what)
	f.Float64("max-"+name, hi, "maximum "+what)
}

// rangeFrom returns nil unless one of the pair was set explicitly.
func rangeFrom(f *pflag.FlagSet, name string) *filter.Range {
	if !f.Changed("min-"+name) && !f.Changed("max-"+name) {
		return nil
	}
	lo, _ := f.GetFloat64("min-" + name)
	hi, _ := f.GetFloat64("max-" + name)
	return &filter.Range{Min: lo, Max: hi}
}

func runFilter(cmd *cobra.Command, _ []string) error {
	d, logger, err := loadDataset()
	if err != nil {
		return err
	}

	f := cmd.Flags()
	c := criteria
	c.WinPct = rangeFrom(f, "win")
	c.AcceptRate = rangeFrom(f, "accept")
	c.TestScore = rangeFrom(f, "score")
	c.Temperature = rangeFrom(f, "temp")
	c.Precipitation = rangeFrom(f, "precip")
	c.CloudCover = rangeFrom(f, "cloud")
	c.Month = time.Month(month)
	if f.Changed("home-lat") || f.Changed("home-lon") {
		c.Home = &domain.Geo{Lat: homeLat, Lon: homeLon}
	}

	svc, err := newService(d, logger)
	if err != nil {
		return err
	}
	res := svc.Search(cmd.Context(), c)
	if res.Degraded {
		fmt.Fprintf(os.Stderr, "warning: filters not applied (%v); showing all programs\n", res.Err)
	}

	if jsonOutput {
		return printJSON(res.Programs)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE\tDIV\tCONFERENCE\tWIN%\tACCEPT%\tSAT")
	for _, p := range res.Programs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%.1f\t%s\t%s\n",
			p.ProgramID, p.Name, p.State, p.Division, p.Conference, p.WinPct,
			optPct(p.AcceptRatePct), score(p.TestScore))
	}
	fmt.Fprintf(tw, "\n%d programs\n", len(res.Programs))
	return tw.Flush()
}

func optPct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}

func score(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.0f", v)
}
