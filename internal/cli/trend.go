package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/courtsight-ai/courtsight/internal/daemon"
)

func init() {
	trendCmd.Flags().StringVar(&seasonFlag, "season", "", "Season to evaluate (defaults to config)")
	trendCmd.Flags().IntVar(&trendDays, "days", 14, "Trailing window in days")
	trendCmd.Flags().IntVar(&trendLimit, "limit", 30, "Maximum snapshots to show")
	rootCmd.AddCommand(trendCmd)
}

var (
	trendDays  int
	trendLimit int
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show the monitoring snapshot history",
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	season := seasonOrDefault(d)
	snapshots, err := d.Monitor.Trend(context.Background(), season, trendDays, trendLimit)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Printf("No snapshots for season %s in the last %d days.\n", season, trendDays)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CAPTURED\tEVALUATED\tACCURACY\tBRIER\tGAME AGE\tALERTS")
	for _, s := range snapshots {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%d\n",
			s.CapturedAt.Format("2006-01-02 15:04"),
			s.EvaluatedPredictions,
			fmtFloat(s.Accuracy),
			fmtFloat(s.BrierScore),
			fmtInt(s.GameFreshnessDays),
			s.AlertCount,
		)
	}
	return w.Flush()
}
