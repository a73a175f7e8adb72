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
	monitorCmd.Flags().StringVar(&seasonFlag, "season", "", "Season to evaluate (defaults to config)")
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Evaluate current model quality against thresholds",
	Long: `Compute accuracy, Brier score, and data freshness for the season,
grade them against the configured thresholds, and record a trend
snapshot. Prints any alerts that fired.`,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	season := seasonOrDefault(d)
	overview, err := d.Monitor.Overview(context.Background(), season)
	if err != nil {
		return err
	}

	fmt.Printf("Season %s — escalation: %s\n", overview.Season, overview.Escalation)
	fmt.Printf("  Evaluated predictions: %d\n", overview.Metrics.EvaluatedPredictions)
	fmt.Printf("  Accuracy:              %s (min %.3f)\n",
		fmtFloat(overview.Metrics.Accuracy), overview.Thresholds.AccuracyMin)
	fmt.Printf("  Brier score:           %s (max %.3f)\n",
		fmtFloat(overview.Metrics.BrierScore), overview.Thresholds.BrierMax)
	fmt.Printf("  Game freshness:        %s days (max %d)\n",
		fmtInt(overview.Metrics.GameFreshnessDays), overview.Thresholds.FreshnessDaysMax)
	fmt.Printf("  Pipeline freshness:    %s days (max %d)\n",
		fmtInt(overview.Metrics.PipelineFreshnessDays), overview.Thresholds.FreshnessDaysMax)

	if len(overview.Alerts) == 0 {
		fmt.Println("No alerts.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALERT\tSEVERITY\tSTREAK\tACTION\tMESSAGE")
	for _, a := range overview.Alerts {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			a.ID, a.Severity, a.BreachStreak, a.RecommendedAction, a.Message)
	}
	return w.Flush()
}

// seasonOrDefault resolves the --season flag against the config.
func seasonOrDefault(d *daemon.Daemon) string {
	if seasonFlag != "" {
		return seasonFlag
	}
	return d.Config.Season.Current
}

func fmtFloat(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *p)
}

func fmtInt(p *int) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *p)
}
