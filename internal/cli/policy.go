package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/courtsight-ai/courtsight/internal/daemon"
)

func init() {
	policyCmd.Flags().StringVar(&seasonFlag, "season", "", "Season to evaluate (defaults to config)")
	policyCmd.Flags().BoolVar(&policyDryRun, "dry-run", false, "Report the decision without enqueueing")
	rootCmd.AddCommand(policyCmd)
}

var policyDryRun bool

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Evaluate the retrain policy for a season",
	Long: `Decide whether the season's model warrants retraining. Unless
--dry-run is given, a warranted retrain is enqueued (subject to the
duplicate guard).`,
	RunE: runPolicy,
}

func runPolicy(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	season := seasonOrDefault(d)
	decision, err := d.Policy.Evaluate(context.Background(), season, policyDryRun)
	if err != nil {
		return err
	}

	fmt.Printf("Season %s — action: %s\n", decision.Season, decision.Action)
	fmt.Printf("  Should retrain:   %v\n", decision.ShouldRetrain)
	fmt.Printf("  Completed games:  %d\n", decision.Metrics.CompletedGames)
	fmt.Printf("  Evaluated preds:  %d\n", decision.Metrics.EvaluatedPredictions)
	fmt.Printf("  New labels:       %d (threshold %d)\n",
		decision.Metrics.NewLabelsPending, decision.Thresholds.NewLabelsMin)
	if len(decision.Reasons) > 0 {
		fmt.Printf("  Reasons:\n    %s\n", strings.Join(decision.Reasons, "\n    "))
	}
	if decision.Execution.RetrainJob != nil {
		job := decision.Execution.RetrainJob
		fmt.Printf("  Job: %s (%s)\n", job.ID, job.Status)
		if decision.Execution.DuplicateGuardTriggered {
			fmt.Println("  Duplicate guard: an active job already covers this season.")
		}
	}
	return nil
}
