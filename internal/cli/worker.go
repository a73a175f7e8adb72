package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courtsight-ai/courtsight/internal/daemon"
	"github.com/courtsight-ai/courtsight/internal/domain"
)

func init() {
	workerCmd.Flags().StringVar(&workerSeason, "season", "", "Only claim jobs for this season")
	workerCmd.Flags().BoolVar(&workerExecute, "execute", false, "Run the real training pipeline")
	rootCmd.AddCommand(workerCmd)
}

var (
	workerSeason  string
	workerExecute bool
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Claim and process one queued retrain job",
	Long: `Claim the oldest queued retrain job and process it. Without
--execute the job completes with a simulation marker, which validates
queue wiring without training cost.`,
	RunE: runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := d.Worker.ProcessNext(context.Background(), workerSeason, workerExecute)
	if err != nil {
		return err
	}

	fmt.Printf("Worker: %s\n", result.Status)
	fmt.Printf("  %s\n", result.Message)
	if result.Job != nil {
		fmt.Printf("  Job: %s (%s), duration %s\n",
			result.Job.ID, result.Job.Status, fmtDuration(result.Job))
		if result.Job.Error != "" {
			fmt.Printf("  Error: %s\n", result.Job.Error)
		}
	}
	return nil
}

func fmtDuration(job *domain.RetrainJob) string {
	if d := job.Duration(); d > 0 {
		return d.String()
	}
	return "n/a"
}
