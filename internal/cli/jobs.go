package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/courtsight-ai/courtsight/internal/daemon"
)

func init() {
	jobsCmd.Flags().StringVar(&jobsSeason, "season", "", "Only show jobs for this season")
	jobsCmd.Flags().IntVar(&jobsLimit, "limit", 20, "Maximum jobs to show")
	rootCmd.AddCommand(jobsCmd)
}

var (
	jobsSeason string
	jobsLimit  int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List retrain jobs, most recent first",
	RunE:  runJobs,
}

func runJobs(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	jobs, err := d.DB.ListJobs(context.Background(), jobsSeason, jobsLimit)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Println("No retrain jobs.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEASON\tSTATUS\tCREATED\tREASONS")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(j.ID),
			j.Season,
			j.Status,
			j.CreatedAt.Format("2006-01-02 15:04"),
			strings.Join(j.Reasons, "; "),
		)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
