package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage deferred reconciliation jobs",
}

var queueAddCmd = &cobra.Command{
	Use:   "add <eid>...",
	Short: "Queue reconciliation of elements",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQueueAdd,
}

var queueRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run queued reconciliations",
	Long: `Runs queued reconciliations, rate limited. Without --once the worker
keeps polling for new jobs until interrupted.`,
	RunE: runQueueRun,
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reconciliation jobs",
	RunE:  runQueueList,
}

var (
	queueRunOnce    bool
	queueListStatus string
	queueListLimit  int
)

func init() {
	queueRunCmd.Flags().BoolVar(&queueRunOnce, "once", false, "Drain pending jobs and exit")
	queueListCmd.Flags().StringVar(&queueListStatus, "status", "", "Filter by status (pending, running, done, failed)")
	queueListCmd.Flags().IntVar(&queueListLimit, "limit", 50, "Maximum number of jobs")

	queueCmd.AddCommand(queueAddCmd)
	queueCmd.AddCommand(queueRunCmd)
	queueCmd.AddCommand(queueListCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	if jobQueue == nil {
		return errors.New("job queue not configured")
	}

	for _, arg := range args {
		eid, err := parseElementID(arg)
		if err != nil {
			return err
		}
		job, err := jobQueue.Enqueue(cmd.Context(), eid)
		if err != nil {
			return fmt.Errorf("queue element %d: %w", eid, err)
		}
		cmd.Printf("Queued element %d (job %s)\n", eid, job.ID)
	}
	return nil
}

func runQueueRun(cmd *cobra.Command, _ []string) error {
	if jobQueue == nil {
		return errors.New("job queue not configured")
	}

	if queueRunOnce {
		n, err := jobQueue.RunOnce(cmd.Context())
		if err != nil {
			return fmt.Errorf("run queue: %w", err)
		}
		cmd.Printf("Ran %d jobs\n", n)
		return nil
	}

	cmd.Println("Running job queue, press Ctrl+C to stop...")
	err := jobQueue.Run(cmd.Context())
	if err != nil && !errors.Is(err, cmd.Context().Err()) {
		return fmt.Errorf("run queue: %w", err)
	}
	return nil
}

func runQueueList(cmd *cobra.Command, _ []string) error {
	if jobQueue == nil {
		return errors.New("job queue not configured")
	}

	status := domain.JobStatus(queueListStatus)
	if status != "" && !status.IsValid() {
		return fmt.Errorf("unknown status %q", queueListStatus)
	}

	jobs, err := jobQueue.List(cmd.Context(), status, queueListLimit)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	if len(jobs) == 0 {
		cmd.Println("No jobs.")
		return nil
	}

	cmd.Printf("%-36s  %-10s  %-8s  %-8s  %s\n", "ID", "ELEMENT", "STATUS", "ATTEMPTS", "LAST ERROR")
	for _, job := range jobs {
		cmd.Printf("%-36s  %-10d  %-8s  %-8d  %s\n",
			job.ID, job.ElementID, job.Status, job.Attempts, job.LastError)
	}
	return nil
}
