package cli

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/recondash/recondash/internal/app"
	"github.com/recondash/recondash/jobs"
)

var reprocessCmd = &cobra.Command{
	Use:   "reprocess [document-id...]",
	Short: "Queue documents for reconciliation reprocessing",
	Long: `Reprocess enqueues the given documents for background
re-classification. With --all it enqueues the nightly sweep instead,
covering every document still left unclassified.`,
	Example: `  reconctl reprocess 2f9c0f4e-4d8a-4c43-9a64-0a6f3a6f7f11
  reconctl reprocess --all`,
	RunE: runReprocess,
}

func init() {
	rootCmd.AddCommand(reprocessCmd)
	reprocessCmd.Flags().Bool("all", false, "Sweep every unclassified document")
}

func runReprocess(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		return fmt.Errorf("pass document ids or --all")
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() { _ = client.Close() }()

	ctx := cmd.Context()
	if all {
		if _, err := client.EnqueueContext(ctx, jobs.NewSweepTask(), asynq.Queue(jobs.QueueDefault)); err != nil {
			return err
		}
		fmt.Println("sweep queued")
		return nil
	}

	task, err := jobs.NewReprocessTask(jobs.ReprocessPayload{DocumentIDs: args, RequestedBy: "reconctl"})
	if err != nil {
		return err
	}
	if _, err := client.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueDefault)); err != nil {
		return err
	}
	fmt.Printf("queued %d documents\n", len(args))
	return nil
}
