package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded build runs",
	Long: `Lists build runs recorded in the audit database, newest first, with
their timing, record count and verdict.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to list")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	pipeline, cleanup, err := newPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	if pipeline.Audit == nil {
		return fmt.Errorf("audit trail is disabled in configuration: %w", domain.ErrAuditUnavailable)
	}

	runs, err := pipeline.Audit.ListRuns(context.Background(), runsLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Printf("%-10s %-20s %-10s %8s  %s\n", "ID", "STARTED", "DURATION", "RECORDS", "VERDICT")
	for i := range runs {
		run := &runs[i]
		cmd.Printf("%-10s %-20s %-10s %8d  %s\n",
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runDuration(run),
			run.Records,
			verdictLabel(run.Verdict))
	}
	return nil
}

// shortID abbreviates UUID run identifiers for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// runDuration formats how long a run took, or notes it never finished.
func runDuration(run *domain.Run) string {
	if run.FinishedAt.IsZero() {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(10 * time.Millisecond).String()
}

// verdictLabel renders a verdict, blank for runs cut off mid-flight.
func verdictLabel(verdict domain.RunVerdict) string {
	if verdict == "" {
		return "-"
	}
	return verdict.String()
}
