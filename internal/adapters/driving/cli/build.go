package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/ai-culture-commons/corpusctl/internal/adapters/driving/tui"
	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driving"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the dataset artifacts from the corpus",
	Long: `Walks the corpus tree, normalizes and deduplicates every article,
validates translation alignment and writes the three dataset
artifacts: Dolma JSONL, compact JSON and parallel CSV.

The command fails when the emitted artifacts do not verify.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	pipeline, cleanup, err := newPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runPipeline(ctx, cmd, pipeline.Build)
	if summary != nil {
		cmd.Print(tui.RenderSummary(nil, summary))
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

// isTerminal reports whether stdout is an interactive terminal. A
// variable so tests can force the plain progress path.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// runPipeline executes the build with a progress display suited to the
// output: a live view on a terminal, plain lines otherwise.
func runPipeline(
	ctx context.Context,
	cmd *cobra.Command,
	orch driving.BuildOrchestrator,
) (*domain.BuildSummary, error) {
	if isTerminal() {
		return tui.RunBuild(ctx, orch)
	}
	return buildWithProgress(ctx, cmd, orch)
}

// buildWithProgress runs the build while printing occasional progress
// lines to stderr.
func buildWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orch driving.BuildOrchestrator,
) (*domain.BuildSummary, error) {
	type result struct {
		summary *domain.BuildSummary
		err     error
	}

	// Run the build in a goroutine and poll status while it works.
	resCh := make(chan result, 1)
	go func() {
		summary, err := orch.Build(ctx)
		resCh <- result{summary: summary, err: err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	throttle := rate.Sometimes{Interval: 2 * time.Second}
	for {
		select {
		case res := <-resCh:
			return res.summary, res.err
		case <-ticker.C:
			status := orch.Status()
			if !status.Running() {
				continue
			}
			throttle.Do(func() {
				cmd.PrintErrf("%s: %d seen, %d matched, %d accepted, %d rejected\n",
					status.State, status.FilesSeen, status.FilesMatched,
					status.Accepted, status.Rejected)
			})
		}
	}
}
