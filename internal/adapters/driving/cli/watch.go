package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ai-culture-commons/corpusctl/internal/adapters/driving/tui"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driving"
	"github.com/ai-culture-commons/corpusctl/internal/logger"
)

// watchSettle is how long the corpus must stay quiet before a rebuild.
// Translation syncs touch many files over several seconds, so this is
// deliberately longer than the connector's own event debounce.
const watchSettle = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild automatically when the corpus changes",
	Long: `Runs a build, then watches the corpus tree and rebuilds once changes
settle. Stops on interrupt.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	pipeline, cleanup, err := newPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	if !pipeline.Connector.Capabilities().SupportsWatch {
		return errors.New("corpus connector does not support watching")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial build. A failure is reported but does not stop the
	// watch; the next corpus change may fix it.
	if err := watchBuild(ctx, cmd, pipeline.Build); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		cmd.PrintErrf("Build failed: %v\n", err)
	}

	changes, err := pipeline.Connector.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching corpus: %w", err)
	}

	cmd.Println("Watching for corpus changes. Press ctrl+c to stop.")

	var (
		settle  *time.Timer
		settleC <-chan time.Time
		pending int
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case change, ok := <-changes:
			if !ok {
				return nil
			}
			pending++
			logger.Debug("Corpus change: %s", change.Path)
			if settle == nil {
				settle = time.NewTimer(watchSettle)
				settleC = settle.C
				continue
			}
			if !settle.Stop() {
				<-settle.C
			}
			settle.Reset(watchSettle)

		case <-settleC:
			cmd.Printf("Corpus changed (%d events), rebuilding...\n", pending)
			pending = 0
			settle = nil
			settleC = nil

			if err := watchBuild(ctx, cmd, pipeline.Build); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				cmd.PrintErrf("Rebuild failed: %v\n", err)
			}
		}
	}
}

// watchBuild runs one build with plain progress and prints its summary.
// Watch mode never uses the live display, rebuilds run unattended.
func watchBuild(ctx context.Context, cmd *cobra.Command, orch driving.BuildOrchestrator) error {
	summary, err := buildWithProgress(ctx, cmd, orch)
	if summary != nil {
		cmd.Print(tui.RenderSummary(nil, summary))
	}
	return err
}
