package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ai-culture-commons/corpusctl/internal/adapters/driving/tui"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify emitted artifacts without rebuilding",
	Long: `Reads the dataset artifacts back from the output directory, checks
each for structural soundness and cross-checks record counts,
identifiers and ordering between the formats.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	pipeline, cleanup, err := newPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := pipeline.Verify.Verify(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	cmd.Print(tui.RenderReport(nil, report))

	if !report.Passed() {
		return fmt.Errorf("verify failed: %d problems", len(report.Failures()))
	}
	return nil
}
