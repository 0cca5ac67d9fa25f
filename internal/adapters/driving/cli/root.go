// Package cli implements the corpusctl command-line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driving"
	"github.com/ai-culture-commons/corpusctl/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// SetVersion sets the version string the version command reports.
func SetVersion(v string) {
	version = v
}

// Pipeline bundles the services commands run against, all built from
// one configuration.
type Pipeline struct {
	// Config is the effective configuration.
	Config *domain.Config

	// Build runs the corpus-to-dataset pipeline.
	Build driving.BuildOrchestrator

	// Verify checks emitted artifacts.
	Verify driving.Verifier

	// Connector walks and watches the corpus.
	Connector driven.CorpusConnector

	// Audit records runs. Nil when the audit trail is disabled.
	Audit driven.AuditStore
}

// pipelineFactory builds a pipeline for the flagged config path. It is
// injected from main so commands stay decoupled from adapter wiring.
var pipelineFactory func(configPath string) (*Pipeline, func(), error)

// SetPipelineFactory sets the factory commands use to build their
// services.
func SetPipelineFactory(factory func(configPath string) (*Pipeline, func(), error)) {
	pipelineFactory = factory
}

// newPipeline builds the pipeline for the current invocation.
func newPipeline() (*Pipeline, func(), error) {
	if pipelineFactory == nil {
		return nil, nil, errors.New("pipeline factory not configured")
	}
	return pipelineFactory(configPath)
}

// Flag values shared by every command.
var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "corpusctl",
	Short: "Build AI training datasets from a multilingual corpus",
	Long: `corpusctl converts a local corpus tree of articles and their
translations into synchronized training artifacts: a Dolma-style
JSONL, a compact JSON array and a parallel CSV, with alignment
validation, deduplication and post-run verification.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to the configuration file (default corpusctl.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
