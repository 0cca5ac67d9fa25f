// Command corpusctl builds synchronized AI training datasets from a
// local multilingual corpus tree.
package main

import (
	"fmt"
	"os"

	"github.com/ai-culture-commons/corpusctl/internal/adapters/driven/audit/sqlite"
	configfile "github.com/ai-culture-commons/corpusctl/internal/adapters/driven/config/file"
	"github.com/ai-culture-commons/corpusctl/internal/adapters/driving/cli"
	"github.com/ai-culture-commons/corpusctl/internal/connectors/corpus"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
	"github.com/ai-culture-commons/corpusctl/internal/core/services"
	"github.com/ai-culture-commons/corpusctl/internal/emitters/compact"
	"github.com/ai-culture-commons/corpusctl/internal/emitters/dolma"
	"github.com/ai-culture-commons/corpusctl/internal/emitters/parallel"
	"github.com/ai-culture-commons/corpusctl/internal/extractors/html"
	"github.com/ai-culture-commons/corpusctl/internal/extractors/plaintext"
	"github.com/ai-culture-commons/corpusctl/internal/postprocessors"
)

// version is overridden at build time via ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetPipelineFactory(buildPipeline)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildPipeline wires adapters and services for one invocation. The
// returned cleanup closes everything the pipeline opened.
func buildPipeline(configPath string) (*cli.Pipeline, func(), error) {
	cfg, err := configfile.NewLoader(configPath).Load()
	if err != nil {
		return nil, nil, err
	}

	connector := corpus.New(cfg.Corpus)

	registry := services.NewExtractorRegistry()
	registry.Register(html.New())
	registry.Register(plaintext.New())

	pipeline, err := postprocessors.BuildPipeline(cfg)
	if err != nil {
		_ = connector.Close()
		return nil, nil, err
	}

	emitters := []driven.Emitter{
		dolma.New(cfg),
		compact.New(cfg),
		parallel.New(cfg),
	}

	verifier := services.NewVerifier(cfg, emitters)

	var audit driven.AuditStore
	if cfg.Audit.Enabled {
		store, err := sqlite.NewStore(cfg.AuditPath())
		if err != nil {
			_ = connector.Close()
			return nil, nil, fmt.Errorf("open audit store: %w", err)
		}
		audit = store
	}

	build := services.NewBuildOrchestrator(
		cfg, connector, registry, pipeline, emitters, verifier, audit,
	)

	cleanup := func() {
		if audit != nil {
			_ = audit.Close()
		}
		_ = connector.Close()
	}

	return &cli.Pipeline{
		Config:    cfg,
		Build:     build,
		Verify:    verifier,
		Connector: connector,
		Audit:     audit,
	}, cleanup, nil
}
