package postprocessors

import (
	"fmt"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
	"github.com/ai-culture-commons/corpusctl/internal/postprocessors/textnorm"
	"github.com/ai-culture-commons/corpusctl/internal/postprocessors/wordcount"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("textnorm", buildTextNorm)
	r.Register("wordcount", buildWordCount)
}

// DefaultPipeline builds the standard processing chain for a config:
// normalization first, counting on the normalized result.
func DefaultPipeline(cfg *domain.Config) *Pipeline {
	return NewPipeline(
		textnorm.New(),
		wordcount.New(wordcount.WithDetection(cfg.Policies.CJKDetection)),
	)
}

// BuildPipeline assembles the processing chain named in the config.
// An empty chain yields DefaultPipeline; a configured chain is built
// through the registry, so stages can be reordered or dropped without
// code changes. Unknown processor names fail loudly.
func BuildPipeline(cfg *domain.Config) (*Pipeline, error) {
	if len(cfg.Processors.Chain) == 0 {
		return DefaultPipeline(cfg), nil
	}

	registry := NewRegistry()
	RegisterDefaults(registry)

	pipeline := NewPipeline()
	for _, name := range cfg.Processors.Chain {
		opts := cfg.Processors.Options[name]
		// The word counter follows the policy section unless the chain
		// overrides it explicitly.
		if name == "wordcount" && opts["cjk_detection"] == nil {
			seeded := map[string]any{"cjk_detection": cfg.Policies.CJKDetection.String()}
			for k, v := range opts {
				seeded[k] = v
			}
			opts = seeded
		}
		proc, err := registry.Build(name, opts)
		if err != nil {
			return nil, fmt.Errorf("processor chain: %w", err)
		}
		pipeline.Add(proc)
	}
	return pipeline, nil
}

// buildTextNorm creates a text normalization processor.
// The processor takes no config.
func buildTextNorm(_ map[string]any) (driven.RecordProcessor, error) {
	return textnorm.New(), nil
}

// buildWordCount creates a word count processor from generic config.
// Supported config keys:
//   - cjk_detection (string): "language" or "script" (default: "language")
func buildWordCount(cfg map[string]any) (driven.RecordProcessor, error) {
	var opts []wordcount.Option

	if cfg != nil {
		if mode := getStringFromConfig(cfg, "cjk_detection"); mode != "" {
			opts = append(opts, wordcount.WithDetection(domain.CJKDetection(mode)))
		}
	}

	return wordcount.New(opts...), nil
}

// getStringFromConfig safely extracts a string from generic config map.
func getStringFromConfig(cfg map[string]any, key string) string {
	val, ok := cfg[key]
	if !ok {
		return ""
	}

	s, ok := val.(string)
	if !ok {
		return ""
	}
	return s
}
