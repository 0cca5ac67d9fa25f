package driven

import (
	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// ConfigLoader loads the pipeline configuration.
// Implementations resolve a backing file and overlay it onto the
// built-in defaults.
type ConfigLoader interface {
	// Load returns the effective configuration: defaults overlaid
	// with the values found in the backing file, validated.
	Load() (*domain.Config, error)

	// Path returns the configuration file path.
	Path() string
}
