package driven

import (
	"context"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// CorpusConnector walks a corpus tree and streams classified files.
// The filesystem connector is the only production implementation; tests
// substitute their own.
type CorpusConnector interface {
	// Root returns the corpus root directory.
	Root() string

	// Capabilities returns what this connector supports.
	Capabilities() ConnectorCapabilities

	// Validate checks that the corpus root exists and is readable.
	// Returns nil if ready to walk, error describing the problem otherwise.
	Validate(ctx context.Context) error

	// Walk streams every classified file in deterministic lexicographic
	// order. Returns channels for files and errors. Both channels close
	// when the walk finishes; an error for one file does not stop the walk.
	Walk(ctx context.Context) (<-chan domain.SourceFile, <-chan error)

	// Watch listens for corpus changes.
	// Only available if SupportsWatch is true.
	Watch(ctx context.Context) (<-chan domain.FileChange, error)

	// Close releases resources.
	Close() error
}

// ConnectorCapabilities describes what a connector supports.
type ConnectorCapabilities struct {
	// SupportsWatch indicates the connector can push change events.
	SupportsWatch bool

	// SupportsValidation indicates Validate() performs an actual check.
	SupportsValidation bool
}
