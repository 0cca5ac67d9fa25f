package driven

import (
	"context"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// ExtractorRegistry selects the appropriate extractor for a source file.
// It maintains a priority-ordered list of extractors and dispatches based
// on the file's classified kind.
type ExtractorRegistry interface {
	// Extract parses a file using the best matching extractor.
	Extract(ctx context.Context, file *domain.SourceFile, content []byte) (*ExtractResult, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedKinds returns all source kinds that can be extracted.
	SupportedKinds() []domain.SourceKind
}
