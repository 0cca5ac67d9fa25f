package driven

import (
	"context"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// Extractor pulls title and body text out of one source format.
// Each extractor handles specific source kinds (HTML, pre-converted text).
type Extractor interface {
	// Kinds returns the source kinds this extractor handles.
	Kinds() []domain.SourceKind

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract parses one file's content. The returned text and title are
	// raw extraction output; normalization happens later in the pipeline.
	Extract(ctx context.Context, file *domain.SourceFile, content []byte) (*ExtractResult, error)
}

// ExtractResult contains the output of extraction.
type ExtractResult struct {
	// Title is the document title as found in the source.
	Title string

	// Text is the body text as found in the source.
	Text string

	// RawHTML is the original markup when the source was HTML.
	RawHTML string
}
