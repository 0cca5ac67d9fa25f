package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure ExtractorRegistry implements the interface.
var _ driven.ExtractorRegistry = (*ExtractorRegistry)(nil)

// ExtractorRegistry selects extractors by source kind and priority.
type ExtractorRegistry struct {
	byKind map[domain.SourceKind][]driven.Extractor
}

// NewExtractorRegistry creates an empty registry.
func NewExtractorRegistry() *ExtractorRegistry {
	return &ExtractorRegistry{
		byKind: make(map[domain.SourceKind][]driven.Extractor),
	}
}

// Register adds an extractor for every kind it declares.
// Extractors for the same kind are kept ordered by priority, highest first.
func (r *ExtractorRegistry) Register(extractor driven.Extractor) {
	for _, kind := range extractor.Kinds() {
		list := append(r.byKind[kind], extractor)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.byKind[kind] = list
	}
}

// Extract parses a file using the best matching extractor.
func (r *ExtractorRegistry) Extract(
	ctx context.Context,
	file *domain.SourceFile,
	content []byte,
) (*driven.ExtractResult, error) {
	list := r.byKind[file.Kind]
	if len(list) == 0 {
		return nil, fmt.Errorf("extract %s: %w", file.RelPath, domain.ErrUnsupportedKind)
	}
	return list[0].Extract(ctx, file, content)
}

// SupportedKinds returns all source kinds with at least one extractor.
func (r *ExtractorRegistry) SupportedKinds() []domain.SourceKind {
	kinds := make([]domain.SourceKind, 0, len(r.byKind))
	for kind := range r.byKind {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
