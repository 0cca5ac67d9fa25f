package driven

import (
	"context"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// RecordProcessor transforms a record under construction.
// Processors are chained in a pipeline (normalization, word counting)
// and run before the record enters the record set; records are immutable
// afterwards.
type RecordProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process mutates the record in place. Returning an error rejects
	// the file the record was built from, not the whole run.
	Process(ctx context.Context, rec *domain.Record) error
}

// ProcessorPipeline chains multiple RecordProcessors.
type ProcessorPipeline interface {
	// Process runs the record through all processors in order.
	Process(ctx context.Context, rec *domain.Record) error

	// Names returns the processor names in execution order.
	Names() []string
}
