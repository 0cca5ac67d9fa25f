// Package postprocessors provides record content processing implementations.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.ProcessorPipeline = (*Pipeline)(nil)

// Pipeline chains multiple RecordProcessors and runs them in order.
type Pipeline struct {
	processors []driven.RecordProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided; order matters, since
// later processors read what earlier ones wrote.
func NewPipeline(processors ...driven.RecordProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the record through all processors in order.
// The first error stops the pipeline and rejects the record's file.
func (p *Pipeline) Process(ctx context.Context, rec *domain.Record) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}

	for _, processor := range p.processors {
		if err := processor.Process(ctx, rec); err != nil {
			return fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return nil
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.processors))
	for _, processor := range p.processors {
		names = append(names, processor.Name())
	}
	return names
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.RecordProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}
