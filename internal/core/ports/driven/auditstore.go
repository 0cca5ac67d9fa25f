package driven

import (
	"context"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// AuditStore persists runs and per-file outcomes.
// Backed by SQLite. A nil store disables the audit trail.
type AuditStore interface {
	// BeginRun records a run that has started, assigning run.ID when
	// the caller did not.
	BeginRun(ctx context.Context, run *domain.Run) error

	// FinishRun updates a run with its final counts and verdict.
	FinishRun(ctx context.Context, run *domain.Run) error

	// RecordEvent stores one per-file outcome.
	RecordEvent(ctx context.Context, event *domain.FileEvent) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)

	// ListEvents returns the events of a run in insertion order.
	ListEvents(ctx context.Context, runID string) ([]domain.FileEvent, error)

	// Close releases the underlying database.
	Close() error
}
