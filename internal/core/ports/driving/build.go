package driving

import (
	"context"
	"time"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// BuildOrchestrator drives a full corpus-to-dataset run.
type BuildOrchestrator interface {
	// Build walks the corpus, processes every file, validates alignment,
	// emits all artifacts and verifies them. Returns the run summary.
	// The summary is also returned alongside most errors so callers can
	// report partial progress.
	Build(ctx context.Context) (*domain.BuildSummary, error)

	// Status returns a snapshot of the running build.
	// Safe to call from other goroutines while Build runs.
	Status() BuildStatus
}

// BuildState identifies the pipeline stage a build is in.
type BuildState string

// Build states, in pipeline order.
const (
	// StateIdle means no build has started.
	StateIdle BuildState = "idle"

	// StateProcessing means files are being walked and processed.
	StateProcessing BuildState = "processing"

	// StateAligning means article groups are being validated.
	StateAligning BuildState = "aligning"

	// StateEmitting means artifacts are being written.
	StateEmitting BuildState = "emitting"

	// StateVerifying means emitted artifacts are being checked.
	StateVerifying BuildState = "verifying"

	// StateComplete means the run finished and artifacts verified.
	StateComplete BuildState = "complete"

	// StateFailed means the run stopped on a systemic error or failed
	// verification.
	StateFailed BuildState = "failed"
)

// BuildStatus is a point-in-time snapshot of a build.
type BuildStatus struct {
	// State is the current pipeline stage.
	State BuildState

	// FilesSeen and FilesMatched count walker progress.
	FilesSeen    int
	FilesMatched int

	// Accepted and Rejected count processed files.
	Accepted int
	Rejected int

	// Records is the emitted record count, set once emitting starts.
	Records int

	// CurrentPath is the corpus-relative path being processed.
	CurrentPath string

	// StartedAt is when the build began.
	StartedAt time.Time
}

// Running reports whether the build is still in progress.
func (s BuildStatus) Running() bool {
	switch s.State {
	case StateProcessing, StateAligning, StateEmitting, StateVerifying:
		return true
	default:
		return false
	}
}
