package domain

import "time"

// RunVerdict is the final outcome of a build run.
type RunVerdict string

// Available run verdicts.
const (
	// VerdictPassed means artifacts were emitted and verified.
	VerdictPassed RunVerdict = "passed"

	// VerdictFailed means emitted artifacts failed verification.
	VerdictFailed RunVerdict = "failed"

	// VerdictEmpty means no records survived the pipeline.
	VerdictEmpty RunVerdict = "empty"

	// VerdictAborted means the run stopped on a systemic error.
	VerdictAborted RunVerdict = "aborted"
)

// IsValid returns true if the verdict is recognised.
func (v RunVerdict) IsValid() bool {
	switch v {
	case VerdictPassed, VerdictFailed, VerdictEmpty, VerdictAborted:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (v RunVerdict) String() string {
	return string(v)
}

// Run is one build run as recorded in the audit trail.
type Run struct {
	// ID is the run's UUID.
	ID string

	// StartedAt and FinishedAt bound the run, UTC.
	StartedAt  time.Time
	FinishedAt time.Time

	// Root is the corpus directory that was walked.
	Root string

	// Records is the number of records emitted.
	Records int

	// Verdict is the final outcome.
	Verdict RunVerdict
}

// FileEvent is one per-file outcome within a run.
type FileEvent struct {
	// RunID links to the Run.
	RunID string

	// Path is the corpus-relative path of the file.
	Path string

	// Identifier is the record identifier, when one was derived.
	Identifier string

	// Status is the outcome.
	Status FileEventStatus

	// Reason carries detail for non-accepted outcomes.
	Reason string
}
