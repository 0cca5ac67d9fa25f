package domain

import "time"

// FileEventStatus classifies the outcome of processing one corpus file.
// The same vocabulary feeds the run summary and the audit trail.
type FileEventStatus string

// Available file event statuses.
const (
	// EventAccepted means the file became a record.
	EventAccepted FileEventStatus = "accepted"

	// EventUnsupported means the extension matched no extractor.
	EventUnsupported FileEventStatus = "unsupported"

	// EventSkipped means a configured skip rule excluded the file.
	EventSkipped FileEventStatus = "skipped"

	// EventDuplicate means the normalized body was already seen.
	EventDuplicate FileEventStatus = "duplicate"

	// EventEmpty means extraction yielded no text and the policy rejects.
	EventEmpty FileEventStatus = "empty"

	// EventUnaligned means the record was dropped with its article group
	// because the group was incomplete.
	EventUnaligned FileEventStatus = "unaligned"

	// EventError means the file could not be read or parsed.
	EventError FileEventStatus = "error"
)

// IsValid returns true if the status is recognised.
func (s FileEventStatus) IsValid() bool {
	switch s {
	case EventAccepted, EventUnsupported, EventSkipped,
		EventDuplicate, EventEmpty, EventUnaligned, EventError:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s FileEventStatus) String() string {
	return string(s)
}

// BuildSummary aggregates everything a run did. It is rendered at the
// end of a build and persisted to the audit trail.
type BuildSummary struct {
	// Root is the corpus directory that was walked.
	Root string

	// StartedAt and FinishedAt bound the run, UTC.
	StartedAt  time.Time
	FinishedAt time.Time

	// FilesSeen counts every regular file the walker visited.
	FilesSeen int

	// FilesMatched counts files classified as a supported kind in a
	// known language.
	FilesMatched int

	// Unsupported counts files with no matching extractor or language.
	Unsupported int

	// Skipped counts files excluded by configured skip rules.
	Skipped int

	// Errors counts files that failed to read or parse.
	Errors int

	// Empty counts files rejected for empty content.
	Empty int

	// Duplicates counts files rejected as duplicate content.
	Duplicates int

	// GroupsTotal, GroupsAligned and GroupsDropped count article groups
	// before and after alignment validation.
	GroupsTotal   int
	GroupsAligned int
	GroupsDropped int

	// Records counts what the emitters wrote.
	Records int

	// Words sums the word counts of emitted records.
	Words int

	// RecordsByLanguage, WordsByLanguage, RecordsByDomain and
	// RecordsByKind break emitted records down for the report.
	RecordsByLanguage map[string]int
	WordsByLanguage   map[string]int
	RecordsByDomain   map[string]int
	RecordsByKind     map[SourceKind]int

	// Artifacts lists the emitted file paths.
	Artifacts []string

	// IntegrityPassed reports the verifier's verdict.
	IntegrityPassed bool
}

// NewBuildSummary returns a summary with initialised tallies.
func NewBuildSummary(root string) *BuildSummary {
	return &BuildSummary{
		Root:              root,
		StartedAt:         time.Now().UTC(),
		RecordsByLanguage: make(map[string]int),
		WordsByLanguage:   make(map[string]int),
		RecordsByDomain:   make(map[string]int),
		RecordsByKind:     make(map[SourceKind]int),
	}
}

// CountRecord tallies an emitted record.
func (s *BuildSummary) CountRecord(r *Record) {
	s.Records++
	s.Words += r.WordCount
	s.RecordsByLanguage[r.Language]++
	s.WordsByLanguage[r.Language] += r.WordCount
	s.RecordsByDomain[r.Domain]++
	s.RecordsByKind[r.Kind]++
}

// Rejected returns the number of matched files that produced no record.
func (s *BuildSummary) Rejected() int {
	return s.Skipped + s.Errors + s.Empty + s.Duplicates
}

// Duration returns the wall-clock duration of the run.
func (s *BuildSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
