package driving

import (
	"context"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// Verifier checks emitted artifacts for structural soundness and
// cross-format agreement.
type Verifier interface {
	// Verify reads every artifact back from disk and cross-checks them.
	// When set is non-nil the artifacts are additionally spot-checked
	// against the in-memory records; pass nil for standalone
	// verification of existing files.
	Verify(ctx context.Context, set *domain.RecordSet) (*VerifyReport, error)
}

// VerifyReport is the outcome of an integrity check.
type VerifyReport struct {
	// Artifacts lists per-artifact results in emit order.
	Artifacts []ArtifactResult

	// CrossChecks lists cross-format comparisons that were made.
	CrossChecks []CheckResult

	// Samples lists the in-run spot checks that were made.
	Samples []CheckResult
}

// ArtifactResult is one artifact's verification outcome.
type ArtifactResult struct {
	// Name and Path identify the artifact.
	Name string
	Path string

	// Records is the number of logical records found on disk.
	Records int

	// Problems lists structural faults. Empty means sound.
	Problems []string
}

// CheckResult is one named check with its outcome.
type CheckResult struct {
	// Name describes the check.
	Name string

	// Ok reports whether the check passed.
	Ok bool

	// Detail explains a failure, or adds colour to a pass.
	Detail string
}

// Passed reports whether every artifact and every check is clean.
func (r *VerifyReport) Passed() bool {
	for _, a := range r.Artifacts {
		if len(a.Problems) > 0 {
			return false
		}
	}
	for _, c := range r.CrossChecks {
		if !c.Ok {
			return false
		}
	}
	for _, c := range r.Samples {
		if !c.Ok {
			return false
		}
	}
	return true
}

// Failures collects every failed check and structural problem.
func (r *VerifyReport) Failures() []string {
	var out []string
	for _, a := range r.Artifacts {
		for _, p := range a.Problems {
			out = append(out, a.Name+": "+p)
		}
	}
	for _, c := range r.CrossChecks {
		if !c.Ok {
			out = append(out, c.Name+": "+c.Detail)
		}
	}
	for _, c := range r.Samples {
		if !c.Ok {
			out = append(out, c.Name+": "+c.Detail)
		}
	}
	return out
}
