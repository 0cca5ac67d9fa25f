package driven

import (
	"context"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// Emitter writes the final record set to one dataset artifact and can
// read the artifact back for verification. All emitters consume the
// same set; none may filter or reorder it.
type Emitter interface {
	// Name identifies the artifact format ("dolma", "compact", "parallel").
	Name() string

	// Path returns the artifact's output path.
	Path() string

	// Emit writes the artifact. Partial output on error is acceptable;
	// the verifier is what declares artifacts good.
	Emit(ctx context.Context, set *domain.RecordSet) error

	// Verify reads the artifact back from disk and reports its structure
	// and content. Structural problems go into the report rather than the
	// error; the error is for unreadable or unparseable files.
	Verify(ctx context.Context) (*ArtifactReport, error)
}

// ArtifactReport is an emitter's account of what is actually on disk.
// The verifier cross-checks reports from all artifacts against each
// other and, in-run, against the record set.
type ArtifactReport struct {
	// Name and Path echo the emitter.
	Name string
	Path string

	// Records is the number of logical records found. For the parallel
	// artifact this is the number of data rows.
	Records int

	// Identifiers holds record identifiers in file order. The parallel
	// artifact reports article codes instead.
	Identifiers []string

	// Texts maps identifiers to body text. The parallel artifact keys
	// cells as "<code>:<lang>".
	Texts map[string]string

	// Titles maps identifiers to titles. Nil for the parallel artifact,
	// which carries no title column.
	Titles map[string]string

	// Problems lists structural faults found while reading.
	Problems []string
}

// Ok reports whether the artifact had no structural problems.
func (r *ArtifactReport) Ok() bool {
	return len(r.Problems) == 0
}
