package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driving"
	"github.com/ai-culture-commons/corpusctl/internal/logger"
)

// Ensure Verifier implements the interface.
var _ driving.Verifier = (*Verifier)(nil)

// Verifier reads emitted artifacts back and cross-checks them.
// It trusts nothing in memory: every check starts from the bytes on disk.
type Verifier struct {
	cfg      *domain.Config
	emitters []driven.Emitter
	sections *domain.SectionMapping
}

// NewVerifier creates a verifier over the same emitters a build uses.
func NewVerifier(cfg *domain.Config, emitters []driven.Emitter) *Verifier {
	return &Verifier{
		cfg:      cfg,
		emitters: emitters,
		sections: cfg.SectionMapping(),
	}
}

// Verify checks every artifact and their agreement with each other.
// With a non-nil set it also spot-checks disk content against memory.
func (v *Verifier) Verify(ctx context.Context, set *domain.RecordSet) (*driving.VerifyReport, error) {
	logger.Section("Artifact Verification")

	report := &driving.VerifyReport{}
	byName := make(map[string]*driven.ArtifactReport, len(v.emitters))

	// 1. Structural pass per artifact
	for _, emitter := range v.emitters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ar, err := emitter.Verify(ctx)
		if err != nil {
			return nil, fmt.Errorf("read %s artifact: %w", emitter.Name(), err)
		}
		byName[ar.Name] = ar
		report.Artifacts = append(report.Artifacts, driving.ArtifactResult{
			Name:     ar.Name,
			Path:     ar.Path,
			Records:  ar.Records,
			Problems: ar.Problems,
		})
		logger.Debug("Verified %s: %d records, %d problems",
			ar.Name, ar.Records, len(ar.Problems))
	}

	// 2. Cross-format agreement
	v.crossCheck(report, byName)

	// 3. Spot samples against memory
	if set != nil {
		v.sampleCheck(report, byName, set)
	}

	return report, nil
}

// crossCheck compares the per-artifact reports against each other.
func (v *Verifier) crossCheck(report *driving.VerifyReport, byName map[string]*driven.ArtifactReport) {
	dolma := byName["dolma"]
	compact := byName["compact"]
	parallel := byName["parallel"]

	if dolma != nil && compact != nil {
		report.CrossChecks = append(report.CrossChecks,
			identifiersMatch("dolma and compact identifiers match", dolma.Identifiers, compact.Identifiers))
	}

	if dolma != nil && parallel != nil {
		langs := len(v.cfg.Corpus.Languages)
		check := driving.CheckResult{Name: "parallel rows cover every record"}
		if got, want := parallel.Records*langs, len(dolma.Identifiers); got == want {
			check.Ok = true
			check.Detail = fmt.Sprintf("%d rows x %d languages = %d records",
				parallel.Records, langs, want)
		} else {
			check.Detail = fmt.Sprintf("%d rows x %d languages = %d, but %d records emitted",
				parallel.Records, langs, got, want)
		}
		report.CrossChecks = append(report.CrossChecks, check)

		report.CrossChecks = append(report.CrossChecks,
			identifiersMatch("parallel article codes match dolma order",
				v.articleCodes(dolma.Identifiers), parallel.Identifiers))
	}
}

// sampleCheck byte-compares a spot sample of records against each artifact.
// First, middle and last cover the boundary cases cheaply.
func (v *Verifier) sampleCheck(
	report *driving.VerifyReport,
	byName map[string]*driven.ArtifactReport,
	set *domain.RecordSet,
) {
	records := set.Records()
	if dolma := byName["dolma"]; dolma != nil {
		count := driving.CheckResult{Name: "dolma record count matches memory"}
		if dolma.Records == len(records) {
			count.Ok = true
			count.Detail = fmt.Sprintf("%d records", len(records))
		} else {
			count.Detail = fmt.Sprintf("disk has %d, memory has %d", dolma.Records, len(records))
		}
		report.Samples = append(report.Samples, count)
	}

	for _, idx := range sampleIndices(len(records)) {
		rec := records[idx]
		for _, name := range []string{"dolma", "compact"} {
			ar := byName[name]
			if ar == nil {
				continue
			}
			report.Samples = append(report.Samples,
				textMatches(fmt.Sprintf("sample %s in %s", rec.Identifier, name),
					ar.Texts[rec.Identifier], rec.Text))
			report.Samples = append(report.Samples,
				titleMatches(fmt.Sprintf("sample %s title in %s", rec.Identifier, name),
					ar.Titles[rec.Identifier], rec.Title))
		}
		if parallel := byName["parallel"]; parallel != nil {
			cell := parallel.Texts[rec.ArticleKey+":"+rec.Language]
			report.Samples = append(report.Samples,
				textMatches(fmt.Sprintf("sample %s in parallel", rec.Identifier),
					cell, rec.Text))
		}
	}
}

// articleCodes maps record identifiers to article codes, deduplicated
// in first-appearance order. This mirrors how the parallel emitter
// derives its rows, so the comparison is order-sensitive.
func (v *Verifier) articleCodes(identifiers []string) []string {
	var codes []string
	seen := make(map[string]bool)
	for _, id := range identifiers {
		name := id
		if i := strings.IndexByte(id, '/'); i >= 0 {
			name = id[i+1:]
		}
		stem := strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))
		code := v.sections.CanonicalStem(stem)
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

// sampleIndices picks first, middle and last without repeats.
func sampleIndices(n int) []int {
	switch {
	case n == 0:
		return nil
	case n == 1:
		return []int{0}
	case n == 2:
		return []int{0, 1}
	default:
		return []int{0, n / 2, n - 1}
	}
}

func identifiersMatch(name string, want, got []string) driving.CheckResult {
	check := driving.CheckResult{Name: name}
	if len(want) != len(got) {
		check.Detail = fmt.Sprintf("%d vs %d entries", len(want), len(got))
		return check
	}
	for i := range want {
		if want[i] != got[i] {
			check.Detail = fmt.Sprintf("entry %d: %q vs %q", i, want[i], got[i])
			return check
		}
	}
	check.Ok = true
	check.Detail = fmt.Sprintf("%d entries", len(want))
	return check
}

// textMatches tolerates an empty cell when the record itself is empty,
// which is legal under the flag policy.
func textMatches(name, got, want string) driving.CheckResult {
	check := driving.CheckResult{Name: name}
	switch {
	case got == "" && want != "":
		check.Detail = "text missing from artifact"
	case got != want:
		check.Detail = fmt.Sprintf("artifact text differs (%d vs %d bytes)", len(got), len(want))
	default:
		check.Ok = true
		check.Detail = fmt.Sprintf("%d bytes equal", len(want))
	}
	return check
}

// titleMatches is textMatches for titles, with the mismatch detail
// quoting both values since titles are short.
func titleMatches(name, got, want string) driving.CheckResult {
	check := driving.CheckResult{Name: name}
	if got != want {
		check.Detail = fmt.Sprintf("artifact title %q, memory has %q", got, want)
		return check
	}
	check.Ok = true
	check.Detail = fmt.Sprintf("%d bytes equal", len(want))
	return check
}
