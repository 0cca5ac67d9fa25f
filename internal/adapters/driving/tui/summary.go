package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driving"
)

// RenderSummary formats a finished build for the terminal. Styling
// degrades to plain text automatically when output is not a terminal,
// so the result is safe to print unconditionally.
func RenderSummary(s *Styles, summary *domain.BuildSummary) string {
	if s == nil {
		s = DefaultStyles()
	}
	if summary == nil {
		return ""
	}

	var b strings.Builder

	verdict := s.Success.Render("Build complete")
	if !summary.IntegrityPassed {
		verdict = s.Error.Render("Build failed")
	}
	elapsed := summary.Duration().Round(time.Millisecond)
	fmt.Fprintf(&b, "%s %s\n", verdict, s.Muted.Render("in "+elapsed.String()))

	row := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", s.Muted.Render(fmt.Sprintf("%-10s", label)), value)
	}

	row("corpus", summary.Root)
	row("files", fmt.Sprintf("%d seen, %d matched, %d unsupported",
		summary.FilesSeen, summary.FilesMatched, summary.Unsupported))
	if summary.Rejected() > 0 {
		row("rejected", fmt.Sprintf("%d skipped, %d empty, %d duplicates, %d errors",
			summary.Skipped, summary.Empty, summary.Duplicates, summary.Errors))
	}
	row("groups", fmt.Sprintf("%d aligned of %d, %d dropped",
		summary.GroupsAligned, summary.GroupsTotal, summary.GroupsDropped))
	row("records", fmt.Sprintf("%d (%d words)", summary.Records, summary.Words))
	if line := countLine(summary.RecordsByLanguage); line != "" {
		row("languages", line)
	}
	if line := countLine(summary.RecordsByDomain); line != "" {
		row("domains", line)
	}
	if line := kindLine(summary.RecordsByKind); line != "" {
		row("kinds", line)
	}
	for i, artifact := range summary.Artifacts {
		label := "artifacts"
		if i > 0 {
			label = ""
		}
		row(label, artifact)
	}
	if summary.IntegrityPassed {
		row("integrity", s.Success.Render("verified"))
	} else {
		row("integrity", s.Error.Render("failed"))
	}

	return b.String()
}

// RenderReport formats an integrity report for the terminal.
func RenderReport(s *Styles, report *driving.VerifyReport) string {
	if s == nil {
		s = DefaultStyles()
	}
	if report == nil {
		return ""
	}

	var b strings.Builder

	for _, a := range report.Artifacts {
		if len(a.Problems) == 0 {
			fmt.Fprintf(&b, "%s %-8s %s %s\n",
				s.Success.Render("ok  "), a.Name, a.Path,
				s.Muted.Render(fmt.Sprintf("(%d records)", a.Records)))
			continue
		}
		fmt.Fprintf(&b, "%s %-8s %s\n", s.Error.Render("fail"), a.Name, a.Path)
		for _, problem := range a.Problems {
			fmt.Fprintf(&b, "       %s\n", s.Error.Render(problem))
		}
	}

	renderChecks(&b, s, report.CrossChecks)
	renderChecks(&b, s, report.Samples)

	if report.Passed() {
		fmt.Fprintf(&b, "%s\n", s.Success.Render("Integrity verified"))
	} else {
		n := len(report.Failures())
		fmt.Fprintf(&b, "%s\n", s.Error.Render(fmt.Sprintf("Integrity failed: %d problems", n)))
	}

	return b.String()
}

// renderChecks writes one line per check result.
func renderChecks(b *strings.Builder, s *Styles, checks []driving.CheckResult) {
	for _, c := range checks {
		marker := s.Success.Render("ok  ")
		detail := s.Muted.Render(c.Detail)
		if !c.Ok {
			marker = s.Error.Render("fail")
			detail = s.Error.Render(c.Detail)
		}
		fmt.Fprintf(b, "%s %s", marker, c.Name)
		if c.Detail != "" {
			fmt.Fprintf(b, ": %s", detail)
		}
		b.WriteString("\n")
	}
}

// countLine formats a name-to-count map as a stable comma list.
func countLine(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %d", name, counts[name]))
	}
	return strings.Join(parts, ", ")
}

// kindLine formats the per-kind record counts.
func kindLine(counts map[domain.SourceKind]int) string {
	plain := make(map[string]int, len(counts))
	for kind, n := range counts {
		plain[string(kind)] = n
	}
	return countLine(plain)
}
