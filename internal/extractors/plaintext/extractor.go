package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles pre-converted text files, typically produced by an
// upstream PDF-to-text step.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Kinds returns the source kinds this extractor handles.
func (e *Extractor) Kinds() []domain.SourceKind {
	return []domain.SourceKind{domain.KindText}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// maxTitleLineRunes bounds how long a first line may be and still pass
// as a title.
const maxTitleLineRunes = 80

// Extract takes the file verbatim as body text. PDF conversion
// sometimes leaves right-to-left lines in visual order; those are
// reordered back to logical order before the body is returned.
func (e *Extractor) Extract(_ context.Context, file *domain.SourceFile, content []byte) (*driven.ExtractResult, error) {
	if file == nil {
		return nil, domain.ErrInvalidInput
	}

	text := string(content)
	if hasHebrew(text) && looksReversed(text) {
		text = repairLines(text)
	}

	return &driven.ExtractResult{
		Title: titleOf(text, file.Name),
		Text:  text,
	}, nil
}

// titleOf takes a short first line as the title, otherwise derives one
// from the file name.
func titleOf(text, name string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= maxTitleLineRunes {
			return line
		}
		break
	}

	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return base
}

// hasHebrew reports whether the leading part of the text contains a
// Hebrew code point. 200 runes is plenty to decide.
func hasHebrew(s string) bool {
	seen := 0
	for _, r := range s {
		if r >= 0x0590 && r <= 0x05FF {
			return true
		}
		seen++
		if seen >= 200 {
			break
		}
	}
	return false
}

// looksReversed guesses whether the text came out of conversion in
// visual order. Logical-order Hebrew text rarely opens with Latin words
// interleaved; visual-order output does, because the converter emitted
// glyph positions left to right.
func looksReversed(s string) bool {
	tokens := strings.Fields(s)
	if len(tokens) > 20 {
		tokens = tokens[:20]
	}

	hebrew := 0
	latin := 0
	for _, token := range tokens {
		switch {
		case hasHebrew(token):
			hebrew++
		case isASCIIAlpha(token):
			latin++
		}
	}
	return hebrew > 0 && latin > 0
}

func isASCIIAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// repairLines reorders every Hebrew-bearing line to logical order.
// Lines without Hebrew pass through untouched.
func repairLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if hasHebrew(line) {
			lines[i] = reorderVisual(line)
		}
	}
	return strings.Join(lines, "\n")
}

// reorderVisual maps one visually-ordered line back to logical order by
// reversing the runes of each right-to-left run.
func reorderVisual(line string) string {
	var p bidi.Paragraph
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return line
	}
	ordering, err := p.Order()
	if err != nil {
		return line
	}

	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		text := run.String()
		if run.Direction() == bidi.RightToLeft {
			text = reverseRunes(text)
		}
		b.WriteString(text)
	}
	return b.String()
}

func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
