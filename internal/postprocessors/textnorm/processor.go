// Package textnorm provides the text normalization processor.
package textnorm

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.RecordProcessor = (*Processor)(nil)

// Processor normalizes record title and body text.
type Processor struct{}

// New creates a new text normalization processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "textnorm"
}

// Process normalizes the record in place. The raw fields are left
// untouched; downstream stages (fingerprinting, word counting) read
// the normalized ones.
func (p *Processor) Process(_ context.Context, rec *domain.Record) error {
	rec.Text = Normalize(rec.Text)
	// Titles are single-line; any surviving break becomes a space.
	rec.Title = strings.ReplaceAll(Normalize(rec.Title), "\n", " ")
	return nil
}

// Normalize cleans raw extracted text in four fixed stages:
// control stripping, NFKC, bidi boundary spacing, whitespace collapse.
// It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = stripControls(s)
	s = norm.NFKC.String(s)
	s = spaceBidiBoundaries(s)
	return collapseWhitespace(s)
}

// stripControls removes control and invisible format characters.
// Tab, LF and CR survive for the whitespace collapse stage; everything
// else non-printable goes, including zero-width and directional marks.
func stripControls(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteRune(r)
		case unicode.IsControl(r) || unicode.Is(unicode.Cf, r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Strong directionality of a rune, for boundary detection.
const (
	strongNone = iota
	strongLTR
	strongRTL
)

func strongClass(r rune) int {
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.L:
		return strongLTR
	case bidi.R, bidi.AL:
		return strongRTL
	default:
		return strongNone
	}
}

// spaceBidiBoundaries inserts a space wherever a strong left-to-right
// rune directly touches a strong right-to-left rune. Mixed Hebrew and
// Latin text keeps its visual word boundaries that way. Neutral runes
// (digits, punctuation, whitespace) break the adjacency.
func spaceBidiBoundaries(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	prev := strongNone
	for _, r := range s {
		cur := strongClass(r)
		if prev != strongNone && cur != strongNone && cur != prev {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = cur
	}
	return b.String()
}

// collapseWhitespace reduces each whitespace run to a single space, or
// to a single newline when the run contains a line break. Leading and
// trailing whitespace is dropped entirely.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	sawBreak := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inRun = true
			if r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029' {
				sawBreak = true
			}
			continue
		}
		if inRun {
			if b.Len() > 0 {
				if sawBreak {
					b.WriteByte('\n')
				} else {
					b.WriteByte(' ')
				}
			}
			inRun = false
			sawBreak = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
