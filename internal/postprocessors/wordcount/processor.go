// Package wordcount provides the language-aware word counting processor.
package wordcount

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.RecordProcessor = (*Processor)(nil)

// Processor counts words and characters of the normalized body text.
type Processor struct {
	detection domain.CJKDetection
}

// Option configures the word count processor.
type Option func(*Processor)

// WithDetection sets how CJK counting is triggered.
func WithDetection(mode domain.CJKDetection) Option {
	return func(p *Processor) {
		if mode.IsValid() {
			p.detection = mode
		}
	}
}

// New creates a new word count processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		detection: domain.CJKDetectLanguage,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "wordcount"
}

// Process fills in the record's word and character counts.
// Runs after normalization; the counts describe what gets emitted.
func (p *Processor) Process(_ context.Context, rec *domain.Record) error {
	rec.WordCount = p.Count(rec.Text, rec.Language)
	rec.CharCount = utf8.RuneCountInString(rec.Text)
	return nil
}

// Count returns the word count for text in the given language.
// Space-delimited languages count whitespace tokens. CJK text has no
// word-delimiting spaces, so every qualifying rune counts as a word.
func (p *Processor) Count(text, language string) int {
	if text == "" {
		return 0
	}
	if p.isCJK(text, language) {
		return countQualifyingRunes(text)
	}
	return len(strings.Fields(text))
}

// isCJK decides whether the CJK counting rule applies.
func (p *Processor) isCJK(text, language string) bool {
	if p.detection == domain.CJKDetectScript {
		return mostlyCJKScript(text)
	}
	return domain.IsCJKLanguage(language)
}

// countQualifyingRunes counts runes that are neither whitespace nor
// punctuation.
func countQualifyingRunes(text string) int {
	count := 0
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		count++
	}
	return count
}

// mostlyCJKScript reports whether the majority of letters in the text
// belong to the Han, Hiragana, Katakana or Hangul scripts.
func mostlyCJKScript(text string) bool {
	letters := 0
	cjk := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Han, r) ||
			unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) ||
			unicode.Is(unicode.Hangul, r) {
			cjk++
		}
	}
	return letters > 0 && cjk*2 > letters
}
