package html

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles HTML corpus files.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Kinds returns the source kinds this extractor handles.
func (e *Extractor) Kinds() []domain.SourceKind {
	return []domain.SourceKind{domain.KindHTML}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor
}

// Extract parses the markup and converts the visible body to plain text.
// Paragraph boundaries become blank lines; normalization downstream
// turns them into single newlines.
func (e *Extractor) Extract(_ context.Context, file *domain.SourceFile, content []byte) (*driven.ExtractResult, error) {
	if file == nil {
		return nil, domain.ErrInvalidInput
	}

	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := findTitle(doc)
	if title == "" {
		title = titleFromFilename(file.Name)
	}

	var b textBuilder
	renderText(doc, &b)

	return &driven.ExtractResult{
		Title:   title,
		Text:    b.String(),
		RawHTML: string(content),
	}, nil
}

// skippedElements are subtrees that never contribute body text.
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Head:     true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Iframe:   true,
	atom.Svg:      true,
	atom.Template: true,
}

// blockElements delimit paragraphs on both open and close.
var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Dd:         true,
	atom.Tr:         true,
	atom.Table:      true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Main:       true,
	atom.Figure:     true,
	atom.Figcaption: true,
	atom.Br:         true,
	atom.Hr:         true,
}

var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
}

func hasHiddenStyle(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		for _, pat := range hiddenStylePatterns {
			if pat.MatchString(a.Val) {
				return true
			}
		}
	}
	return false
}

// findTitle extracts the <title> text, falling back to the first
// heading when the document has no title element.
func findTitle(doc *html.Node) string {
	if title := findElementText(doc, atom.Title); title != "" {
		return title
	}
	return findElementText(doc, atom.H1)
}

func findElementText(n *html.Node, a atom.Atom) string {
	if n.Type == html.ElementNode && n.DataAtom == a {
		var b textBuilder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderText(c, &b)
		}
		return strings.ReplaceAll(b.String(), "\n", " ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := findElementText(c, a); text != "" {
			return text
		}
	}
	return ""
}

// titleFromFilename turns a slug file name into a readable title.
func titleFromFilename(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return base
}

// renderText walks the DOM and feeds visible text into the builder.
func renderText(n *html.Node, b *textBuilder) {
	switch n.Type {
	case html.TextNode:
		b.WriteFragment(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] || hasHiddenStyle(n) {
			return
		}
		if blockElements[n.DataAtom] {
			b.FlushBlock()
			defer b.FlushBlock()
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(c, b)
	}
}

// textBuilder assembles block-structured text from DOM fragments.
//
// Inside a block, whitespace runs collapse to one space. A run that is
// pure line breaks between two CJK runes disappears entirely: HTML
// authors wrap CJK prose mid-run, and a CJK-aware reader treats the
// characters as contiguous. Blocks join with blank lines.
type textBuilder struct {
	blocks   []string
	cur      strings.Builder
	lastRune rune
	sawSpace bool
	sawBreak bool
}

// WriteFragment appends one text node's content.
func (b *textBuilder) WriteFragment(s string) {
	for _, r := range s {
		if unicode.IsSpace(r) {
			if r == '\n' || r == '\r' {
				b.sawBreak = true
			} else {
				b.sawSpace = true
			}
			continue
		}
		b.flushSeparator(r)
		b.cur.WriteRune(r)
		b.lastRune = r
	}
}

// flushSeparator decides what the pending whitespace becomes.
func (b *textBuilder) flushSeparator(next rune) {
	defer func() {
		b.sawSpace = false
		b.sawBreak = false
	}()

	if !b.sawSpace && !b.sawBreak {
		return
	}
	if b.cur.Len() == 0 {
		return
	}
	if !b.sawSpace && isCJK(b.lastRune) && isCJK(next) {
		return
	}
	b.cur.WriteByte(' ')
}

// FlushBlock closes the current block, if any text accumulated.
func (b *textBuilder) FlushBlock() {
	if b.cur.Len() > 0 {
		b.blocks = append(b.blocks, b.cur.String())
		b.cur.Reset()
	}
	b.lastRune = 0
	b.sawSpace = false
	b.sawBreak = false
}

// String closes the last block and joins all blocks with blank lines.
func (b *textBuilder) String() string {
	b.FlushBlock()
	return strings.Join(b.blocks, "\n\n")
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
