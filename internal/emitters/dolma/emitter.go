// Package dolma writes the training-data artifact: gzip-compressed
// JSONL with one document object per line, following the Dolma
// metadata convention.
package dolma

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure Emitter implements the interface.
var _ driven.Emitter = (*Emitter)(nil)

// maxLineBytes bounds a single JSONL line when reading back. Lines can
// carry full raw HTML when the dataset is configured to retain it.
const maxLineBytes = 64 * 1024 * 1024

// Emitter writes and reads the gzip JSONL artifact.
type Emitter struct {
	cfg  *domain.Config
	path string
}

// New creates the dolma emitter for the configured dataset.
func New(cfg *domain.Config) *Emitter {
	return &Emitter{
		cfg:  cfg,
		path: filepath.Join(cfg.Output.Dir, cfg.Dataset.Name+".jsonl.gz"),
	}
}

// Name identifies the artifact format.
func (e *Emitter) Name() string {
	return "dolma"
}

// Path returns the artifact's output path.
func (e *Emitter) Path() string {
	return e.path
}

// Emit writes one compact JSON object per record, in set order.
func (e *Emitter) Emit(ctx context.Context, set *domain.RecordSet) error {
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", e.path, err)
	}

	gz := gzip.NewWriter(out)
	enc := json.NewEncoder(gz)
	enc.SetEscapeHTML(false)

	for _, rec := range set.Records() {
		if err := ctx.Err(); err != nil {
			gz.Close()
			out.Close()
			return err
		}
		if err := enc.Encode(e.recordLine(rec)); err != nil {
			gz.Close()
			out.Close()
			return fmt.Errorf("encode %s: %w", rec.Identifier, err)
		}
	}

	if err := gz.Close(); err != nil {
		out.Close()
		return fmt.Errorf("close gzip stream: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", e.path, err)
	}
	return nil
}

// Verify reads the artifact back line by line and reports its content.
// Structural faults become report problems; only an unreadable file is
// an error.
func (e *Emitter) Verify(ctx context.Context) (*driven.ArtifactReport, error) {
	report := &driven.ArtifactReport{
		Name:   e.Name(),
		Path:   e.path,
		Texts:  make(map[string]string),
		Titles: make(map[string]string),
	}

	in, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("gunzip: %w", err)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineBytes)

	seen := make(map[string]bool)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++

		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			report.Problems = append(report.Problems,
				fmt.Sprintf("line %d: empty line", lineNo))
			continue
		}

		var doc line
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			report.Problems = append(report.Problems,
				fmt.Sprintf("line %d: invalid JSON: %v", lineNo, err))
			continue
		}

		for _, p := range doc.problems() {
			report.Problems = append(report.Problems,
				fmt.Sprintf("line %d: %s", lineNo, p))
		}
		if doc.ID != "" {
			if seen[doc.ID] {
				report.Problems = append(report.Problems,
					fmt.Sprintf("line %d: duplicate id %s", lineNo, doc.ID))
			}
			seen[doc.ID] = true
		}

		report.Records++
		report.Identifiers = append(report.Identifiers, doc.ID)
		report.Texts[doc.ID] = doc.Text
		report.Titles[doc.ID] = doc.Metadata.Title
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return report, nil
}

// line is the on-disk document shape.
type line struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Source   string   `json:"source"`
	Metadata metadata `json:"metadata"`
	Added    string   `json:"added"`
}

type metadata struct {
	Language      string  `json:"language"`
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	TranslationOf *string `json:"translation_of"`
	SourceFormat  string  `json:"source_format"`
	Domain        string  `json:"domain"`
	License       string  `json:"license"`
	WordCount     int     `json:"word_count"`
	CharCount     int     `json:"char_count"`
	SHA256        string  `json:"sha256"`
	HTMLRaw       string  `json:"html_raw,omitempty"`
}

// recordLine converts a record to its on-disk shape. translation_of is
// null for source-language records, matching the published dataset
// schema.
func (e *Emitter) recordLine(rec *domain.Record) line {
	meta := metadata{
		Language:     rec.Language,
		Title:        rec.Title,
		URL:          rec.URL,
		SourceFormat: string(rec.Kind),
		Domain:       rec.Domain,
		License:      e.cfg.Dataset.License,
		WordCount:    rec.WordCount,
		CharCount:    rec.CharCount,
		SHA256:       rec.Fingerprint,
		HTMLRaw:      rec.RawHTML,
	}
	if rec.IsTranslation() {
		meta.TranslationOf = &rec.TranslationOf
	}
	return line{
		ID:       rec.Identifier,
		Text:     rec.Text,
		Source:   e.cfg.Dataset.SourceFor(rec.Language, e.cfg.Corpus.SourceLanguage),
		Metadata: meta,
		Added:    rec.Added.UTC().Format(time.RFC3339),
	}
}

// problems lists the structural faults of a parsed line.
func (l *line) problems() []string {
	var out []string
	if l.ID == "" {
		out = append(out, "missing id")
	}
	if l.Source == "" {
		out = append(out, "missing source")
	}
	if l.Metadata.Language == "" {
		out = append(out, "missing metadata.language")
	}
	if l.Metadata.SHA256 == "" {
		out = append(out, "missing metadata.sha256")
	} else if got := domain.Fingerprint(l.Text); got != l.Metadata.SHA256 {
		out = append(out, fmt.Sprintf("sha256 mismatch for %s", l.ID))
	}
	if l.Added == "" {
		out = append(out, "missing added")
	} else if _, err := time.Parse(time.RFC3339, l.Added); err != nil {
		out = append(out, fmt.Sprintf("bad added timestamp %q", l.Added))
	}
	return out
}
