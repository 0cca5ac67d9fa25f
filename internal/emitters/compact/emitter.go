// Package compact writes the browsable artifact: a single indented
// JSON array holding every record, the format published alongside the
// training data for human inspection.
package compact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure Emitter implements the interface.
var _ driven.Emitter = (*Emitter)(nil)

// Emitter writes and reads the JSON array artifact.
type Emitter struct {
	cfg  *domain.Config
	path string
}

// New creates the compact emitter for the configured dataset.
func New(cfg *domain.Config) *Emitter {
	return &Emitter{
		cfg:  cfg,
		path: filepath.Join(cfg.Output.Dir, cfg.Dataset.Name+".json"),
	}
}

// Name identifies the artifact format.
func (e *Emitter) Name() string {
	return "compact"
}

// Path returns the artifact's output path.
func (e *Emitter) Path() string {
	return e.path
}

// Emit writes the whole set as one indented array, in set order.
func (e *Emitter) Emit(ctx context.Context, set *domain.RecordSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	articles := make([]article, 0, set.Len())
	for _, rec := range set.Records() {
		articles = append(articles, e.articleFor(rec))
	}

	out, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", e.path, err)
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		out.Close()
		return fmt.Errorf("encode array: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", e.path, err)
	}
	return nil
}

// Verify reads the array back and reports its content.
func (e *Emitter) Verify(ctx context.Context) (*driven.ArtifactReport, error) {
	report := &driven.ArtifactReport{
		Name:   e.Name(),
		Path:   e.path,
		Texts:  make(map[string]string),
		Titles: make(map[string]string),
	}

	raw, err := os.ReadFile(e.path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var articles []article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("parse array: %w", err)
	}

	seen := make(map[string]bool)
	for i, a := range articles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if a.ID == "" {
			report.Problems = append(report.Problems,
				fmt.Sprintf("entry %d: missing id", i))
		} else if seen[a.ID] {
			report.Problems = append(report.Problems,
				fmt.Sprintf("entry %d: duplicate id %s", i, a.ID))
		}
		seen[a.ID] = true
		if a.Language == "" {
			report.Problems = append(report.Problems,
				fmt.Sprintf("entry %d: missing language", i))
		}
		if a.URL == "" {
			report.Problems = append(report.Problems,
				fmt.Sprintf("entry %d: missing url", i))
		}

		report.Records++
		report.Identifiers = append(report.Identifiers, a.ID)
		report.Texts[a.ID] = a.Content
		report.Titles[a.ID] = a.Title
	}
	return report, nil
}

// article is the on-disk entry shape. original_url names the
// source-language address of the article; for source-language records
// it equals url.
type article struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	HTML        string `json:"html,omitempty"`
	URL         string `json:"url"`
	OriginalURL string `json:"original_url"`
}

func (e *Emitter) articleFor(rec *domain.Record) article {
	original := rec.URL
	if rec.IsTranslation() {
		original = rec.TranslationOf
	}
	return article{
		ID:          rec.Identifier,
		Language:    rec.Language,
		Title:       rec.Title,
		Content:     rec.Text,
		HTML:        rec.RawHTML,
		URL:         rec.URL,
		OriginalURL: original,
	}
}
