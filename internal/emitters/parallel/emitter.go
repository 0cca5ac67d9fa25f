// Package parallel writes the translation-study artifact: a wide CSV
// with one row per aligned article and one text column per language.
// Only fully aligned groups reach this emitter, so every text cell is
// expected to be filled.
package parallel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure Emitter implements the interface.
var _ driven.Emitter = (*Emitter)(nil)

// Emitter writes and reads the wide CSV artifact.
type Emitter struct {
	cfg  *domain.Config
	path string
}

// New creates the parallel emitter for the configured dataset.
func New(cfg *domain.Config) *Emitter {
	return &Emitter{
		cfg:  cfg,
		path: filepath.Join(cfg.Output.Dir, cfg.Dataset.Name+".csv"),
	}
}

// Name identifies the artifact format.
func (e *Emitter) Name() string {
	return "parallel"
}

// Path returns the artifact's output path.
func (e *Emitter) Path() string {
	return e.path
}

// header returns the expected column list: shared metadata columns
// followed by one text column per configured language, in order.
func (e *Emitter) header() []string {
	columns := []string{"article_code", "section", "domain", "source_url"}
	for _, lang := range e.cfg.Corpus.Languages {
		columns = append(columns, "text_"+lang)
	}
	return columns
}

// Emit writes one row per article group, in set order.
func (e *Emitter) Emit(ctx context.Context, set *domain.RecordSet) error {
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", e.path, err)
	}

	w := csv.NewWriter(out)
	if err := w.Write(e.header()); err != nil {
		out.Close()
		return fmt.Errorf("write header: %w", err)
	}

	keys, groups := set.ByArticleKey()
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			out.Close()
			return err
		}
		if err := w.Write(e.row(key, groups[key])); err != nil {
			out.Close()
			return fmt.Errorf("write row %s: %w", key, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		out.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", e.path, err)
	}
	return nil
}

// row assembles one article's columns. The alignment validator
// guarantees one record per language; a missing variant leaves an
// empty cell for the verifier to flag.
func (e *Emitter) row(key string, group []*domain.Record) []string {
	byLang := make(map[string]*domain.Record, len(group))
	for _, rec := range group {
		byLang[rec.Language] = rec
	}

	var section, domainLabel, sourceURL string
	if rec, ok := byLang[e.cfg.Corpus.SourceLanguage]; ok {
		section = rec.Section
		domainLabel = rec.Domain
		sourceURL = rec.URL
	} else if len(group) > 0 {
		section = group[0].Section
		domainLabel = group[0].Domain
		sourceURL = group[0].TranslationOf
	}

	columns := []string{key, section, domainLabel, sourceURL}
	for _, lang := range e.cfg.Corpus.Languages {
		var text string
		if rec, ok := byLang[lang]; ok {
			text = rec.Text
		}
		columns = append(columns, text)
	}
	return columns
}

// Verify reads the CSV back and reports its content. Article codes are
// the row identifiers; text cells are keyed "<code>:<lang>".
func (e *Emitter) Verify(ctx context.Context) (*driven.ArtifactReport, error) {
	report := &driven.ArtifactReport{
		Name:  e.Name(),
		Path:  e.path,
		Texts: make(map[string]string),
	}

	in, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer in.Close()

	// The reader locks the field count to the header row; short or long
	// data rows surface as ErrFieldCount below.
	r := csv.NewReader(in)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !equalColumns(header, e.header()) {
		report.Problems = append(report.Problems,
			fmt.Sprintf("header mismatch: got %v", header))
		return report, nil
	}

	seen := make(map[string]bool)
	rowNo := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNo++
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				report.Problems = append(report.Problems,
					fmt.Sprintf("row %d: wrong column count", rowNo))
				continue
			}
			return nil, fmt.Errorf("read row %d: %w", rowNo, err)
		}

		code := row[0]
		if code == "" {
			report.Problems = append(report.Problems,
				fmt.Sprintf("row %d: empty article code", rowNo))
		} else if seen[code] {
			report.Problems = append(report.Problems,
				fmt.Sprintf("row %d: duplicate article code %s", rowNo, code))
		}
		seen[code] = true

		for i, lang := range e.cfg.Corpus.Languages {
			cell := row[4+i]
			// Under the flag policy empty bodies are legitimate rows.
			if cell == "" && e.cfg.Policies.EmptyContent == domain.EmptyContentReject {
				report.Problems = append(report.Problems,
					fmt.Sprintf("row %d: empty text_%s cell for %s", rowNo, lang, code))
			}
			report.Texts[code+":"+lang] = cell
		}

		report.Records++
		report.Identifiers = append(report.Identifiers, code)
	}
	return report, nil
}

func equalColumns(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
