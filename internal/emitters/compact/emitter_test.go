package compact

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

func testConfig(t *testing.T) *domain.Config {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.Corpus.Languages = []string{"he", "en"}
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func testRecord(lang, name, key, text string) *domain.Record {
	rec := &domain.Record{
		Identifier:  lang + "/" + name,
		ArticleKey:  key,
		Section:     "main",
		Domain:      "general",
		Language:    lang,
		Kind:        domain.KindHTML,
		Title:       "Title of " + key,
		Text:        text,
		Fingerprint: domain.Fingerprint(text),
		URL:         "https://hitdarderut-haaretz.org/" + name,
		Added:       time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if lang != "he" {
		rec.URL = "https://degeneration-of-nation.org/" + lang + "/" + name
		rec.TranslationOf = "https://hitdarderut-haaretz.org/" + name
	}
	return rec
}

func testSet(t *testing.T, records ...*domain.Record) *domain.RecordSet {
	t.Helper()
	set := domain.NewRecordSet()
	for _, rec := range records {
		require.NoError(t, set.Add(rec))
	}
	return set
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)

	emitter := New(cfg)

	require.NotNil(t, emitter)
	assert.Equal(t, "compact", emitter.Name())
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "ai-culture.json"), emitter.Path())
}

func TestEmitter_RoundTrip(t *testing.T) {
	emitter := New(testConfig(t))
	set := testSet(t,
		testRecord("he", "alpha.html", "alpha", "alpha body"),
		testRecord("en", "alpha.html", "alpha", "alpha body in english"),
	)

	require.NoError(t, emitter.Emit(context.Background(), set))

	report, err := emitter.Verify(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Ok(), "problems: %v", report.Problems)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, []string{"he/alpha.html", "en/alpha.html"}, report.Identifiers)
	assert.Equal(t, "alpha body", report.Texts["he/alpha.html"])
	assert.Equal(t, "alpha body in english", report.Texts["en/alpha.html"])
}

func TestEmitter_Emit_ArrayShape(t *testing.T) {
	emitter := New(testConfig(t))
	set := testSet(t,
		testRecord("he", "alpha.html", "alpha", "alpha body"),
		testRecord("en", "alpha.html", "alpha", "alpha body in english"),
	)
	require.NoError(t, emitter.Emit(context.Background(), set))

	raw, err := os.ReadFile(emitter.Path())
	require.NoError(t, err)

	// Indented array, readable in a text editor.
	assert.True(t, strings.HasPrefix(string(raw), "[\n  {"))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)

	source := entries[0]
	assert.Equal(t, "he/alpha.html", source["id"])
	assert.Equal(t, "he", source["language"])
	assert.Equal(t, "alpha body", source["content"])
	assert.Equal(t, "https://hitdarderut-haaretz.org/alpha.html", source["url"])
	assert.Equal(t, source["url"], source["original_url"],
		"source records point at themselves")
	_, present := source["html"]
	assert.False(t, present, "raw html only when configured")

	translation := entries[1]
	assert.Equal(t, "https://degeneration-of-nation.org/en/alpha.html", translation["url"])
	assert.Equal(t, "https://hitdarderut-haaretz.org/alpha.html", translation["original_url"])
}

func TestEmitter_Emit_RetainsRawHTML(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.IncludeRawHTML = true
	emitter := New(cfg)

	rec := testRecord("he", "alpha.html", "alpha", "alpha body")
	rec.RawHTML = "<html><body><p>alpha body</p></body></html>"
	require.NoError(t, emitter.Emit(context.Background(), testSet(t, rec)))

	raw, err := os.ReadFile(emitter.Path())
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, rec.RawHTML, entries[0]["html"])
}

func TestEmitter_Verify_Problems(t *testing.T) {
	emitter := New(testConfig(t))
	artifact := `[
  {"id":"he/a.html","language":"he","title":"t","content":"body","url":"https://x/a.html","original_url":"https://x/a.html"},
  {"id":"he/a.html","language":"he","title":"t","content":"body","url":"https://x/a.html","original_url":"https://x/a.html"},
  {"id":"","language":"","title":"t","content":"body","url":"","original_url":""}
]`
	require.NoError(t, os.WriteFile(emitter.Path(), []byte(artifact), 0o644))

	report, err := emitter.Verify(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Ok())
	assert.Equal(t, 3, report.Records)

	joined := strings.Join(report.Problems, "\n")
	assert.Contains(t, joined, "duplicate id he/a.html")
	assert.Contains(t, joined, "missing id")
	assert.Contains(t, joined, "missing language")
	assert.Contains(t, joined, "missing url")
}

func TestEmitter_Verify_ParseError(t *testing.T) {
	emitter := New(testConfig(t))
	require.NoError(t, os.WriteFile(emitter.Path(), []byte("{not an array"), 0o644))

	report, err := emitter.Verify(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse array")
	assert.Nil(t, report)
}

func TestEmitter_Verify_MissingFile(t *testing.T) {
	emitter := New(testConfig(t))

	report, err := emitter.Verify(context.Background())

	require.Error(t, err)
	assert.Nil(t, report)
}
