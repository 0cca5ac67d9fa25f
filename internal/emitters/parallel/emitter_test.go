package parallel

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

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

func testRecord(lang, key, text string) *domain.Record {
	name := key + ".html"
	rec := &domain.Record{
		Identifier: lang + "/" + name,
		ArticleKey: key,
		Section:    "main",
		Domain:     "general",
		Language:   lang,
		Kind:       domain.KindHTML,
		Title:      "Title of " + key,
		Text:       text,
		URL:        "https://hitdarderut-haaretz.org/" + name,
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
	assert.Equal(t, "parallel", emitter.Name())
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "ai-culture.csv"), emitter.Path())
}

func TestEmitter_RoundTrip(t *testing.T) {
	emitter := New(testConfig(t))
	set := testSet(t,
		testRecord("he", "alpha", "alpha he body"),
		testRecord("en", "alpha", "alpha en body"),
		testRecord("he", "beta", "beta he body"),
		testRecord("en", "beta", "beta en body"),
	)

	require.NoError(t, emitter.Emit(context.Background(), set))

	report, err := emitter.Verify(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Ok(), "problems: %v", report.Problems)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, []string{"alpha", "beta"}, report.Identifiers)
	assert.Equal(t, "alpha he body", report.Texts["alpha:he"])
	assert.Equal(t, "alpha en body", report.Texts["alpha:en"])
	assert.Equal(t, "beta en body", report.Texts["beta:en"])
}

func TestEmitter_Emit_RowShape(t *testing.T) {
	emitter := New(testConfig(t))
	set := testSet(t,
		testRecord("he", "alpha", "alpha he body"),
		testRecord("en", "alpha", "alpha en body"),
	)
	require.NoError(t, emitter.Emit(context.Background(), set))

	in, err := os.Open(emitter.Path())
	require.NoError(t, err)
	defer in.Close()

	rows, err := csv.NewReader(in).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t,
		[]string{"article_code", "section", "domain", "source_url", "text_he", "text_en"},
		rows[0])
	assert.Equal(t,
		[]string{
			"alpha", "main", "general",
			"https://hitdarderut-haaretz.org/alpha.html",
			"alpha he body", "alpha en body",
		},
		rows[1])
}

func TestEmitter_Emit_MultilineText(t *testing.T) {
	emitter := New(testConfig(t))
	set := testSet(t,
		testRecord("he", "alpha", "first paragraph\nsecond paragraph"),
		testRecord("en", "alpha", "english text"),
	)

	require.NoError(t, emitter.Emit(context.Background(), set))

	report, err := emitter.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first paragraph\nsecond paragraph", report.Texts["alpha:he"])
}

func TestEmitter_Verify_HeaderMismatch(t *testing.T) {
	emitter := New(testConfig(t))
	artifact := "article_code,section,text_he,text_en\n" +
		"alpha,main,x,y\n"
	require.NoError(t, os.WriteFile(emitter.Path(), []byte(artifact), 0o644))

	report, err := emitter.Verify(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Ok())
	require.NotEmpty(t, report.Problems)
	assert.Contains(t, report.Problems[0], "header mismatch")
}

func TestEmitter_Verify_CellProblems(t *testing.T) {
	t.Run("reject policy flags empty cells", func(t *testing.T) {
		emitter := New(testConfig(t))
		artifact := "article_code,section,domain,source_url,text_he,text_en\n" +
			"alpha,main,general,https://x/alpha.html,body,\n" +
			"alpha,main,general,https://x/alpha.html,body,body\n" +
			",main,general,https://x/c.html,body,body\n"
		require.NoError(t, os.WriteFile(emitter.Path(), []byte(artifact), 0o644))

		report, err := emitter.Verify(context.Background())
		require.NoError(t, err)

		assert.False(t, report.Ok())
		assert.Equal(t, 3, report.Records)

		joined := strings.Join(report.Problems, "\n")
		assert.Contains(t, joined, "empty text_en cell for alpha")
		assert.Contains(t, joined, "duplicate article code alpha")
		assert.Contains(t, joined, "empty article code")
	})

	t.Run("flag policy accepts empty cells", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Policies.EmptyContent = domain.EmptyContentFlag
		emitter := New(cfg)
		artifact := "article_code,section,domain,source_url,text_he,text_en\n" +
			"alpha,main,general,https://x/alpha.html,body,\n"
		require.NoError(t, os.WriteFile(emitter.Path(), []byte(artifact), 0o644))

		report, err := emitter.Verify(context.Background())
		require.NoError(t, err)

		assert.True(t, report.Ok(), "problems: %v", report.Problems)
	})
}

func TestEmitter_Verify_WrongColumnCount(t *testing.T) {
	emitter := New(testConfig(t))
	artifact := "article_code,section,domain,source_url,text_he,text_en\n" +
		"alpha,main,general,https://x/alpha.html,body\n"
	require.NoError(t, os.WriteFile(emitter.Path(), []byte(artifact), 0o644))

	report, err := emitter.Verify(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Ok())
	assert.Equal(t, 0, report.Records)
	require.NotEmpty(t, report.Problems)
	assert.Contains(t, report.Problems[0], "wrong column count")
}

func TestEmitter_Verify_MissingFile(t *testing.T) {
	emitter := New(testConfig(t))

	report, err := emitter.Verify(context.Background())

	require.Error(t, err)
	assert.Nil(t, report)
}
