package main

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// dolmaLine mirrors the emitted JSONL document shape.
type dolmaLine struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Source   string `json:"source"`
	Added    string `json:"added"`
	Metadata struct {
		Language      string  `json:"language"`
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		TranslationOf *string `json:"translation_of"`
		WordCount     int     `json:"word_count"`
		SHA256        string  `json:"sha256"`
	} `json:"metadata"`
}

// compactEntry mirrors the emitted JSON array entry shape.
type compactEntry struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	OriginalURL string `json:"original_url"`
}

func writeCorpusFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "corpusctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func readDolma(t *testing.T, path string) []dolmaLine {
	t.Helper()
	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()
	gz, err := gzip.NewReader(in)
	require.NoError(t, err)
	defer gz.Close()

	var lines []dolmaLine
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		var doc dolmaLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &doc))
		lines = append(lines, doc)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func readCompact(t *testing.T, path string) []compactEntry {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []compactEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	return entries
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()
	rows, err := csv.NewReader(in).ReadAll()
	require.NoError(t, err)
	return rows
}

// TestBuildPipeline_EndToEnd wires the real adapters against a corpus
// tree on disk and checks the whole run: duplicate bodies collapse to
// one record, boilerplate-only pages reject their group, skip rules
// fire, and the surviving group lands in all three artifacts.
func TestBuildPipeline_EndToEnd(t *testing.T) {
	tmp := t.TempDir()
	corpusDir := filepath.Join(tmp, "corpus")
	distDir := filepath.Join(tmp, "dist")

	const articleBody = `<article>
<h1>שלום עולם</h1>
<p>פסקה ראשונה של המאמר.</p>
<p>פסקה שנייה של המאמר.</p>
</article>`

	// Source-language files sit directly under the root.
	writeCorpusFile(t, corpusDir, "alpha.html",
		"<html><head><title>שלום עולם</title></head><body>"+articleBody+"</body></html>")
	// Same body under a different title: rejected as a duplicate.
	writeCorpusFile(t, corpusDir, "beta.html",
		"<html><head><title>כותרת אחרת</title></head><body>"+articleBody+"</body></html>")
	// Boilerplate only: no visible text survives extraction.
	writeCorpusFile(t, corpusDir, "gamma.html",
		`<html><head><title>גמא</title><style>body{color:red}</style></head>`+
			`<body><nav><a href="/">ראשי</a></nav><script>console.log("x")</script>`+
			`<div style="display:none">מוסתר</div></body></html>`)
	// Matches the default skip suffix.
	writeCorpusFile(t, corpusDir, "delta.partial.html",
		"<html><body><p>קטע חלקי</p></body></html>")
	// Matches the default skip marker.
	writeCorpusFile(t, corpusDir, "epsilon.html",
		"<html><body><p>Read complete version in English</p></body></html>")
	// No extractor for markdown.
	writeCorpusFile(t, corpusDir, "notes.md", "# notes\n")

	// Translations live in per-language subdirectories.
	writeCorpusFile(t, corpusDir, "zh/alpha.html",
		`<html><head><title>你好世界</title></head><body><article>`+
			`<h1>你好世界</h1><p>文章的第一段。</p><p>文章的第二段。</p>`+
			`</article></body></html>`)
	writeCorpusFile(t, corpusDir, "zh/beta.html",
		"<html><head><title>另一篇</title></head><body><p>完全不同的内容在这里。</p></body></html>")
	writeCorpusFile(t, corpusDir, "zh/gamma.html",
		"<html><head><title>伽馬</title></head><body><p>伽馬文章的正文。</p></body></html>")

	cfgPath := writeConfig(t, tmp, fmt.Sprintf(`
[corpus]
root = '%s'
languages = ["he", "zh"]

[output]
dir = '%s'
`, corpusDir, distDir))

	pipeline, cleanup, err := buildPipeline(cfgPath)
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	summary, err := pipeline.Build.Build(ctx)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, corpusDir, summary.Root)
	assert.Equal(t, 9, summary.FilesSeen)
	assert.Equal(t, 8, summary.FilesMatched)
	assert.Equal(t, 1, summary.Unsupported)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 1, summary.Empty)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, 3, summary.GroupsTotal)
	assert.Equal(t, 1, summary.GroupsAligned)
	assert.Equal(t, 2, summary.GroupsDropped)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 26, summary.Words)
	assert.Equal(t, map[string]int{"he": 1, "zh": 1}, summary.RecordsByLanguage)
	assert.Equal(t, map[string]int{"general": 2}, summary.RecordsByDomain)
	assert.Equal(t, map[domain.SourceKind]int{domain.KindHTML: 2}, summary.RecordsByKind)
	assert.True(t, summary.IntegrityPassed)

	require.Len(t, summary.Artifacts, 3)
	for _, path := range summary.Artifacts {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	heText := "שלום עולם\nפסקה ראשונה של המאמר.\nפסקה שנייה של המאמר."
	zhText := "你好世界\n文章的第一段。\n文章的第二段。"

	// The training artifact holds the two surviving records in set
	// order, source language first.
	docs := readDolma(t, filepath.Join(distDir, "ai-culture.jsonl.gz"))
	require.Len(t, docs, 2)

	assert.Equal(t, "he/alpha.html", docs[0].ID)
	assert.Equal(t, heText, docs[0].Text)
	assert.Equal(t, "hitdarderut-haaretz", docs[0].Source)
	assert.Equal(t, "he", docs[0].Metadata.Language)
	assert.Equal(t, "שלום עולם", docs[0].Metadata.Title)
	assert.Equal(t, "https://hitdarderut-haaretz.org/alpha.html", docs[0].Metadata.URL)
	assert.Nil(t, docs[0].Metadata.TranslationOf)
	assert.Equal(t, 10, docs[0].Metadata.WordCount)
	assert.Equal(t, domain.Fingerprint(heText), docs[0].Metadata.SHA256)
	assert.NotEmpty(t, docs[0].Added)

	assert.Equal(t, "zh/alpha.html", docs[1].ID)
	assert.Equal(t, zhText, docs[1].Text)
	assert.Equal(t, "degeneration-of-nation", docs[1].Source)
	assert.Equal(t, "zh", docs[1].Metadata.Language)
	assert.Equal(t, "https://degeneration-of-nation.org/zh/alpha.html", docs[1].Metadata.URL)
	require.NotNil(t, docs[1].Metadata.TranslationOf)
	assert.Equal(t, "https://hitdarderut-haaretz.org/alpha.html", *docs[1].Metadata.TranslationOf)
	assert.Equal(t, 16, docs[1].Metadata.WordCount)

	entries := readCompact(t, filepath.Join(distDir, "ai-culture.json"))
	require.Len(t, entries, 2)
	assert.Equal(t, "he/alpha.html", entries[0].ID)
	assert.Equal(t, heText, entries[0].Content)
	assert.Equal(t, entries[0].URL, entries[0].OriginalURL)
	assert.Equal(t, "zh/alpha.html", entries[1].ID)
	assert.Equal(t, "https://hitdarderut-haaretz.org/alpha.html", entries[1].OriginalURL)

	// The aligned pair becomes a single parallel row with both texts.
	rows := readCSV(t, filepath.Join(distDir, "ai-culture.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"article_code", "section", "domain", "source_url", "text_he", "text_zh"}, rows[0])
	assert.Equal(t, []string{"alpha", "main", "general",
		"https://hitdarderut-haaretz.org/alpha.html", heText, zhText}, rows[1])

	// Standalone verification re-reads the artifacts from disk.
	report, err := pipeline.Verify.Verify(ctx, nil)
	require.NoError(t, err)
	assert.True(t, report.Passed(), "failures: %v", report.Failures())

	// The audit trail recorded the run and every per-file outcome.
	require.NotNil(t, pipeline.Audit)
	_, err = os.Stat(filepath.Join(distDir, "audit.db"))
	require.NoError(t, err)

	runs, err := pipeline.Audit.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.VerdictPassed, runs[0].Verdict)
	assert.Equal(t, 2, runs[0].Records)
	assert.Equal(t, corpusDir, runs[0].Root)

	events, err := pipeline.Audit.ListEvents(ctx, runs[0].ID)
	require.NoError(t, err)
	byStatus := make(map[domain.FileEventStatus]int)
	var unaligned []string
	for _, ev := range events {
		byStatus[ev.Status]++
		if ev.Status == domain.EventUnaligned {
			unaligned = append(unaligned, ev.Identifier)
		}
	}
	assert.Equal(t, map[domain.FileEventStatus]int{
		domain.EventAccepted:    4,
		domain.EventDuplicate:   1,
		domain.EventEmpty:       1,
		domain.EventSkipped:     2,
		domain.EventUnsupported: 1,
		domain.EventUnaligned:   2,
	}, byStatus)
	assert.ElementsMatch(t, []string{"zh/beta.html", "zh/gamma.html"}, unaligned)
}

// TestBuildPipeline_FlagEmptyPolicy keeps a boilerplate-only page as a
// zero-word record instead of dropping its group.
func TestBuildPipeline_FlagEmptyPolicy(t *testing.T) {
	tmp := t.TempDir()
	corpusDir := filepath.Join(tmp, "corpus")
	distDir := filepath.Join(tmp, "dist")

	writeCorpusFile(t, corpusDir, "gamma.html",
		`<html><head><title>נטוש</title></head>`+
			`<body><script>var a = 1;</script><div style="display:none">טקסט חבוי</div></body></html>`)
	writeCorpusFile(t, corpusDir, "zh/gamma.html",
		"<html><head><title>伽馬</title></head><body><p>伽馬文章的正文。</p></body></html>")

	cfgPath := writeConfig(t, tmp, fmt.Sprintf(`
[corpus]
root = '%s'
languages = ["he", "zh"]

[output]
dir = '%s'

[policies]
empty_content = "flag"

[audit]
enabled = false
`, corpusDir, distDir))

	pipeline, cleanup, err := buildPipeline(cfgPath)
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, pipeline.Audit)

	summary, err := pipeline.Build.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesSeen)
	assert.Equal(t, 0, summary.Empty)
	assert.Equal(t, 1, summary.GroupsAligned)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 7, summary.Words)
	assert.True(t, summary.IntegrityPassed)

	docs := readDolma(t, filepath.Join(distDir, "ai-culture.jsonl.gz"))
	require.Len(t, docs, 2)
	assert.Equal(t, "he/gamma.html", docs[0].ID)
	assert.Empty(t, docs[0].Text)
	assert.Equal(t, 0, docs[0].Metadata.WordCount)
	assert.Equal(t, domain.Fingerprint(""), docs[0].Metadata.SHA256)
	assert.Equal(t, "נטוש", docs[0].Metadata.Title)

	rows := readCSV(t, filepath.Join(distDir, "ai-culture.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"gamma", "main", "general",
		"https://hitdarderut-haaretz.org/gamma.html", "", "伽馬文章的正文。"}, rows[1])
}

func TestBuildPipeline_MissingConfig(t *testing.T) {
	_, _, err := buildPipeline(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
