package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

const unknownDescription = "Unknown"

// EmptyContentPolicy defines what happens to a file whose extracted,
// normalized body is empty.
type EmptyContentPolicy string

// Available empty-content policies.
const (
	// EmptyContentReject drops the file from the dataset.
	EmptyContentReject EmptyContentPolicy = "reject"

	// EmptyContentFlag keeps the record with a zero word count.
	// Its article group still aligns if every language variant is present.
	EmptyContentFlag EmptyContentPolicy = "flag"
)

// IsValid returns true if the policy is recognised.
func (p EmptyContentPolicy) IsValid() bool {
	switch p {
	case EmptyContentReject, EmptyContentFlag:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p EmptyContentPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p EmptyContentPolicy) Description() string {
	switch p {
	case EmptyContentReject:
		return "Reject (drop empty documents)"
	case EmptyContentFlag:
		return "Flag (keep with zero word count)"
	default:
		return unknownDescription
	}
}

// CJKDetection defines how the word counter decides that a text is in
// a language written without spaces between words.
type CJKDetection string

// Available CJK detection modes.
const (
	// CJKDetectLanguage trusts the record's language code.
	CJKDetectLanguage CJKDetection = "language"

	// CJKDetectScript inspects the text itself: character counting is
	// used when the majority of letters are Han, kana or Hangul.
	CJKDetectScript CJKDetection = "script"
)

// IsValid returns true if the detection mode is recognised.
func (d CJKDetection) IsValid() bool {
	switch d {
	case CJKDetectLanguage, CJKDetectScript:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d CJKDetection) String() string {
	return string(d)
}

// Description returns a human-readable description of the mode.
func (d CJKDetection) Description() string {
	switch d {
	case CJKDetectLanguage:
		return "Language (trust the path-derived language code)"
	case CJKDetectScript:
		return "Script (inspect the text for CJK characters)"
	default:
		return unknownDescription
	}
}

// CorpusConfig describes the input tree.
type CorpusConfig struct {
	// Root is the corpus directory. Source-language files sit directly
	// under it; translations live in per-language subdirectories.
	Root string

	// SourceLanguage is the code of the original-language content.
	SourceLanguage string

	// Languages is the full expected language set, source included.
	// Alignment requires every code in this list.
	Languages []string

	// SkipSuffixes excludes files by filename suffix before reading.
	SkipSuffixes []string

	// SkipMarkers excludes files whose content contains any of these
	// strings. Used for stub pages that only point at a translation.
	SkipMarkers []string
}

// TranslationLanguages returns the configured languages minus the
// source language, in configured order.
func (c CorpusConfig) TranslationLanguages() []string {
	out := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		if l != c.SourceLanguage {
			out = append(out, l)
		}
	}
	return out
}

// HasLanguage reports whether code is in the configured language set.
func (c CorpusConfig) HasLanguage(code string) bool {
	code = NormalizeLanguage(code)
	for _, l := range c.Languages {
		if l == code {
			return true
		}
	}
	return false
}

// DomainsConfig maps sections to content domain labels.
type DomainsConfig struct {
	// BySection maps source-form section slugs to domain labels.
	BySection map[string]string

	// TextDomain is the label for every pre-converted text file.
	TextDomain string

	// Default is the label when no mapping matches.
	Default string
}

// DatasetConfig describes the emitted dataset.
type DatasetConfig struct {
	// Name is the artifact basename ("ai-culture" produces
	// ai-culture.jsonl.gz, ai-culture.json and ai-culture.csv).
	Name string

	// SourceName identifies source-language records in the datasets.
	SourceName string

	// TranslationSourceName identifies translated records.
	TranslationSourceName string

	// SourceBaseURL is the public base URL of the source-language site.
	SourceBaseURL string

	// TranslationBaseURL is the public base URL of the translation site.
	TranslationBaseURL string

	// License is the license string stamped on every record.
	License string

	// IncludeRawHTML retains original markup in emitted records.
	IncludeRawHTML bool
}

// SourceFor returns the dataset source name for a record language.
func (d DatasetConfig) SourceFor(lang, sourceLanguage string) string {
	if lang == sourceLanguage {
		return d.SourceName
	}
	return d.TranslationSourceName
}

// URLFor returns the public URL of a corpus file. Source-language
// files live at the source site root; translations keep their
// language-prefixed relative path on the translation site.
func (d DatasetConfig) URLFor(lang, sourceLanguage, relPath string) string {
	base := d.TranslationBaseURL
	if lang == sourceLanguage {
		base = d.SourceBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + relPath
}

// SourceURL returns the source-language URL for a source filename.
func (d DatasetConfig) SourceURL(name string) string {
	return strings.TrimRight(d.SourceBaseURL, "/") + "/" + name
}

// OutputConfig describes where artifacts are written.
type OutputConfig struct {
	// Dir is the output directory, created if missing.
	Dir string
}

// PolicyConfig holds the pipeline's decision policies.
type PolicyConfig struct {
	// EmptyContent decides the fate of empty documents.
	EmptyContent EmptyContentPolicy

	// CJKDetection decides how CJK word counting is triggered.
	CJKDetection CJKDetection
}

// ProcessorsConfig selects the record processing chain.
type ProcessorsConfig struct {
	// Chain lists processor names in execution order. Empty means the
	// standard chain: normalization, then word counting.
	Chain []string

	// Options holds per-processor settings, keyed by processor name.
	Options map[string]map[string]any
}

// AuditConfig describes the run audit trail.
type AuditConfig struct {
	// Enabled turns the SQLite audit trail on.
	Enabled bool

	// Path overrides the store location. Empty means audit.db under
	// the output directory.
	Path string
}

// Config holds the full pipeline configuration.
type Config struct {
	// Corpus describes the input tree.
	Corpus CorpusConfig

	// Sections maps source-language section slugs to the translated
	// slugs used in translation filenames.
	Sections map[string]string

	// Domains maps sections to content domain labels.
	Domains DomainsConfig

	// Dataset describes the emitted dataset.
	Dataset DatasetConfig

	// Output describes where artifacts are written.
	Output OutputConfig

	// Policies holds the pipeline's decision policies.
	Policies PolicyConfig

	// Processors selects the record processing chain.
	Processors ProcessorsConfig

	// Audit describes the run audit trail.
	Audit AuditConfig
}

// DefaultConfig returns the configuration for the AI Culture corpus.
// Every table is overridable from the config file; these defaults make
// the tool work on a checkout of the corpus with no file at all.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root:           "website2",
			SourceLanguage: "he",
			Languages: []string{
				"he", "en", "es", "fr", "de", "pt",
				"it", "ja", "ru", "ko", "zh", "hi",
			},
			SkipSuffixes: []string{".partial.html"},
			SkipMarkers:  []string{"Read complete version in English"},
		},
		Sections: map[string]string{
			"actualia":               "alternative-commentary",
			"tarbut-vesifrut":        "culture&literature",
			"filosofia":              "philosophy-of-learning",
			"igul-shachor":           "night-life",
			"bikoret-haaretz":        "press-review",
			"tzurat-atid":            "future-tense",
			"handasat-enosh":         "human-engineering",
			"acharit-halelot":        "end-of-nights",
			"hapostim-shel-hashavua": "posts-of-the-week",
		},
		Domains: DomainsConfig{
			BySection: map[string]string{
				"actualia":               "commentary",
				"hapostim-shel-hashavua": "commentary",
				"tarbut-vesifrut":        "culture",
				"filosofia":              "philosophy",
				"bikoret-haaretz":        "press-review",
				"igul-shachor":           "literature",
				"tzurat-atid":            "literature",
				"handasat-enosh":         "literature",
				"acharit-halelot":        "literature",
			},
			TextDomain: "literature",
			Default:    "general",
		},
		Dataset: DatasetConfig{
			Name:                  "ai-culture",
			SourceName:            "hitdarderut-haaretz",
			TranslationSourceName: "degeneration-of-nation",
			SourceBaseURL:         "https://hitdarderut-haaretz.org",
			TranslationBaseURL:    "https://degeneration-of-nation.org",
			License:               "CC-BY-4.0",
			IncludeRawHTML:        false,
		},
		Output: OutputConfig{
			Dir: "dist",
		},
		Policies: PolicyConfig{
			EmptyContent: EmptyContentReject,
			CJKDetection: CJKDetectLanguage,
		},
		Audit: AuditConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Corpus.Root == "" {
		return fmt.Errorf("corpus root: %w", ErrInvalidInput)
	}
	if len(c.Corpus.Languages) == 0 {
		return fmt.Errorf("corpus languages: %w", ErrInvalidInput)
	}
	if !c.Corpus.HasLanguage(c.Corpus.SourceLanguage) {
		return fmt.Errorf("source language %q not in language list: %w",
			c.Corpus.SourceLanguage, ErrInvalidInput)
	}
	seen := make(map[string]bool, len(c.Corpus.Languages))
	for _, l := range c.Corpus.Languages {
		if seen[l] {
			return fmt.Errorf("language %q listed twice: %w", l, ErrInvalidInput)
		}
		seen[l] = true
	}
	if c.Dataset.Name == "" {
		return fmt.Errorf("dataset name: %w", ErrInvalidInput)
	}
	if !c.Policies.EmptyContent.IsValid() {
		return fmt.Errorf("empty-content policy %q: %w",
			c.Policies.EmptyContent, ErrInvalidInput)
	}
	if !c.Policies.CJKDetection.IsValid() {
		return fmt.Errorf("cjk detection %q: %w",
			c.Policies.CJKDetection, ErrInvalidInput)
	}
	for _, name := range c.Processors.Chain {
		if name == "" {
			return fmt.Errorf("processor chain has an empty name: %w", ErrInvalidInput)
		}
	}
	return nil
}

// SectionMapping builds the slug mapping from the configured table.
func (c *Config) SectionMapping() *SectionMapping {
	return NewSectionMapping(c.Sections)
}

// DomainMapping builds the domain mapping from the configured table.
func (c *Config) DomainMapping() *DomainMapping {
	return NewDomainMapping(c.Domains.BySection, c.Domains.TextDomain, c.Domains.Default)
}

// AuditPath returns the audit store location for this configuration.
func (c *Config) AuditPath() string {
	if c.Audit.Path != "" {
		return c.Audit.Path
	}
	return filepath.Join(c.Output.Dir, "audit.db")
}
