package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// DefaultFile is the config filename looked up in the working
// directory when no explicit path is given.
const DefaultFile = "corpusctl.toml"

// Ensure Loader implements the interface.
var _ driven.ConfigLoader = (*Loader)(nil)

// Loader reads pipeline configuration from a TOML file and overlays it
// onto the built-in defaults. A missing file is only an error when its
// path was given explicitly.
type Loader struct {
	path     string
	explicit bool
}

// NewLoader creates a loader for the given config path. An empty path
// falls back to DefaultFile in the working directory.
func NewLoader(path string) *Loader {
	if path == "" {
		return &Loader{path: DefaultFile}
	}
	return &Loader{path: path, explicit: true}
}

// Load returns the effective configuration.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(l.path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !l.explicit:
		// No config file, run on defaults.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	default:
		var f fileConfig
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", l.path, err)
		}
		f.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", l.path, err)
	}
	return cfg, nil
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// fileConfig mirrors the TOML file layout. Pointer fields distinguish
// an absent key from an explicit zero value so defaults survive.
type fileConfig struct {
	Corpus struct {
		Root           string   `toml:"root"`
		SourceLanguage string   `toml:"source_language"`
		Languages      []string `toml:"languages"`
		SkipSuffixes   []string `toml:"skip_suffixes"`
		SkipMarkers    []string `toml:"skip_markers"`
	} `toml:"corpus"`

	Sections map[string]string `toml:"sections"`

	Domains struct {
		BySection  map[string]string `toml:"by_section"`
		TextDomain string            `toml:"text_domain"`
		Default    string            `toml:"default"`
	} `toml:"domains"`

	Dataset struct {
		Name                  string `toml:"name"`
		SourceName            string `toml:"source_name"`
		TranslationSourceName string `toml:"translation_source_name"`
		SourceBaseURL         string `toml:"source_base_url"`
		TranslationBaseURL    string `toml:"translation_base_url"`
		License               string `toml:"license"`
		IncludeRawHTML        *bool  `toml:"include_raw_html"`
	} `toml:"dataset"`

	Output struct {
		Dir string `toml:"dir"`
	} `toml:"output"`

	Policies struct {
		EmptyContent string `toml:"empty_content"`
		CJKDetection string `toml:"cjk_detection"`
	} `toml:"policies"`

	Processors struct {
		Chain   []string                  `toml:"chain"`
		Options map[string]map[string]any `toml:"options"`
	} `toml:"processors"`

	Audit struct {
		Enabled *bool  `toml:"enabled"`
		Path    string `toml:"path"`
	} `toml:"audit"`
}

// apply overlays the file values onto cfg. Tables and lists replace
// their default wholesale; absent keys keep the default.
func (f *fileConfig) apply(cfg *domain.Config) {
	setString(&cfg.Corpus.Root, f.Corpus.Root)
	if f.Corpus.SourceLanguage != "" {
		cfg.Corpus.SourceLanguage = domain.NormalizeLanguage(f.Corpus.SourceLanguage)
	}
	if f.Corpus.Languages != nil {
		langs := make([]string, len(f.Corpus.Languages))
		for i, l := range f.Corpus.Languages {
			langs[i] = domain.NormalizeLanguage(l)
		}
		cfg.Corpus.Languages = langs
	}
	if f.Corpus.SkipSuffixes != nil {
		cfg.Corpus.SkipSuffixes = f.Corpus.SkipSuffixes
	}
	if f.Corpus.SkipMarkers != nil {
		cfg.Corpus.SkipMarkers = f.Corpus.SkipMarkers
	}

	if f.Sections != nil {
		cfg.Sections = f.Sections
	}
	if f.Domains.BySection != nil {
		cfg.Domains.BySection = f.Domains.BySection
	}
	setString(&cfg.Domains.TextDomain, f.Domains.TextDomain)
	setString(&cfg.Domains.Default, f.Domains.Default)

	setString(&cfg.Dataset.Name, f.Dataset.Name)
	setString(&cfg.Dataset.SourceName, f.Dataset.SourceName)
	setString(&cfg.Dataset.TranslationSourceName, f.Dataset.TranslationSourceName)
	setString(&cfg.Dataset.SourceBaseURL, f.Dataset.SourceBaseURL)
	setString(&cfg.Dataset.TranslationBaseURL, f.Dataset.TranslationBaseURL)
	setString(&cfg.Dataset.License, f.Dataset.License)
	if f.Dataset.IncludeRawHTML != nil {
		cfg.Dataset.IncludeRawHTML = *f.Dataset.IncludeRawHTML
	}

	setString(&cfg.Output.Dir, f.Output.Dir)

	if f.Policies.EmptyContent != "" {
		cfg.Policies.EmptyContent = domain.EmptyContentPolicy(f.Policies.EmptyContent)
	}
	if f.Policies.CJKDetection != "" {
		cfg.Policies.CJKDetection = domain.CJKDetection(f.Policies.CJKDetection)
	}

	if f.Processors.Chain != nil {
		cfg.Processors.Chain = f.Processors.Chain
	}
	if f.Processors.Options != nil {
		cfg.Processors.Options = f.Processors.Options
	}

	if f.Audit.Enabled != nil {
		cfg.Audit.Enabled = *f.Audit.Enabled
	}
	setString(&cfg.Audit.Path, f.Audit.Path)
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}
