// Package corpus walks a corpus tree on the local filesystem and
// streams classified files to the build pipeline. Source-language
// files sit directly under the root; translations live in
// per-language subdirectories named by ISO 639-1 code.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
	"github.com/ai-culture-commons/corpusctl/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.CorpusConnector = (*Connector)(nil)

// Connector streams corpus files from a directory tree.
type Connector struct {
	cfg    domain.CorpusConfig
	mu     sync.Mutex
	closed bool
}

// New creates a filesystem corpus connector for the configured tree.
func New(cfg domain.CorpusConfig) *Connector {
	return &Connector{cfg: cfg}
}

// Root returns the corpus root directory.
func (c *Connector) Root() string {
	return c.cfg.Root
}

// Capabilities returns the connector's capabilities.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsWatch:      true,
		SupportsValidation: true,
	}
}

// Validate checks that the corpus root exists and is a readable
// directory.
func (c *Connector) Validate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrConnectorClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	info, err := os.Stat(c.cfg.Root)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("corpus root %s does not exist", c.cfg.Root)
	}
	if err != nil {
		return fmt.Errorf("corpus root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("corpus root %s is not a directory", c.cfg.Root)
	}
	if _, err := os.ReadDir(c.cfg.Root); err != nil {
		return fmt.Errorf("corpus root: %w", err)
	}
	return nil
}

// Walk streams every file under the root in lexical order. Supported
// files arrive with their content loaded; files of unknown kind or
// language arrive with nil content so the pipeline can count them.
// A file that cannot be read produces a *domain.FileError on the
// error channel and the walk continues.
func (c *Connector) Walk(ctx context.Context) (<-chan domain.SourceFile, <-chan error) {
	filesChan := make(chan domain.SourceFile)
	errsChan := make(chan error, 1)

	go func() {
		defer close(filesChan)
		defer close(errsChan)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errsChan <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		walkErr := filepath.WalkDir(c.cfg.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if d.IsDir() {
				if path != c.cfg.Root && isHiddenName(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if isHiddenName(d.Name()) {
				return nil
			}

			file := c.classify(path)
			if file.Supported() {
				content, readErr := os.ReadFile(path)
				if readErr != nil {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case errsChan <- &domain.FileError{File: file, Err: readErr}:
					}
					return nil
				}
				file.Content = content
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case filesChan <- file:
			}
			return nil
		})

		if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
			select {
			case errsChan <- fmt.Errorf("walk %s: %w", c.cfg.Root, walkErr):
			case <-ctx.Done():
			}
		}
	}()

	return filesChan, errsChan
}

// Close releases resources. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// classify maps a path to a SourceFile without reading content.
func (c *Connector) classify(path string) domain.SourceFile {
	rel, err := filepath.Rel(c.cfg.Root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)

	return domain.SourceFile{
		Path:     path,
		RelPath:  rel,
		Name:     filepath.Base(path),
		Language: c.languageOf(rel),
		Kind:     kindOf(path),
	}
}

// kindOf classifies a file by extension. Unknown extensions yield the
// invalid kind; the pipeline counts those as unsupported.
func kindOf(path string) domain.SourceKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return domain.KindHTML
	case ".txt", ".text":
		return domain.KindText
	}
	return ""
}

// languageOf infers the language from a slash-separated relative path.
// Files directly under the root carry the source language; files whose
// first path element is a configured language carry that language.
// Anything else is unknown and the file is counted, not processed.
func (c *Connector) languageOf(rel string) string {
	first, _, nested := strings.Cut(rel, "/")
	if !nested {
		return c.cfg.SourceLanguage
	}
	code := domain.NormalizeLanguage(first)
	if c.cfg.HasLanguage(code) {
		return code
	}
	return ""
}

// isHiddenName reports whether a path element is dot-prefixed.
func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}
