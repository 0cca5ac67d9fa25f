package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ai-culture-commons/corpusctl/internal/core/domain"
)

// debounceWindow batches editor save bursts into one rebuild trigger.
const debounceWindow = 250 * time.Millisecond

// Watch registers the corpus tree with fsnotify and streams debounced
// change events for corpus files. Directories created while watching
// are registered as they appear. The channel closes when ctx is done.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.FileChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrConnectorClosed
	}
	if _, err := os.Stat(c.cfg.Root); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addWatchTree(watcher, c.cfg.Root); err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan domain.FileChange)
	go c.watchLoop(ctx, watcher, changes)
	return changes, nil
}

// watchLoop coalesces raw fsnotify events per path and flushes them
// after a quiet period, in path order.
func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- domain.FileChange) {
	defer close(changes)
	defer watcher.Close()

	pending := make(map[string]domain.FileChange)
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !isHiddenName(filepath.Base(event.Name)) {
						_ = watcher.Add(event.Name)
					}
					continue
				}
			}
			change := c.changeFor(event)
			if change == nil {
				continue
			}
			// A write burst right after a create is still a create.
			if prev, ok := pending[change.Path]; ok &&
				prev.Type == domain.ChangeCreated && change.Type == domain.ChangeUpdated {
				change.Type = domain.ChangeCreated
			}
			pending[change.Path] = *change
			flush = time.After(debounceWindow)

		case <-flush:
			for _, change := range sortedChanges(pending) {
				select {
				case <-ctx.Done():
					return
				case changes <- change:
				}
			}
			pending = make(map[string]domain.FileChange)
			flush = nil

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// changeFor maps an fsnotify event to a corpus change. Events for
// hidden paths, directories and files the pipeline would not process
// yield nil.
func (c *Connector) changeFor(event fsnotify.Event) *domain.FileChange {
	rel, err := filepath.Rel(c.cfg.Root, event.Name)
	if err != nil {
		return nil
	}
	if isHiddenPath(filepath.ToSlash(rel)) {
		return nil
	}
	file := c.classify(event.Name)
	if !file.Supported() {
		return nil
	}

	switch {
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return &domain.FileChange{Type: domain.ChangeDeleted, Path: event.Name}
	case event.Op.Has(fsnotify.Create):
		if !isRegularFile(event.Name) {
			return nil
		}
		return &domain.FileChange{Type: domain.ChangeCreated, Path: event.Name}
	case event.Op.Has(fsnotify.Write):
		if !isRegularFile(event.Name) {
			return nil
		}
		return &domain.FileChange{Type: domain.ChangeUpdated, Path: event.Name}
	}
	return nil
}

// addWatchTree registers root and every non-hidden subdirectory.
func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHiddenName(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// isHiddenPath reports whether any element of a slash-separated
// relative path is dot-prefixed.
func isHiddenPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if isHiddenName(part) {
			return true
		}
	}
	return false
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func sortedChanges(pending map[string]domain.FileChange) []domain.FileChange {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]domain.FileChange, 0, len(paths))
	for _, p := range paths {
		out = append(out, pending[p])
	}
	return out
}
