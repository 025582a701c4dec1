package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/luthor/internal/types"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher re-tokenizes files as they are written.
type Watcher struct {
	engine     *Engine
	logger     *zap.Logger
	watcher    *fsnotify.Watcher
	extensions map[string]bool
	debounce   time.Duration
	report     func(tt.Result)
}

// NewWatcher creates a watcher reporting results of files with one of the
// given extensions. An empty extension list accepts every file.
func NewWatcher(engine *Engine, logger *zap.Logger, extensions []string, report func(tt.Result)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[ext] = true
	}
	return &Watcher{
		engine:     engine,
		logger:     logger,
		watcher:    fw,
		extensions: exts,
		debounce:   defaultDebounce,
		report:     report,
	}, nil
}

// Add watches every directory under the given roots.
func (w *Watcher) Add(roots ...string) error {
	for _, root := range roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return nil
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			w.handleNewDir(event.Name)
		}
		return
	}
	if !w.matches(event.Name) {
		return
	}

	// wait for a while after file change to consider multiple changes as one
	time.Sleep(w.debounce)
	w.process(event.Name)
}

// handleNewDir watches a directory created after Add, and processes the
// files that were written into it before the watch was in place.
func (w *Watcher) handleNewDir(dir string) {
	if err := w.Add(dir); err != nil {
		w.logger.Error("Error watching new directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	w.logger.Debug("Watching new directory", zap.String("dir", dir))

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && w.matches(path) {
			w.process(path)
		}
		return nil
	})
	if err != nil {
		w.logger.Error("Error walking new directory", zap.String("dir", dir), zap.Error(err))
	}
}

func (w *Watcher) matches(path string) bool {
	return len(w.extensions) == 0 || w.extensions[filepath.Ext(path)]
}

func (w *Watcher) process(filename string) {
	result, err := w.engine.Run(filename)
	if err != nil {
		w.logger.Error("Error processing file", zap.String("file", filename), zap.Error(err))
		return
	}
	w.logger.Debug("Processed file",
		zap.String("file", filename),
		zap.Int("tokens", len(result.Tokens)),
		zap.Int("issues", len(result.Issues)))
	if w.report != nil {
		w.report(result)
	}
}
