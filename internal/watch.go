package internal

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/parseit/internal/types"
)

// ReportFunc receives the matches of a file re-checked by Watch.
type ReportFunc func(filename string, matches []tt.Match)

// watchSettle is how long Watch waits after a write so that a burst of
// writes is handled once.
const watchSettle = 100 * time.Millisecond

// Watch re-runs the engine on every accepted file written under dirs until
// ctx is done. New subdirectories are watched as they appear.
func (e *Engine) Watch(ctx context.Context, dirs []string, report ReportFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := addTree(watcher, dir); err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	e.logger.Info("watching", zap.Strings("dirs", dirs))

	pending := make(map[string]struct{})
	timer := time.NewTimer(watchSettle)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create && isDir(event.Name) {
				if err := addTree(watcher, event.Name); err != nil {
					e.logger.Warn("cannot watch directory", zap.String("dir", event.Name), zap.Error(err))
				}
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !e.Accepts(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(watchSettle)
		case <-timer.C:
			for name := range pending {
				e.handleFileEvent(name, report)
			}
			pending = make(map[string]struct{})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(filename string, report ReportFunc) {
	matches, err := e.Run(filename)
	if err != nil {
		e.logger.Error("error checking file", zap.String("file", filename), zap.Error(err))
		return
	}
	e.logger.Debug("checked file", zap.String("file", filename), zap.Int("matches", len(matches)))
	if report != nil {
		report(filename, matches)
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
