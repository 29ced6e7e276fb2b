package generator

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settle groups bursts of events on the same file into one regeneration.
const settle = 100 * time.Millisecond

// Watch regenerates mixin files below dirs whenever they change, until ctx
// is done. onResult is called after every regeneration and may be nil.
func (g *Generator) Watch(ctx context.Context, dirs []string, onResult func(Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, de fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if de.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	regenerate := func(path string) {
		mu.Lock()
		delete(pending, path)
		mu.Unlock()

		res, err := g.GenerateFile(path)
		if err != nil {
			g.logger.Error("Error processing file", zap.String("file", path), zap.Error(err))
			return
		}
		if onResult != nil {
			onResult(res)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !g.hasDesiredExtension(event.Name) {
				continue
			}
			mu.Lock()
			if t, ok := pending[event.Name]; ok {
				t.Reset(settle)
			} else {
				path := event.Name
				pending[path] = time.AfterFunc(settle, func() { regenerate(path) })
			}
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Warn("watch error", zap.Error(err))
		}
	}
}
