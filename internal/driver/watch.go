package driver

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces editor save bursts into one recompilation.
const debounceWindow = 200 * time.Millisecond

// Watch compiles paths once, then recompiles on every change until ctx
// is canceled. onResults receives each batch, the initial one included.
func (d *Driver) Watch(ctx context.Context, paths []string, onResults func([]Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// Watching directories survives the delete-then-rename dance most
	// editors do on save.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	onResults(d.Compile(ctx, paths))

	timer := time.NewTimer(debounceWindow)
	if !timer.Stop() {
		<-timer.C
	}
	dirty := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if dirty && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounceWindow)
			dirty = true
		case <-timer.C:
			if !dirty {
				continue
			}
			dirty = false
			onResults(d.Compile(ctx, paths))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
