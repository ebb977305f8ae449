package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file on every write and hands the result to
// onChange. Load failures during reload are reported through onChange's
// error argument; watching continues.
//
// Watch blocks until the context is cancelled. The directory is watched
// rather than the file itself, which survives editors that replace the
// file on save.
func Watch(ctx context.Context, path string, onChange func(*Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	baseName := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			onChange(Load(path))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, err)
		}
	}
}
