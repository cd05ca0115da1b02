package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay is how long Watch waits after the last change event before
// reloading. Editors and os.WriteFile truncate then write, producing several
// events per save; only the settled file is loaded.
const reloadDelay = 100 * time.Millisecond

// Watch monitors path and calls onChange with the newly loaded Config once a
// burst of writes to it has settled. It runs until ctx is cancelled.
//
// The parent directory is watched so a rename over the file is seen too.
// A reload that fails to load or validate is logged and onChange is not
// called; the caller keeps its previous config.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	slog.Info("config: watching for changes", "path", abs)

	// settle fires reloadDelay after the most recent relevant event.
	settle := time.NewTimer(reloadDelay)
	if !settle.Stop() {
		<-settle.C
	}
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if !settle.Stop() {
				select {
				case <-settle.C:
				default:
				}
			}
			settle.Reset(reloadDelay)

		case <-settle.C:
			reload(abs, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

func reload(path string, onChange func(*Config)) {
	cfg, err := Load(path)
	if err != nil {
		slog.Error("config: reload failed, keeping previous config", "path", path, "err", err)
		return
	}
	slog.Info("config: reloaded", "path", path, "log_level", cfg.Log.Level)
	onChange(cfg)
}
