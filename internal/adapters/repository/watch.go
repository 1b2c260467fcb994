package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/okian/predboard/pkg/logger"
)

// Watcher calls back when a single file is created, written, renamed or
// removed. It watches the parent directory so atomic replacements are seen.
type Watcher struct {
	fw     *fsnotify.Watcher
	target string
	done   chan struct{}
}

// WatchFile starts watching path until ctx is done or Close is called.
// onChange runs on the watcher goroutine.
func WatchFile(ctx context.Context, path string, onChange func(), log logger.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{fw: fw, target: abs, done: make(chan struct{})}
	go w.loop(ctx, onChange, log)
	return w, nil
}

const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Rename | fsnotify.Remove

func (w *Watcher) loop(ctx context.Context, onChange func(), log logger.Logger) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			_ = w.fw.Close()
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target || ev.Op&relevantOps == 0 {
				continue
			}
			if log != nil {
				log.Debug(ctx, "watched file changed", logger.String("path", ev.Name), logger.String("op", ev.Op.String()))
			}
			onChange()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			if log != nil {
				log.Warn(ctx, "file watcher error", logger.Error(err))
			}
		}
	}
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}
