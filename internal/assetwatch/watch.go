// Package assetwatch reports when model files change on disk.
package assetwatch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const changeQueueSize = 16

// Watcher watches a fixed set of files and publishes their original path
// strings on Changes. Parent directories are watched so that editors which
// replace files on save are still noticed.
type Watcher struct {
	fs      *fsnotify.Watcher
	targets map[string]string // absolute path -> path as given to New
	changes chan string
	log     *zap.Logger

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New starts watching paths. log may be nil.
func New(paths []string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fs:      fsw,
		targets: make(map[string]string, len(paths)),
		changes: make(chan string, changeQueueSize),
		log:     log,
		done:    make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.targets[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.loop()

	log.Debug("watching assets", zap.Strings("paths", paths))
	return w, nil
}

// Changes delivers the path of each modified file. A single save can
// produce several events, so consumers should dedupe what they drain.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			orig, ok := w.targets[abs]
			if !ok {
				continue
			}
			w.publish(orig)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("asset watcher error", zap.Error(err))
		}
	}
}

// publish queues path without blocking the event loop.
func (w *Watcher) publish(path string) {
	select {
	case w.changes <- path:
	default:
		w.log.Debug("asset change dropped, queue full", zap.String("path", path))
	}
}
