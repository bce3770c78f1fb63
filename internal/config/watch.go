package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/xxh3"
)

const debounce = 100 * time.Millisecond

// Change is a new version of a watched file.
type Change struct {
	Path string
	Data []byte
	Hash uint64
}

// Watcher reports content changes of a single file. It watches the parent
// directory so editors that replace the file on save are still seen, and it
// drops writes that leave the content hash unchanged.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Changes chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// WatchFile starts watching path. lastHash is the hash of the content the
// caller already has, zero if none.
func WatchFile(path string, lastHash uint64) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		Changes: make(chan Change, 4),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go w.run(lastHash)
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run(lastHash uint64) {
	defer close(w.Changes)
	defer close(w.Errors)

	// Saves often arrive as several events; settle for debounce before reading.
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			data, err := os.ReadFile(w.path)
			if err != nil {
				slog.Debug("Watched file not readable", "path", w.path, "error", err)
				continue
			}
			hash := xxh3.Hash(data)
			if hash == lastHash {
				continue
			}
			lastHash = hash
			select {
			case w.Changes <- Change{Path: w.path, Data: data, Hash: hash}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				slog.Warn("Dropping watcher error", "path", w.path, "error", err)
			}
		case <-w.closeCh:
			return
		}
	}
}
