package workspace

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/justyntemme/mark/internal/debug"
)

// Watcher watches the directories of one workspace and reports the root
// whenever something below it changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	root     string
	watching map[string]bool // Currently watched directories
	notify   chan string     // Receives the root after a debounced change
	done     chan struct{}
	debounce time.Duration
}

// NewWatcher creates a watcher. Notifications are coalesced over debounceMs.
func NewWatcher(debounceMs int) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounceMs <= 0 {
		debounceMs = 200
	}

	ww := &Watcher{
		watcher:  w,
		watching: make(map[string]bool),
		notify:   make(chan string, 1),
		done:     make(chan struct{}),
		debounce: time.Duration(debounceMs) * time.Millisecond,
	}

	go ww.run()
	return ww, nil
}

func (w *Watcher) run() {
	var lastEvent time.Time
	pending := false
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()
	// run is the only sender; listeners ranging over Notify end with it
	defer close(w.notify)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Write)) {
				continue
			}

			w.mu.Lock()
			relevant := w.watching[filepath.Dir(event.Name)] || w.watching[event.Name]
			w.mu.Unlock()
			if relevant {
				lastEvent = time.Now()
				pending = true
				debug.Log(debug.WORKSPACE, "fsnotify: %s on %s", event.Op, event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.WORKSPACE, "fsnotify error: %v", err)

		case <-ticker.C:
			if !pending || time.Since(lastEvent) < w.debounce {
				continue
			}
			pending = false

			w.mu.Lock()
			root := w.root
			w.mu.Unlock()
			if root == "" {
				continue
			}
			select {
			case w.notify <- root:
				debug.Log(debug.WORKSPACE, "change notification: %s", root)
			default:
				// A notification is already queued
			}
		}
	}
}

// Track replaces the watched set with the directories of snap.
func (w *Watcher) Track(snap Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	want := make(map[string]bool, len(snap.Dirs))
	for _, d := range snap.Dirs {
		want[d] = true
	}

	for path := range w.watching {
		if !want[path] {
			if err := w.watcher.Remove(path); err != nil {
				// Path may already be gone
				debug.Log(debug.WORKSPACE, "unwatch %s: %v", path, err)
			}
			delete(w.watching, path)
		}
	}
	for path := range want {
		if w.watching[path] {
			continue
		}
		if err := w.watcher.Add(path); err != nil {
			debug.Log(debug.WORKSPACE, "watch %s: %v", path, err)
			continue
		}
		w.watching[path] = true
	}
	w.root = snap.Root
}

// Watching reports whether path is currently watched.
func (w *Watcher) Watching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watching[path]
}

// Notify returns the channel that receives workspace roots needing a rescan.
// It is closed once the watcher shuts down.
func (w *Watcher) Notify() <-chan string {
	return w.notify
}

// Close shuts down the watcher
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
