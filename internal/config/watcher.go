package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a config file for writes and reloads it, handing the
// freshly parsed Config to every registered callback.
type Watcher struct {
	watcher   *fsnotify.Watcher
	path      string
	callbacks []func(*Config)
	running   bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewWatcher creates a config file watcher. Watch must be called to start it.
func NewWatcher() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: new watcher: %w", err)
	}
	return &Watcher{
		watcher:  w,
		stopChan: make(chan struct{}),
	}, nil
}

// Watch starts watching path's parent directory for writes to path.
// fsnotify on most platforms does not fire rename-based events reliably on
// the file itself, so the directory is watched and events are filtered by
// name.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.path = path
	dir := filepath.Dir(path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("config: watch %s: %w", dir, err)
	}

	go w.watchLoop()
	w.running = true
	log.Printf("config: watching %s for changes", path)
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	close(w.stopChan)
	w.running = false
	return w.watcher.Close()
}

// OnChange registers a callback invoked with the newly loaded Config after
// every write to the watched file. A reload error is logged and the
// callback is skipped for that event; the previous Config stays live.
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event := <-w.watcher.Events:
			w.handleEvent(event)
		case err := <-w.watcher.Errors:
			log.Printf("config: watcher error: %v", err)
		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		log.Printf("config: reload of %s failed, keeping previous config: %v", w.path, err)
		return
	}

	w.mu.RLock()
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		go cb(cfg)
	}
	log.Printf("config: reloaded %s", w.path)
}
