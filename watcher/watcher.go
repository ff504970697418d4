// Package watcher recursively watches discovery's configured roots and
// debounces filesystem churn into registry refreshes, per spec.md §4.10.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"toolhub/registry"
	"toolhub/spec"
)

// DefaultDebounce is the debounce window applied when a zero duration is
// passed to New, matching spec.md §4.10's default.
const DefaultDebounce = 200 * time.Millisecond

// ScanFunc re-scans every configured root and returns the full set of
// specs that should replace the registry's contents. Per-directory
// failures are reported through onError rather than returned; the scan
// itself never aborts on one bad directory (spec.md §4.2/§4.10 share the
// same onError contract).
type ScanFunc func(onError func(dir string, err error)) []*spec.ToolSpec

// Watcher recursively watches a set of filesystem roots and, on debounced
// change, re-scans and atomically replaces a registry's contents.
type Watcher struct {
	fsw      *fsnotify.Watcher
	registry *registry.Registry
	scan     ScanFunc
	onError  func(dir string, err error)
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New builds a Watcher that refreshes reg by calling scan on every
// debounced change and reporting both scan and watch errors to onError.
// A nil onError discards errors. A non-positive debounce uses
// DefaultDebounce.
func New(reg *registry.Registry, scan ScanFunc, onError func(dir string, err error), debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if onError == nil {
		onError = func(string, error) {}
	}
	return &Watcher{
		fsw:      fsw,
		registry: reg,
		scan:     scan,
		onError:  onError,
		debounce: debounce,
		stopCh:   make(chan struct{}),
	}, nil
}

// AddRoot recursively registers root and every existing subdirectory with
// the underlying fsnotify watcher. Per-entry stat/watch failures go
// through onError; AddRoot itself never aborts partway.
func (w *Watcher) AddRoot(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.onError(path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			w.onError(path, err)
		}
		return nil
	})
}

// Start launches the event loop in a background goroutine. Non-blocking.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop halts the watcher and releases its fsnotify handle. The timer
// underlying the debounce is unreferenced (it does not keep the process
// alive), per spec.md §5's lifecycle note.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	_ = w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onError("", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(ev.Name); err != nil {
				w.onError(ev.Name, err)
			}
		}
	}
	w.scheduleRefresh()
}

// scheduleRefresh debounces concurrent filesystem churn into a single
// refresh, firing debounce after the last observed event.
func (w *Watcher) scheduleRefresh() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.refresh)
}

func (w *Watcher) refresh() {
	specs := w.scan(w.onError)
	if err := w.registry.Replace(specs); err != nil {
		w.onError("", err)
	}
}
