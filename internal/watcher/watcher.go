// Package watcher implements the File Watcher (C9): it recursively
// watches a project root with fsnotify, debounces bursts of events
// per path the way the teacher's internal/indexing.FileWatcher does,
// and reports fatal per-directory watch failures through LastError so
// a caller can decide to retry, per the original Rust implementation's
// watcher self-test/retry contract.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/codegraph/cie/internal/config"
	cieerrors "github.com/codegraph/cie/internal/errors"
	"github.com/codegraph/cie/internal/logging"
)

// EventType is the kind of change a debounced ChangeEvent represents.
type EventType int

const (
	EventCreate EventType = iota
	EventWrite
	EventRemove
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventWrite:
		return "write"
	case EventRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// ChangeEvent is one debounced, filtered file-system change.
type ChangeEvent struct {
	Path string
	Type EventType
}

// Watcher monitors a project root for changes, matching Include/Exclude
// globs (doublestar, §2/§4.9) before handing debounced batches to
// OnBatch.
type Watcher struct {
	cfg *config.Config
	fsw *fsnotify.Watcher

	debounce time.Duration

	mu     sync.Mutex
	events map[string]EventType
	timer  *time.Timer

	errMu    sync.RWMutex
	lastErr  error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// OnBatch receives one flushed, debounced group of events. Called
	// from the debouncer's own goroutine; callers needing graph-store
	// mutation should apply their own synchronization.
	OnBatch func([]ChangeEvent)
}

// New constructs a Watcher bound to cfg. It does not start watching
// until Start is called.
func New(cfg *config.Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, cieerrors.NewWatcherError("failed to create fsnotify watcher: " + err.Error())
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		debounce: time.Duration(cfg.Index.WatchDebounceMs) * time.Millisecond,
		events:   make(map[string]EventType),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start recursively adds watches under root and begins processing
// events. Per-directory Add failures are recorded and skipped rather
// than aborting the whole walk; LastError reports the most recent one
// so a caller can decide whether to retry.
func (w *Watcher) Start(root string) error {
	if !w.cfg.Index.WatchMode {
		logging.Infof("watcher: disabled by configuration")
		return nil
	}

	if err := w.addWatchesRecursive(root); err != nil {
		return cieerrors.NewWatcherError("failed to add watches under " + root + ": " + err.Error())
	}

	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop halts event processing and releases the underlying fsnotify
// watcher. Any events queued but not yet flushed are dropped, matching
// the teacher's shutdown-avoids-deadlock rationale: the debouncer never
// flushes on cancellation because OnBatch may try to take locks the
// shutdown sequence already holds.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fsw.Close()
	w.wg.Wait()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.events = make(map[string]EventType)
	w.mu.Unlock()
	return err
}

// LastError returns the most recent fatal watch-setup error recorded
// by this Watcher, or nil if none occurred. Distinct from per-event
// fsnotify.Watcher.Errors, which are logged and otherwise ignored.
func (w *Watcher) LastError() error {
	w.errMu.RLock()
	defer w.errMu.RUnlock()
	return w.lastErr
}

func (w *Watcher) setLastError(err error) {
	w.errMu.Lock()
	w.lastErr = err
	w.errMu.Unlock()
}

func (w *Watcher) addWatchesRecursive(root string) error {
	visited := make(map[string]bool)
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		if w.shouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.setLastError(cieerrors.NewWatcherError("failed to watch " + path + ": " + err.Error()))
			return nil
		}
		return nil
	})
}

func (w *Watcher) shouldIgnoreDir(path string) bool {
	rel, err := filepath.Rel(w.cfg.Project.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.cfg.Exclude {
		trimmed := pattern
		if len(trimmed) > 3 && trimmed[len(trimmed)-3:] == "/**" {
			trimmed = trimmed[:len(trimmed)-3]
		}
		if matched, _ := doublestar.Match(trimmed, filepath.Base(path)); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) shouldProcessFile(path string) bool {
	rel, err := filepath.Rel(w.cfg.Project.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.cfg.Exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return false
		}
	}
	if len(w.cfg.Include) == 0 {
		return true
	}
	for _, pattern := range w.cfg.Include {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Errorf("watcher: fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	info, statErr := os.Stat(ev.Name)
	if statErr != nil {
		if ev.Op&fsnotify.Remove != 0 && w.shouldProcessFile(ev.Name) {
			w.addEvent(ev.Name, EventRemove)
		}
		return
	}

	if info.IsDir() {
		if ev.Op&fsnotify.Create != 0 && !w.shouldIgnoreDir(ev.Name) {
			if err := w.fsw.Add(ev.Name); err != nil {
				w.setLastError(cieerrors.NewWatcherError("failed to watch new directory " + ev.Name + ": " + err.Error()))
			}
		}
		return
	}

	if info.Size() > w.cfg.Index.MaxFileSize {
		return
	}
	if !w.shouldProcessFile(ev.Name) {
		return
	}

	var t EventType
	switch {
	case ev.Op&fsnotify.Create != 0:
		t = EventCreate
	case ev.Op&fsnotify.Write != 0:
		t = EventWrite
	case ev.Op&fsnotify.Rename != 0:
		t = EventWrite
	case ev.Op&fsnotify.Remove != 0:
		t = EventRemove
	default:
		return
	}
	w.addEvent(ev.Name, t)
}

func (w *Watcher) addEvent(path string, t EventType) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events[path] = t
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush groups the accumulated per-path events into removes, changes,
// and creates — in that order, so deletions free resources before
// creations claim new ones — and hands them to OnBatch as one slice.
func (w *Watcher) flush() {
	w.mu.Lock()
	events := w.events
	w.events = make(map[string]EventType)
	w.mu.Unlock()

	if len(events) == 0 || w.OnBatch == nil {
		return
	}

	var removes, changes, creates []ChangeEvent
	for path, t := range events {
		switch t {
		case EventRemove:
			removes = append(removes, ChangeEvent{Path: path, Type: t})
		case EventCreate:
			creates = append(creates, ChangeEvent{Path: path, Type: t})
		default:
			changes = append(changes, ChangeEvent{Path: path, Type: t})
		}
	}

	batch := make([]ChangeEvent, 0, len(events))
	batch = append(batch, removes...)
	batch = append(batch, changes...)
	batch = append(batch, creates...)
	w.OnBatch(batch)
}
