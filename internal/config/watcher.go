package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Subscriber receives each reload result. On error cfg is nil and the
// watcher keeps the previous configuration.
type Subscriber func(cfg *Config, err error)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithLookup sets the environment lookup applied after each reload.
func WithLookup(lookup func(string) (string, bool)) WatcherOption {
	return func(w *Watcher) {
		w.lookup = lookup
	}
}

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	mu sync.Mutex

	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	lookup   func(string) (string, bool)
	logger   *slog.Logger

	current *Config
	timer   *time.Timer

	subscribers map[int]Subscriber
	nextID      int

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// NewWatcher loads path and starts watching it. The parent directory is
// watched so atomic replace-on-save is seen.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:        filepath.Clean(abs),
		debounce:    DefaultDebounce,
		lookup:      os.LookupEnv,
		logger:      slog.New(slog.DiscardHandler),
		subscribers: make(map[int]Subscriber),
		closeCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	cfg, err := w.load()
	if err != nil {
		return nil, err
	}
	w.current = cfg

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	w.fsw = fsw

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Current returns the last successfully loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Subscribe registers fn and returns a function that removes it.
func (w *Watcher) Subscribe(fn Subscriber) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.subscribers[id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subscribers, id)
	}
}

// Reload reads the file now and notifies subscribers.
func (w *Watcher) Reload() (*Config, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWatcherClosed
	}
	w.mu.Unlock()

	cfg, err := w.load()

	w.mu.Lock()
	if err == nil {
		w.current = cfg
	}
	subs := w.snapshotLocked()
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("config reload failed", "path", w.path, "error", err)
	} else {
		w.logger.Info("config reloaded", "path", w.path)
	}
	for _, fn := range subs {
		w.safeCall(fn, cfg, err)
	}
	return cfg, err
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.closedWg.Wait()
	return err
}

func (w *Watcher) load() (*Config, error) {
	cfg, err := Load(w.path)
	if err != nil {
		return nil, err
	}
	if w.lookup != nil {
		ApplyEnv(cfg, w.lookup)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		_, _ = w.Reload()
	})
}

func (w *Watcher) snapshotLocked() []Subscriber {
	ids := make([]int, 0, len(w.subscribers))
	for id := range w.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]Subscriber, len(ids))
	for i, id := range ids {
		subs[i] = w.subscribers[id]
	}
	return subs
}

func (w *Watcher) safeCall(fn Subscriber, cfg *Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("config subscriber panicked", "panic", r)
		}
	}()
	fn(cfg, err)
}
