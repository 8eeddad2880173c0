// Package logging builds the structured logger shared by markstyle
// components.
//
// Records are written as JSON (or text) to a rotating file managed by
// lumberjack, or to stderr when no file is configured. Recent warnings and
// errors are also kept in memory for display by interactive commands.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dshills/markstyle/internal/config"
)

// DefaultRecentSize is the number of warn/error entries retained.
const DefaultRecentSize = 100

// Entry is a captured log record.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Format renders the entry on one line.
func (e Entry) Format() string {
	return fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level.String(), e.Message)
}

type ringBuffer struct {
	mu      sync.RWMutex
	entries []Entry
	size    int
	head    int
	count   int

	warnCount  int
	errorCount int
}

func newRingBuffer(size int) *ringBuffer {
	if size <= 0 {
		size = DefaultRecentSize
	}
	return &ringBuffer{
		entries: make([]Entry, size),
		size:    size,
	}
}

func (rb *ringBuffer) add(entry Entry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = entry
	rb.head = (rb.head + 1) % rb.size
	if rb.count < rb.size {
		rb.count++
	}

	if entry.Level >= slog.LevelError {
		rb.errorCount++
	} else if entry.Level >= slog.LevelWarn {
		rb.warnCount++
	}
}

func (rb *ringBuffer) all() []Entry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	result := make([]Entry, rb.count)
	for i := 0; i < rb.count; i++ {
		idx := (rb.head - rb.count + i + rb.size) % rb.size
		result[i] = rb.entries[idx]
	}
	return result
}

func (rb *ringBuffer) counts() (warn, err int) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.warnCount, rb.errorCount
}

// recentHandler captures WARN and ERROR records before passing them on.
type recentHandler struct {
	inner  slog.Handler
	buffer *ringBuffer
}

func (h *recentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *recentHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.buffer.add(Entry{
			Time:    r.Time,
			Level:   r.Level,
			Message: r.Message,
		})
	}
	return h.inner.Handle(ctx, r)
}

func (h *recentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recentHandler{inner: h.inner.WithAttrs(attrs), buffer: h.buffer}
}

func (h *recentHandler) WithGroup(name string) slog.Handler {
	return &recentHandler{inner: h.inner.WithGroup(name), buffer: h.buffer}
}

// Logger is a configured slog.Logger with its sink and recent entries.
type Logger struct {
	*slog.Logger

	level  *slog.LevelVar
	path   string
	closer io.Closer
	recent *ringBuffer
}

// Option configures Init.
type Option func(*options)

type options struct {
	stderr     io.Writer
	recentSize int
}

// WithStderr replaces the writer used when no log file is configured.
func WithStderr(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// WithRecentSize sets how many warn/error entries are retained.
func WithRecentSize(n int) Option {
	return func(o *options) {
		o.recentSize = n
	}
}

// Init builds a Logger from cfg. With a file configured, output rotates
// through lumberjack; otherwise it goes to stderr.
func Init(cfg config.LoggingConfig, opts ...Option) (*Logger, error) {
	o := options{stderr: os.Stderr, recentSize: DefaultRecentSize}
	for _, opt := range opts {
		opt(&o)
	}

	lvl, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	level := new(slog.LevelVar)
	level.Set(lvl)

	l := &Logger{level: level, recent: newRingBuffer(o.recentSize)}

	var writer io.Writer = o.stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writer = lj
		l.closer = lj
		l.path = cfg.File
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var inner slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		inner = slog.NewJSONHandler(writer, handlerOpts)
	case "text":
		inner = slog.NewTextHandler(writer, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	l.Logger = slog.New(&recentHandler{inner: inner, buffer: l.recent})
	return l, nil
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	level := new(slog.LevelVar)
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
		level:  level,
		recent: newRingBuffer(1),
	}
}

// SetLevel changes the minimum level of l and every logger derived from it.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Path returns the log file, or "" when logging to stderr.
func (l *Logger) Path() string {
	return l.path
}

// Entries returns retained warn/error entries, oldest first.
func (l *Logger) Entries() []Entry {
	return l.recent.all()
}

// Counts returns the number of warnings and errors logged.
func (l *Logger) Counts() (warn, err int) {
	return l.recent.counts()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
