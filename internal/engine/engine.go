package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/engine/cursor"
	"github.com/dshills/markstyle/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// Position is a line/character position.
	Position = buffer.Position

	// Range is a span between two positions.
	Range = buffer.Range

	// BatchEdit is an atomic group of edits.
	BatchEdit = buffer.BatchEdit

	// Selection represents a caret or selection.
	Selection = cursor.Selection

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// RevisionID uniquely identifies a buffer revision.
	RevisionID = buffer.RevisionID
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// Engine is the main facade for the editor engine.
// It combines the buffer, the selection set and undo/redo into a unified,
// thread-safe API.
type Engine struct {
	mu sync.RWMutex

	// Core components
	buf        *buffer.Buffer
	selections *cursor.SelectionSet
	history    *history.History
	logger     *slog.Logger

	// Configuration
	lineEnding     buffer.LineEnding
	lineEndingSet  bool
	wordDelimiters string
	maxUndoEntries int
	readOnly       bool

	// Initialization
	initContent string
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		lineEnding:     buffer.LineEndingLF,
		wordDelimiters: buffer.DefaultWordDelimiters,
		maxUndoEntries: DefaultMaxUndoEntries,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.selections = cursor.NewSelectionSet(cursor.NewCursorSelection(buffer.Position{}))
	e.history = history.NewHistory(e.maxUndoEntries)
	return e
}

func (e *Engine) bufferOptions() []buffer.Option {
	opts := []buffer.Option{buffer.WithWordDelimiters(e.wordDelimiters)}
	if e.lineEndingSet {
		opts = append(opts, buffer.WithLineEnding(e.lineEnding))
	}
	return opts
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(e.initContent, e.bufferOptions()...)
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	buf, err := buffer.NewBufferFromReader(r, e.bufferOptions()...)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	e.buf = buf
	return e, nil
}

// Read Operations

// Document returns an immutable snapshot of the current text.
func (e *Engine) Document() buffer.Document {
	return e.Snapshot()
}

// Snapshot returns an immutable snapshot of the current text.
func (e *Engine) Snapshot() *buffer.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Snapshot()
}

// Text returns the full buffer content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (e *Engine) LineText(line int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineText(line)
}

// RevisionID returns the current buffer revision.
func (e *Engine) RevisionID() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RevisionID()
}

// LineEnding returns the line ending used when joining lines.
func (e *Engine) LineEnding() LineEnding {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEnding()
}

// IsReadOnly returns true if the engine rejects edits.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// Selections

// Selections returns the selections in creation order; the first one is
// the primary selection.
func (e *Engine) Selections() []Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selections.All()
}

// PrimarySelection returns the primary selection.
func (e *Engine) PrimarySelection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selections.Primary()
}

// SetSelections replaces all selections. Positions are clamped to the
// document.
func (e *Engine) SetSelections(sels []Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selections.SetAll(e.clampSelections(sels))
}

// AddSelection appends a selection after the existing ones.
func (e *Engine) AddSelection(sel Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selections.Add(e.clampSelection(sel))
}

func (e *Engine) clampSelection(sel Selection) Selection {
	return cursor.NewSelection(e.buf.ClampPosition(sel.Anchor), e.buf.ClampPosition(sel.Active))
}

func (e *Engine) clampSelections(sels []Selection) []Selection {
	result := make([]Selection, len(sels))
	for i, sel := range sels {
		result[i] = e.clampSelection(sel)
	}
	return result
}

// Write Operations

// ApplyEdit applies the batch atomically, records it for undo and carries
// every selection through it.
// On failure the document and selections are unchanged.
func (e *Engine) ApplyEdit(ctx context.Context, b *BatchEdit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b == nil || b.IsEmpty() {
		return nil
	}
	if e.readOnly {
		return ErrReadOnly
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.buf.Snapshot()
	selsBefore := e.selections.All()
	if err := e.buf.ApplyBatch(b); err != nil {
		e.logger.Debug("batch rejected", "batch", b.ID(), "label", b.Label(), "error", err)
		return fmt.Errorf("apply %q: %w", b.Label(), err)
	}

	selsAfter := cursor.TransformSelections(selsBefore, b)
	e.selections.SetAll(selsAfter)
	e.history.Push(history.NewEntry(before, b, selsBefore, selsAfter))

	e.logger.Debug("batch applied",
		"batch", b.ID(),
		"label", b.Label(),
		"edits", b.Len(),
		"revision", e.buf.RevisionID(),
	)
	return nil
}

// Undo/Redo

// Undo reverts the last applied batch and restores its selections.
func (e *Engine) Undo() error {
	if e.readOnly {
		return ErrReadOnly
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.history.Undo(e.buf, e.selections)
	if err != nil {
		return err
	}
	e.logger.Debug("undo", "batch", entry.ID, "label", entry.Label)
	return nil
}

// Redo re-applies the last undone batch.
func (e *Engine) Redo() error {
	if e.readOnly {
		return ErrReadOnly
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.history.Redo(e.buf, e.selections)
	if err != nil {
		return err
	}
	e.logger.Debug("redo", "batch", entry.ID, "label", entry.Label)
	return nil
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of undo entries.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of redo entries.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// UndoLabels returns the labels of the undo entries, most recent first.
func (e *Engine) UndoLabels() []string {
	return e.history.UndoLabels()
}

// ClearHistory removes all undo/redo entries.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}
