// Package execctx provides the execution context for action handlers.
package execctx

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dshills/markstyle/internal/markdown"
)

// Editor is the editor surface handlers operate on.
// *engine.Engine satisfies it.
type Editor interface {
	markdown.Host

	// Text returns the full document text.
	Text() string

	// IsReadOnly reports whether edits are rejected.
	IsReadOnly() bool

	// Undo reverts the most recent batch edit.
	Undo() error

	// Redo reapplies the most recently undone batch edit.
	Redo() error

	CanUndo() bool
	CanRedo() bool
}

// ExecutionContext provides handlers with everything needed to run an
// action.
type ExecutionContext struct {
	// Context bounds blocking calls such as ApplyEdit.
	Context context.Context

	// Editor is the document and selections being edited.
	Editor Editor

	// Coordinator runs toggle and heading commands.
	Coordinator *markdown.Coordinator

	// Logger receives handler diagnostics.
	Logger *slog.Logger

	// File information
	FilePath string
	FileType string

	// Execution parameters
	Count  int  // Repeat count (1 if not specified)
	DryRun bool // If true, plan edits without applying them

	// Data holds handler-specific data passed between hooks and handlers.
	Data map[string]any
}

// New creates an execution context for the given editor.
func New(editor Editor) *ExecutionContext {
	return &ExecutionContext{
		Context: context.Background(),
		Editor:  editor,
		Logger:  slog.New(slog.DiscardHandler),
		Count:   1,
		Data:    make(map[string]any),
	}
}

// WithContext sets the context.Context.
func (ctx *ExecutionContext) WithContext(c context.Context) *ExecutionContext {
	if c != nil {
		ctx.Context = c
	}
	return ctx
}

// WithCoordinator sets the toggle coordinator.
func (ctx *ExecutionContext) WithCoordinator(c *markdown.Coordinator) *ExecutionContext {
	ctx.Coordinator = c
	return ctx
}

// WithLogger sets the logger.
func (ctx *ExecutionContext) WithLogger(logger *slog.Logger) *ExecutionContext {
	if logger != nil {
		ctx.Logger = logger
	}
	return ctx
}

// WithFilePath sets the file path and derives the file type from its
// extension.
func (ctx *ExecutionContext) WithFilePath(path string) *ExecutionContext {
	ctx.FilePath = path
	ctx.FileType = FileTypeFor(path)
	return ctx
}

// WithCount sets the repeat count.
func (ctx *ExecutionContext) WithCount(count int) *ExecutionContext {
	if count > 0 {
		ctx.Count = count
	}
	return ctx
}

// WithDryRun sets the dry-run flag.
func (ctx *ExecutionContext) WithDryRun(dryRun bool) *ExecutionContext {
	ctx.DryRun = dryRun
	return ctx
}

// Ctx returns the context.Context, never nil.
func (ctx *ExecutionContext) Ctx() context.Context {
	if ctx.Context == nil {
		return context.Background()
	}
	return ctx.Context
}

// GetCount returns the count, defaulting to 1.
func (ctx *ExecutionContext) GetCount() int {
	if ctx.Count <= 0 {
		return 1
	}
	return ctx.Count
}

// IsReadOnly reports whether the editor rejects edits.
func (ctx *ExecutionContext) IsReadOnly() bool {
	return ctx.Editor != nil && ctx.Editor.IsReadOnly()
}

// HasSelection reports whether any selection is non-empty.
func (ctx *ExecutionContext) HasSelection() bool {
	if ctx.Editor == nil {
		return false
	}
	for _, sel := range ctx.Editor.Selections() {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// SetData stores handler-specific data.
func (ctx *ExecutionContext) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves handler-specific data.
func (ctx *ExecutionContext) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string from Data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Clone creates a shallow copy with its own Data map.
func (ctx *ExecutionContext) Clone() *ExecutionContext {
	clone := *ctx
	clone.Data = make(map[string]any, len(ctx.Data))
	for k, v := range ctx.Data {
		clone.Data[k] = v
	}
	return &clone
}

// Validate checks that the required fields are set.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Editor == nil {
		return ErrMissingEditor
	}
	return nil
}

// ValidateForEdit checks the context can run an editing command.
func (ctx *ExecutionContext) ValidateForEdit() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Coordinator == nil {
		return ErrMissingCoordinator
	}
	if ctx.IsReadOnly() && !ctx.DryRun {
		return ErrReadOnly
	}
	return nil
}

// FileTypeFor maps a file extension to a file type name.
func FileTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return "markdown"
	case "":
		return ""
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
}
