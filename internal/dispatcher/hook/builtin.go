package hook

import (
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/dshills/markstyle/internal/dispatcher/execctx"
	"github.com/dshills/markstyle/internal/dispatcher/handler"
	"github.com/dshills/markstyle/internal/engine/buffer"
	"github.com/dshills/markstyle/internal/input"
)

// Standard hook priorities.
const (
	PriorityAudit      = 1000 // Runs first (pre) / last (post)
	PriorityValidation = 800
	PriorityRepeat     = 500
	PriorityJournal    = 100
)

// isEditing reports whether the action may change the document.
func isEditing(actionName string) bool {
	return strings.HasPrefix(actionName, "markdown.") ||
		actionName == "editor.undo" ||
		actionName == "editor.redo" ||
		actionName == "editor.repeat"
}

// AuditHook logs all dispatched actions.
type AuditHook struct {
	logger *slog.Logger
}

// NewAuditHook creates an audit hook with the given logger.
func NewAuditHook(logger *slog.Logger) *AuditHook {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuditHook{logger: logger}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// Priority implements Hook.
func (h *AuditHook) Priority() int { return PriorityAudit }

// PreDispatch logs the action being dispatched.
func (h *AuditHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	h.logger.Debug("dispatch start",
		"action", action.Name,
		"source", action.Source.String(),
		"count", ctx.Count,
		"dry_run", ctx.DryRun,
	)
	return true
}

// PostDispatch logs the dispatch result.
func (h *AuditHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.Status == handler.StatusError {
		h.logger.Error("dispatch failed", "action", action.Name, "error", result.Error)
		return
	}
	h.logger.Debug("dispatch complete",
		"action", action.Name,
		"status", result.Status.String(),
		"edits", len(result.Edits),
		"message", result.Message,
	)
}

// RepeatHook captures the last successful markdown command so that
// editor.repeat can run it again.
type RepeatHook struct {
	mu         sync.RWMutex
	lastAction *input.Action
	lastCount  int
}

// NewRepeatHook creates a new repeat hook.
func NewRepeatHook() *RepeatHook {
	return &RepeatHook{}
}

// Name implements Hook.
func (h *RepeatHook) Name() string { return "repeat" }

// Priority implements Hook.
func (h *RepeatHook) Priority() int { return PriorityRepeat }

// PostDispatch captures successful markdown commands.
func (h *RepeatHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.Status != handler.StatusOK || ctx.DryRun {
		return
	}
	if !strings.HasPrefix(action.Name, "markdown.") {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastAction = copyAction(action)
	h.lastCount = ctx.Count
}

// LastAction returns a copy of the last captured action and count.
// Returns nil if no action has been captured.
func (h *RepeatHook) LastAction() (*input.Action, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.lastAction == nil {
		return nil, 0
	}
	return copyAction(h.lastAction), h.lastCount
}

// Clear clears the last captured action.
func (h *RepeatHook) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastAction = nil
	h.lastCount = 0
}

func copyAction(action *input.Action) *input.Action {
	if action == nil {
		return nil
	}
	c := *action
	if action.Args.Extra != nil {
		c.Args.Extra = maps.Clone(action.Args.Extra)
	}
	return &c
}

// ChangeRecord is one edit made by a command.
type ChangeRecord struct {
	Timestamp time.Time
	Action    string
	FilePath  string
	Range     buffer.Range
	OldText   string
	NewText   string
}

// JournalHook records the edits of successful commands.
type JournalHook struct {
	mu       sync.RWMutex
	changes  []ChangeRecord
	maxSize  int
	callback func(record ChangeRecord)
}

// NewJournalHook creates a journal keeping at most maxSize records
// (0 = unlimited).
func NewJournalHook(maxSize int) *JournalHook {
	return &JournalHook{maxSize: maxSize}
}

// Name implements Hook.
func (h *JournalHook) Name() string { return "journal" }

// Priority implements Hook.
func (h *JournalHook) Priority() int { return PriorityJournal }

// PostDispatch records the result's edits. Dry runs are not recorded.
func (h *JournalHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.Status != handler.StatusOK || ctx.DryRun || len(result.Edits) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	for _, edit := range result.Edits {
		record := ChangeRecord{
			Timestamp: now,
			Action:    action.Name,
			FilePath:  ctx.FilePath,
			Range:     edit.Range,
			OldText:   edit.OldText,
			NewText:   edit.NewText,
		}
		h.changes = append(h.changes, record)
		if h.callback != nil {
			h.callback(record)
		}
	}

	if h.maxSize > 0 && len(h.changes) > h.maxSize {
		h.changes = h.changes[len(h.changes)-h.maxSize:]
	}
}

// Changes returns a copy of all recorded changes.
func (h *JournalHook) Changes() []ChangeRecord {
	return h.RecentChanges(-1)
}

// RecentChanges returns the most recent n changes; n < 0 returns all.
func (h *JournalHook) RecentChanges(n int) []ChangeRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	start := 0
	if n >= 0 && n < len(h.changes) {
		start = len(h.changes) - n
	}
	result := make([]ChangeRecord, len(h.changes)-start)
	copy(result, h.changes[start:])
	return result
}

// SetCallback sets a callback to be called for each change.
func (h *JournalHook) SetCallback(fn func(record ChangeRecord)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callback = fn
}

// Clear removes all recorded changes.
func (h *JournalHook) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = nil
}

// ReadOnlyHook cancels editing actions on read-only buffers. Dry runs are
// allowed since they do not modify the buffer.
type ReadOnlyHook struct{}

// NewReadOnlyHook creates a read-only enforcement hook.
func NewReadOnlyHook() *ReadOnlyHook {
	return &ReadOnlyHook{}
}

// Name implements Hook.
func (h *ReadOnlyHook) Name() string { return "read-only" }

// Priority implements Hook.
func (h *ReadOnlyHook) Priority() int { return PriorityValidation }

// PreDispatch cancels modifications on read-only buffers.
func (h *ReadOnlyHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return !ctx.IsReadOnly() || ctx.DryRun || !isEditing(action.Name)
}

// TimingHook measures action execution time. The start time is kept on
// the ExecutionContext so concurrent dispatches do not interfere.
type TimingHook struct {
	callback func(action string, duration time.Duration)
}

const timingStartKey = "_timing_start"

// NewTimingHook creates a timing hook.
func NewTimingHook(callback func(action string, duration time.Duration)) *TimingHook {
	return &TimingHook{callback: callback}
}

// Name implements Hook.
func (h *TimingHook) Name() string { return "timing" }

// Priority implements Hook.
func (h *TimingHook) Priority() int { return PriorityAudit }

// PreDispatch records the start time on the context.
func (h *TimingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	ctx.SetData(timingStartKey, time.Now())
	return true
}

// PostDispatch reports the duration.
func (h *TimingHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	v, ok := ctx.GetData(timingStartKey)
	if !ok {
		return
	}
	if start, ok := v.(time.Time); ok && h.callback != nil {
		h.callback(action.Name, time.Since(start))
	}
}

// ActionFilterHook allows or blocks actions based on a filter function.
// The reason for a block is stored in the action's Extra args under
// "filter_reason".
type ActionFilterHook struct {
	name     string
	priority int
	filter   func(action *input.Action, ctx *execctx.ExecutionContext) (allow bool, reason string)
}

// NewActionFilterHook creates an action filter hook.
func NewActionFilterHook(name string, priority int, filter func(*input.Action, *execctx.ExecutionContext) (bool, string)) *ActionFilterHook {
	return &ActionFilterHook{name: name, priority: priority, filter: filter}
}

// NewSourceFilterHook limits actions from source to the given namespaces.
// Actions from other sources pass.
func NewSourceFilterHook(name string, source input.ActionSource, namespaces ...string) *ActionFilterHook {
	return NewActionFilterHook(name, PriorityValidation, func(action *input.Action, _ *execctx.ExecutionContext) (bool, string) {
		if action.Source != source {
			return true, ""
		}
		for _, ns := range namespaces {
			if strings.HasPrefix(action.Name, ns+".") {
				return true, ""
			}
		}
		return false, source.String() + " actions may not call " + action.Name
	})
}

// Name implements Hook.
func (h *ActionFilterHook) Name() string { return h.name }

// Priority implements Hook.
func (h *ActionFilterHook) Priority() int { return h.priority }

// PreDispatch applies the filter.
func (h *ActionFilterHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.filter == nil {
		return true
	}
	allow, reason := h.filter(action, ctx)
	if !allow && reason != "" {
		*action = action.WithArg("filter_reason", reason)
	}
	return allow
}
