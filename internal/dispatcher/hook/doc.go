// Package hook provides pre/post dispatch hooks for the dispatcher.
//
// Hooks intercept action dispatch for logging, validation and change
// tracking. A PreDispatchHook may rewrite the action or cancel it; a
// PostDispatchHook may inspect or modify the result.
//
// # Priority System
//
//   - Pre-hooks: higher priority runs first
//   - Post-hooks: lower priority runs first, higher runs last to see the
//     final result
//
// Standard priority constants:
//
//	PriorityAudit      = 1000
//	PriorityValidation = 800
//	PriorityRepeat     = 500
//	PriorityJournal    = 100
//
// # Built-in Hooks
//
//   - AuditHook: logs every dispatch through slog
//   - RepeatHook: remembers the last style command for editor.repeat
//   - JournalHook: records the edits each command made
//   - ReadOnlyHook: cancels editing actions on read-only buffers
//   - TimingHook: reports handler duration
//   - ActionFilterHook: allow/deny filter; NewSourceFilterHook keeps
//     plugin-sourced actions inside the markdown and editor namespaces
package hook
