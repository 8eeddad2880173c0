// Package markdown provides the handlers for the markdown.* actions.
//
// Each toggle action wraps or unwraps its delimiter pair at every
// selection of the editor in one undoable batch. The heading actions
// cycle the ATX heading level of every line carrying a selection end.
//
// A dry run computes the same plan but does not apply it: the result
// carries the edits and selections that would be produced.
package markdown
