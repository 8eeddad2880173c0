// Package markdown implements wrap-style Markdown toggles over one or more
// carets.
//
// A toggle command takes a delimiter pair (bold "**", italic "*", code
// span "`", strikethrough "~~") and, for every selection of the host,
// decides whether to insert or remove the delimiters. All edits of one
// invocation are computed against a single snapshot and handed to the host
// as one BatchEdit:
//
//	c := markdown.NewCoordinator()
//	err := c.Toggle(ctx, host, markdown.StyleBold)
//
// Per selection the pipeline is:
//
//   - Classify: where an empty caret sits relative to the delimiters
//   - SelectTarget: which span the toggle applies to (word, empty pair,
//     insertion point, or the rest of a list item for strikethrough)
//   - ToggleRange: wrap or unwrap the span and correct the caret
//
// Edits earlier in the batch move text to the right of them. A ShiftLedger
// records those deltas so later carets on the same line report positions
// in the coordinates of the edited document, while every range is still
// read from the original snapshot.
//
// CycleHeading applies the same batch/ledger path to ATX heading markers.
package markdown
